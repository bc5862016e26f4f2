package format

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

type diffLine struct {
	op      byte
	text    string
	oldLine int
	newLine int
	noEOL   bool // last line of its side, without a trailing newline
}

// Diff returns a unified diff of before and after, labelled with path. It
// returns the empty string when the two are equal.
func Diff(path string, before, after []byte) string {
	lines := diffLines(string(before), string(after))

	var changes []int
	for i, l := range lines {
		if l.op != ' ' {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", path, path)

	for c := 0; c < len(changes); {
		start := max(changes[c]-diffContext, 0)
		end := changes[c] + 1
		c++
		for c < len(changes) && changes[c]-end <= 2*diffContext {
			end = changes[c] + 1
			c++
		}
		end = min(end+diffContext, len(lines))
		writeHunk(&b, lines[start:end])
	}
	return b.String()
}

func writeHunk(b *strings.Builder, hunk []diffLine) {
	oldCount, newCount := 0, 0
	for _, l := range hunk {
		if l.op != '+' {
			oldCount++
		}
		if l.op != '-' {
			newCount++
		}
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", hunk[0].oldLine, oldCount, hunk[0].newLine, newCount)
	for _, l := range hunk {
		b.WriteByte(l.op)
		b.WriteString(l.text)
		b.WriteByte('\n')
		if l.noEOL {
			b.WriteString("\\ No newline at end of file\n")
		}
	}
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var lines []diffLine
	old, cur := 1, 1
	for _, d := range diffs {
		var op byte
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffDelete:
			op = '-'
		default:
			op = ' '
		}
		for _, text := range splitLines(d.Text) {
			lines = append(lines, diffLine{op: op, text: text, oldLine: old, newLine: cur})
			if op != '+' {
				old++
			}
			if op != '-' {
				cur++
			}
		}
	}

	markMissingEOL(lines, before, '+')
	markMissingEOL(lines, after, '-')
	return lines
}

// markMissingEOL flags the last line of one side when text does not end in a
// newline. skip is the op of lines that belong only to the other side.
func markMissingEOL(lines []diffLine, text string, skip byte) {
	if text == "" || strings.HasSuffix(text, "\n") {
		return
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].op != skip {
			lines[i].noEOL = true
			return
		}
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
