package markup

import (
	"strings"
)

// DefaultIndent is the indentation unit used when none is configured.
const DefaultIndent = "\t"

// ContentPolicy decides whether a content token survives delayering. prev
// and next are the kinds of the tokens on either side of it, KindNone at
// the ends of the input.
type ContentPolicy func(prev, next Kind, literal string) bool

// KeepSoleContent keeps text only when it is the entire body of an
// element. Any other text run is treated as layout, which also discards
// text mixed with child elements.
func KeepSoleContent(prev, next Kind, _ string) bool {
	return prev == KindOpening && next == KindClosing
}

// KeepNonBlank keeps every text run that has a non-whitespace character.
// Mixed content survives, but relayouts of it are not idempotent.
func KeepNonBlank(_, _ Kind, literal string) bool {
	return strings.TrimSpace(literal) != ""
}

// Delayer drops the content tokens that keep rejects. All other tokens are
// returned unchanged and in order. A nil keep means KeepSoleContent.
func Delayer(tokens []Token, keep ContentPolicy) []Token {
	if keep == nil {
		keep = KeepSoleContent
	}
	out := make([]Token, 0, len(tokens))
	prev := KindNone
	for i, tok := range tokens {
		if tok.Kind == KindContent {
			next := KindNone
			if i+1 < len(tokens) {
				next = tokens[i+1].Kind
			}
			if !keep(prev, next, tok.Literal) {
				prev = tok.Kind
				continue
			}
		}
		out = append(out, tok)
		prev = tok.Kind
	}
	return out
}

// Strip removes layout whitespace from input and returns the compact text.
func Strip(input []byte, keep ContentPolicy) ([]byte, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	var buf strings.Builder
	buf.Grow(len(input))
	for _, tok := range Delayer(tokens, keep) {
		buf.WriteString(tok.Literal)
	}
	return []byte(buf.String()), nil
}

// Layer joins tokens back into text, starting a new line indented by
// depth copies of indent wherever breakBefore says so. A closing tag with
// no open element is an error wrapping ErrUnbalanced.
func Layer(tokens []Token, indent string) (string, error) {
	var b strings.Builder
	depth := 0
	prev := KindNone
	for _, tok := range tokens {
		cur := tok.Kind
		if cur == KindClosing {
			if depth == 0 {
				return "", &ScanError{Pos: tok.Span.Start, Construct: tok.Literal, Err: ErrUnbalanced}
			}
			depth--
		}

		if breakBefore(prev, cur) {
			b.WriteByte('\n')
			for range depth {
				b.WriteString(indent)
			}
		}
		b.WriteString(tok.Literal)

		if cur == KindOpening {
			depth++
		}
		prev = cur
	}
	return b.String(), nil
}

func breakBefore(prev, cur Kind) bool {
	if prev == KindNone {
		return false
	}
	switch {
	case prev == KindHeader && cur == KindOpening,
		prev == KindClosing && cur == KindOpening,
		prev == KindOpening && cur == KindOpening,
		prev == KindClosing && cur == KindClosing:
		return true
	}
	return standsAlone(prev) || standsAlone(cur)
}

// standsAlone reports whether tokens of kind k always sit on a line of
// their own.
func standsAlone(k Kind) bool {
	switch k {
	case KindSingle, KindComment, KindCData, KindUndefined:
		return true
	}
	return false
}
