package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// printer writes status lines and diffs, colored when the destination is a
// terminal or --color=on.
type printer struct {
	out     io.Writer
	info    *color.Color
	warn    *color.Color
	added   *color.Color
	removed *color.Color
	hunk    *color.Color
	header  *color.Color
}

func newPrinter(cmd *cobra.Command, f *os.File) (*printer, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return nil, err
	}

	var enabled bool
	switch mode {
	case "auto":
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return nil, fmt.Errorf("unsupported color mode %q (expected auto, on or off)", mode)
	}

	return newColorPrinter(f, enabled), nil
}

func newColorPrinter(w io.Writer, enabled bool) *printer {
	p := &printer{
		out:     w,
		info:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
		header:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.info, p.warn, p.added, p.removed, p.hunk, p.header} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) status(path, msg string) {
	if path != "" {
		msg = path + ": " + msg
	}
	p.info.Fprintln(p.out, msg)
}

func (p *printer) warning(path, msg string) {
	if path != "" {
		msg = path + ": " + msg
	}
	p.warn.Fprintln(p.out, msg)
}

func (p *printer) plain(line string) {
	fmt.Fprintln(p.out, line)
}

func (p *printer) diff(text string) {
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			p.header.Fprint(p.out, line)
		case strings.HasPrefix(line, "@@"):
			p.hunk.Fprint(p.out, line)
		case strings.HasPrefix(line, "+"):
			p.added.Fprint(p.out, line)
		case strings.HasPrefix(line, "-"):
			p.removed.Fprint(p.out, line)
		default:
			fmt.Fprint(p.out, line)
		}
	}
}
