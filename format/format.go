// Package format runs the markup relayout pipeline: validate, strip the
// old layout, lay the document out again.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dhamidi/xmlalign/markup"
)

// Options configures a single Format call. The zero value formats with tab
// indentation, the sole-content policy and well-formedness validation.
type Options struct {
	Indent        string
	Content       markup.ContentPolicy
	KeepUndefined bool
	FinalNewline  bool
	Validator     Validator
}

func (o Options) withDefaults() Options {
	if o.Indent == "" {
		o.Indent = markup.DefaultIndent
	}
	if o.Content == nil {
		o.Content = markup.KeepSoleContent
	}
	if o.Validator == nil {
		o.Validator = WellFormed
	}
	return o
}

type Result struct {
	Formatted []byte
	Elapsed   time.Duration
	Changed   bool
}

// ValidityError reports input rejected by the validator. Nothing is
// formatted when it is returned.
type ValidityError struct {
	Err error
}

func (e *ValidityError) Error() string {
	return "xml is invalid: " + e.Err.Error()
}

func (e *ValidityError) Unwrap() error {
	return e.Err
}

// Format validates src and returns it re-laid out. Elapsed covers the
// relayout only, not validation.
func Format(src []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if err := opts.Validator.Validate(src); err != nil {
		return nil, &ValidityError{Err: err}
	}

	start := time.Now()
	tokens, err := markup.Tokenize(src)
	if err != nil {
		return nil, err
	}
	if !opts.KeepUndefined {
		if err := checkDefined(tokens); err != nil {
			return nil, err
		}
	}

	out, err := markup.Layer(markup.Delayer(tokens, opts.Content), opts.Indent)
	if err != nil {
		return nil, err
	}
	if opts.FinalNewline && out != "" {
		out += "\n"
	}
	elapsed := time.Since(start)

	formatted := []byte(out)
	return &Result{
		Formatted: formatted,
		Elapsed:   elapsed,
		Changed:   !bytes.Equal(src, formatted),
	}, nil
}

func checkDefined(tokens []markup.Token) error {
	for _, tok := range tokens {
		if tok.Kind == markup.KindUndefined {
			return &markup.ScanError{Pos: tok.Span.Start, Construct: excerpt(tok.Literal), Err: markup.ErrUndefined}
		}
	}
	return nil
}

func excerpt(s string) string {
	const limit = 40
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

// CompletedMessage is the status line shown after a successful format.
func CompletedMessage(elapsed time.Duration) string {
	return fmt.Sprintf("Alignment completed. Processing time: %dms", elapsed.Milliseconds())
}

// FailedMessage is the status line shown when Format returns err.
func FailedMessage(err error) string {
	var invalid *ValidityError
	if errors.As(err, &invalid) {
		return "Xml is invalid: " + invalid.Err.Error()
	}
	return "Alignment failed: " + err.Error()
}
