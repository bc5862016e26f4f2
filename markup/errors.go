package markup

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a comment, CDATA section, tag or
	// directive runs to the end of the input without its terminator.
	ErrTruncated = errors.New("unterminated")

	// ErrUndefined is returned for tokens that fall outside the recognized
	// constructs, such as <!DOCTYPE ...>.
	ErrUndefined = errors.New("undefined token")

	// ErrUnbalanced is returned when a closing tag has no open element.
	ErrUnbalanced = errors.New("closing tag without matching opening tag")
)

// ScanError locates a tokenizer or layout failure in the source.
type ScanError struct {
	Pos       Position
	Construct string
	Err       error
}

func (e *ScanError) Error() string {
	if e.Construct == "" {
		return fmt.Sprintf("%s: %v", e.Pos, e.Err)
	}
	return fmt.Sprintf("%s: %v %s", e.Pos, e.Err, e.Construct)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
