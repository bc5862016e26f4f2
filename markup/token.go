// Package markup tokenizes XML-like markup and re-lays it out with
// consistent indentation without touching the text it carries.
package markup

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type Kind int

const (
	// KindNone marks the absence of a token, e.g. before the first token.
	KindNone Kind = iota
	KindHeader
	KindComment
	KindCData
	KindClosing
	KindOpening
	KindSingle
	KindContent
	KindUndefined
)

var kindNames = [...]string{
	KindNone:      "none",
	KindHeader:    "header",
	KindComment:   "comment",
	KindCData:     "cdata",
	KindClosing:   "closing",
	KindOpening:   "opening",
	KindSingle:    "single",
	KindContent:   "content",
	KindUndefined: "undefined",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is one lexical unit of the input. Literal is the text the unit
// contributes to the output; it has the same length as the source range in
// Span.
type Token struct {
	Kind    Kind
	Literal string
	Span    Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Span.Start, t.Kind, t.Literal)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
