package markup

import (
	"bytes"
	"fmt"
	"io"
)

var (
	commentOpen  = []byte("<!--")
	commentClose = []byte("-->")
	cdataOpen    = []byte("<![CDATA[")
	cdataClose   = []byte("]]>")
)

// A mode scans one construct starting at start. It returns the token
// literal and the offset just past it, or ok == false when the input ends
// before the construct's terminator.
type mode struct {
	name string
	kind Kind // KindNone means the literal is classified
	scan func(input []byte, start int) (literal string, next int, ok bool)
}

var (
	commentMode   = mode{name: "comment", scan: scanComment}
	cdataMode     = mode{name: "CDATA section", scan: scanCData}
	directiveMode = mode{name: "directive", kind: KindUndefined, scan: scanDirective}
	textMode      = mode{name: "text", scan: scanText}
	tagMode       = mode{name: "tag", scan: scanTag}
)

func selectMode(input []byte, offset int) mode {
	rest := input[offset:]
	if bytes.HasPrefix(rest, []byte("<!")) {
		switch {
		case bytes.HasPrefix(rest, commentOpen):
			return commentMode
		case bytes.HasPrefix(rest, cdataOpen):
			return cdataMode
		}
		return directiveMode
	}
	if rest[0] != '<' {
		return textMode
	}
	return tagMode
}

// Lexer splits markup into tokens, one construct at a time.
type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) advanceTo(next int) {
	for l.pos < next && l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// NextToken returns the token at the current position and moves past it.
// It returns io.EOF once the input is exhausted. A construct without its
// terminator yields a *ScanError wrapping ErrTruncated; the lexer does not
// advance in that case.
func (l *Lexer) NextToken() (Token, error) {
	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: KindNone, Span: Span{Start: start, End: start}}, io.EOF
	}

	m := selectMode(l.input, l.pos)
	literal, next, ok := m.scan(l.input, l.pos)
	if !ok {
		return Token{}, &ScanError{Pos: start, Construct: m.name, Err: ErrTruncated}
	}

	kind := m.kind
	if kind == KindNone {
		kind = Classify(literal)
	}

	l.advanceTo(next)
	return Token{
		Kind:    kind,
		Literal: literal,
		Span:    Span{Start: start, End: l.Position()},
	}, nil
}

// Scan reads the single token that starts at offset and returns it together
// with the offset of the following token. It returns io.EOF when offset is
// at or past the end of input.
func Scan(input []byte, offset int) (Token, int, error) {
	if offset < 0 {
		return Token{}, offset, fmt.Errorf("markup: offset %d out of range", offset)
	}
	if offset >= len(input) {
		return Token{}, offset, io.EOF
	}
	l := NewLexer(input)
	l.advanceTo(offset)
	tok, err := l.NextToken()
	if err != nil {
		return Token{}, offset, err
	}
	return tok, l.pos, nil
}

// Tokenize reads all tokens from input.
func Tokenize(input []byte) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}

func scanTag(input []byte, start int) (string, int, bool) {
	buf := make([]byte, 0, 64)
	var quote byte
	// Quotes only open an attribute value, so an apostrophe in a
	// processing instruction or stray text stays literal.
	afterEq := false
	for i := start; i < len(input); i++ {
		ch := input[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			if afterEq {
				quote = ch
			}
			afterEq = false
		case ch == '=':
			afterEq = true
		case !isSpace(ch):
			afterEq = false
		}

		// Line breaks inside a tag become single spaces.
		if ch == '\r' || ch == '\n' {
			buf = append(buf, ' ')
		} else {
			buf = append(buf, ch)
		}

		if ch == '>' && quote == 0 {
			return string(buf), i + 1, true
		}
	}
	return "", len(input), false
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func scanText(input []byte, start int) (string, int, bool) {
	end := bytes.IndexByte(input[start:], '<')
	if end < 0 {
		return string(input[start:]), len(input), true
	}
	return string(input[start : start+end]), start + end, true
}

func scanComment(input []byte, start int) (string, int, bool) {
	return scanDelimited(input, start, commentOpen, commentClose)
}

func scanCData(input []byte, start int) (string, int, bool) {
	return scanDelimited(input, start, cdataOpen, cdataClose)
}

func scanDelimited(input []byte, start int, open, close []byte) (string, int, bool) {
	body := start + len(open)
	idx := bytes.Index(input[body:], close)
	if idx < 0 {
		return "", len(input), false
	}
	end := body + idx + len(close)
	return string(input[start:end]), end, true
}

// scanDirective reads a <!...> declaration other than a comment or CDATA
// section, such as a DOCTYPE with an internal subset.
func scanDirective(input []byte, start int) (string, int, bool) {
	var quote byte
	depth := 0
	for i := start + 2; i < len(input); i++ {
		ch := input[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '>':
			if depth == 0 {
				return string(input[start : i+1]), i + 1, true
			}
		}
	}
	return "", len(input), false
}
