package format

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Validator decides whether a document may be formatted.
type Validator interface {
	Validate(src []byte) error
}

type ValidatorFunc func(src []byte) error

func (f ValidatorFunc) Validate(src []byte) error {
	return f(src)
}

var (
	// WellFormed accepts documents with exactly one root element and
	// properly nested, matching tags.
	WellFormed Validator = ValidatorFunc(checkWellFormed)

	// NoValidation accepts everything.
	NoValidation Validator = ValidatorFunc(func([]byte) error { return nil })
)

func checkWellFormed(src []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	depth := 0
	roots := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					line, col := dec.InputPos()
					return fmt.Errorf("junk after document element: line %d, column %d", line, col)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				line, col := dec.InputPos()
				return fmt.Errorf("text outside document element: line %d, column %d", line, col)
			}
		}
	}

	if depth != 0 {
		return errors.New("unclosed element at end of input")
	}
	if roots == 0 {
		return errors.New("no element found")
	}
	return nil
}
