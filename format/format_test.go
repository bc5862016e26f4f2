package format

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/xmlalign/markup"
)

func TestFormat(t *testing.T) {
	src := []byte(`<?xml version="1.0"?><root><child>text</child></root>`)
	res, err := Format(src, Options{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "<?xml version=\"1.0\"?>\n<root>\n\t<child>text</child>\n</root>"
	if string(res.Formatted) != want {
		t.Errorf("Formatted = %q, want %q", res.Formatted, want)
	}
	if !res.Changed {
		t.Error("Changed = false, want true")
	}
	if res.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", res.Elapsed)
	}
}

func TestFormatProcessingInstructionApostrophe(t *testing.T) {
	src := []byte(`<?xml version="1.0"?><?note don't ?><r><a>x</a></r>`)
	res, err := Format(src, Options{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "<?xml version=\"1.0\"?><?note don't ?>\n<r>\n\t<a>x</a>\n</r>"
	if string(res.Formatted) != want {
		t.Errorf("Formatted = %q, want %q", res.Formatted, want)
	}
}

func TestFormatUnchanged(t *testing.T) {
	src := []byte("<a>\n\t<b/>\n</a>")
	res, err := Format(src, Options{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if res.Changed {
		t.Errorf("Changed = true, want false (got %q)", res.Formatted)
	}
}

func TestFormatOptions(t *testing.T) {
	src := []byte("<p>one <b>two</b></p>")

	res, err := Format(src, Options{Indent: "  ", Content: markup.KeepNonBlank, FinalNewline: true})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "<p>one <b>two</b>\n</p>\n"
	if string(res.Formatted) != want {
		t.Errorf("Formatted = %q, want %q", res.Formatted, want)
	}
}

func TestFormatInvalid(t *testing.T) {
	src := []byte("<a><b></a>")
	res, err := Format(src, Options{})
	if res != nil {
		t.Errorf("Result = %v, want nil", res)
	}

	var invalid *ValidityError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *ValidityError", err)
	}
	if msg := FailedMessage(err); !strings.HasPrefix(msg, "Xml is invalid: ") {
		t.Errorf("FailedMessage() = %q, want Xml is invalid prefix", msg)
	}
}

func TestFormatCustomValidator(t *testing.T) {
	reject := ValidatorFunc(func([]byte) error { return errors.New("nope") })
	_, err := Format([]byte("<a/>"), Options{Validator: reject})
	if err == nil || err.Error() != "xml is invalid: nope" {
		t.Errorf("err = %v, want xml is invalid: nope", err)
	}
}

func TestFormatUndefined(t *testing.T) {
	src := []byte("<?xml version=\"1.0\"?>\n<!DOCTYPE note>\n<note>x</note>")

	_, err := Format(src, Options{})
	if !errors.Is(err, markup.ErrUndefined) {
		t.Fatalf("err = %v, want %v", err, markup.ErrUndefined)
	}
	if msg := FailedMessage(err); msg != "Alignment failed: 2:1: undefined token <!DOCTYPE note>" {
		t.Errorf("FailedMessage() = %q", msg)
	}

	res, err := Format(src, Options{KeepUndefined: true})
	if err != nil {
		t.Fatalf("Format(KeepUndefined) error = %v", err)
	}
	want := "<?xml version=\"1.0\"?>\n<!DOCTYPE note>\n<note>x</note>"
	if string(res.Formatted) != want {
		t.Errorf("Formatted = %q, want %q", res.Formatted, want)
	}
}

func TestFormatTruncatedWithoutValidation(t *testing.T) {
	_, err := Format([]byte("<a><!-- open"), Options{Validator: NoValidation})
	if !errors.Is(err, markup.ErrTruncated) {
		t.Fatalf("err = %v, want %v", err, markup.ErrTruncated)
	}
}

func TestFormatUnbalancedWithoutValidation(t *testing.T) {
	_, err := Format([]byte("</a>"), Options{Validator: NoValidation})
	if !errors.Is(err, markup.ErrUnbalanced) {
		t.Fatalf("err = %v, want %v", err, markup.ErrUnbalanced)
	}
}

func TestCompletedMessage(t *testing.T) {
	got := CompletedMessage(1500 * time.Microsecond)
	if want := "Alignment completed. Processing time: 1ms"; got != want {
		t.Errorf("CompletedMessage() = %q, want %q", got, want)
	}
}

func TestExcerpt(t *testing.T) {
	long := "<!DOCTYPE " + strings.Repeat("x", 60) + ">"
	got := excerpt(long)
	if len(got) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt() = %q", got)
	}
	if excerpt("<!x>") != "<!x>" {
		t.Errorf("excerpt() shortened a short literal")
	}
}
