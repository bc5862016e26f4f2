package format

import (
	"strings"
	"testing"
)

func TestWellFormed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"element", "<a/>", ""},
		{"prolog", "<?xml version=\"1.0\"?>\n<!-- c -->\n<a>x</a>\n", ""},
		{"doctype", "<!DOCTYPE a>\n<a/>", ""},
		{"latin1", "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a/>", ""},
		{"mismatched", "<a><b></a>", "closed by"},
		{"unclosed", "<a>", "unexpected EOF"},
		{"two roots", "<a/><b/>", "junk after document element"},
		{"text outside", "<a/>tail", "text outside document element"},
		{"empty", "", "no element found"},
		{"whitespace", "  \n", "no element found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WellFormed.Validate([]byte(tt.input))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNoValidation(t *testing.T) {
	if err := NoValidation.Validate([]byte("<<<")); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
