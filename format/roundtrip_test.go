package format

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/xmlalign/markup"
)

var testcasesDir string
var testFilter string

func init() {
	flag.StringVar(&testcasesDir, "testcases", "testdata", "directory containing .xml/.golden pairs")
	flag.StringVar(&testFilter, "filter", "", "filter test files by substring match on filename")
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// TestRoundTrip_Testcases formats every .xml file in the testcases
// directory and compares the result with the .golden file next to it.
// Use -filter to select files: go test ./format -filter=catalog
func TestRoundTrip_Testcases(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(testcasesDir, "*.xml"))
	if err != nil {
		t.Fatalf("glob testcases: %v", err)
	}

	var selected []string
	for _, f := range files {
		if testFilter != "" && !strings.Contains(f, testFilter) {
			continue
		}
		selected = append(selected, f)
	}
	if len(selected) == 0 {
		t.Skipf("no .xml files found in %s", testcasesDir)
	}

	for _, path := range selected {
		name := strings.TrimSuffix(filepath.Base(path), ".xml")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read input: %v", err)
			}
			golden, err := os.ReadFile(strings.TrimSuffix(path, ".xml") + ".golden")
			if err != nil {
				t.Fatalf("read golden: %v", err)
			}

			res, err := Format(src, Options{})
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(res.Formatted) != string(golden) {
				t.Errorf("Format() mismatch\ngot:\n%s\nwant:\n%s", res.Formatted, golden)
			}

			again, err := Format(res.Formatted, Options{})
			if err != nil {
				t.Fatalf("second Format() error = %v", err)
			}
			if again.Changed {
				t.Errorf("second Format() changed output:\n%s", Diff(name, res.Formatted, again.Formatted))
			}

			assertSameMarkup(t, src, res.Formatted)
		})
	}
}

// assertSameMarkup checks that every tag, comment and CDATA section of
// before appears unchanged and in order in after.
func assertSameMarkup(t *testing.T, before, after []byte) {
	t.Helper()
	a := markupLiterals(t, before)
	b := markupLiterals(t, after)
	if len(a) != len(b) {
		t.Fatalf("markup token count = %d, want %d", len(b), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("markup token %d = %q, want %q", i, b[i], a[i])
		}
	}
}

func markupLiterals(t *testing.T, src []byte) []string {
	t.Helper()
	tokens, err := markup.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	var out []string
	for _, tok := range tokens {
		if tok.Kind != markup.KindContent {
			out = append(out, tok.Literal)
		}
	}
	return out
}
