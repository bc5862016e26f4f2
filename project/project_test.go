package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/xmlalign/format"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if proj.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty", proj.ConfigPath)
	}
	if proj.Config.IndentUnit() != "\t" {
		t.Errorf("IndentUnit() = %q, want tab", proj.Config.IndentUnit())
	}
	if proj.Config.Content != "sole" || proj.Config.Undefined != "abort" {
		t.Errorf("Config = %+v, want defaults", proj.Config)
	}
}

func TestLoadFromWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "indent_width = 4\nuse_tabs = false\nextensions = [\".xml\", \".svg\"]\n")

	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	proj, err := LoadFrom(sub)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if proj.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", proj.ConfigPath, path)
	}
	if proj.RootDir != root {
		t.Errorf("RootDir = %q, want %q", proj.RootDir, root)
	}
	if got := proj.Config.IndentUnit(); got != "    " {
		t.Errorf("IndentUnit() = %q, want four spaces", got)
	}
	if len(proj.Config.Extensions) != 2 {
		t.Errorf("Extensions = %v, want 2 entries", proj.Config.Extensions)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "indent = ", "failed to parse TOML"},
		{"unknown key", "indnet = \"  \"", "unknown keys: indnet"},
		{"empty indent", "indent = \"\"", "indent must not be empty"},
		{"content", "content = \"all\"", "content must be one of nonblank, sole"},
		{"undefined", "undefined = \"skip\"", "undefined must be"},
		{"width", "indent_width = 40", "indent_width must be between"},
		{"extension", "extensions = [\"xml\"]", "must start with a dot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndentUnit(t *testing.T) {
	no := false
	yes := true
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default", Config{}, "\t"},
		{"explicit", Config{Indent: "  "}, "  "},
		{"width implies spaces", Config{IndentWidth: 3}, "   "},
		{"spaces default width", Config{UseTabs: &no}, "  "},
		{"tabs win", Config{UseTabs: &yes, IndentWidth: 4}, "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IndentUnit(); got != tt.want {
				t.Errorf("IndentUnit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	no := false
	cfg := Default()
	cfg.Content = "nonblank"
	cfg.Undefined = "keep"
	cfg.Validate = &no
	cfg.FinalNewline = true

	opts := cfg.Options()
	if !opts.KeepUndefined || !opts.FinalNewline {
		t.Errorf("Options() = %+v", opts)
	}
	if opts.Validator == nil {
		t.Fatal("Validator = nil, want NoValidation")
	}

	res, err := format.Format([]byte("<p>a<b/></p><x"), opts.Options)
	if err == nil {
		t.Fatalf("Format() = %q, want truncation error", res.Formatted)
	}

	res, err = format.Format([]byte("<p>a<b/></p>"), opts.Options)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if want := "<p>a\n\t<b/>\n</p>\n"; string(res.Formatted) != want {
		t.Errorf("Formatted = %q, want %q", res.Formatted, want)
	}
}

func TestContentPolicy(t *testing.T) {
	if _, err := ContentPolicy("sole"); err != nil {
		t.Errorf("ContentPolicy(sole) error = %v", err)
	}
	if _, err := ContentPolicy("bogus"); err == nil {
		t.Error("ContentPolicy(bogus) error = nil, want error")
	}
}
