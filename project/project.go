// Package project finds and reads the .xmlalign.toml file that configures
// formatting for a directory tree.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/xmlalign/format"
	"github.com/dhamidi/xmlalign/markup"
)

// ConfigFile is the name of the configuration file looked up from the
// working directory towards the filesystem root.
const ConfigFile = ".xmlalign.toml"

var log = commonlog.GetLogger("xmlalign.project")

var contentPolicies = map[string]markup.ContentPolicy{
	"sole":     markup.KeepSoleContent,
	"nonblank": markup.KeepNonBlank,
}

// Project is a directory tree together with the configuration that applies
// to it.
type Project struct {
	RootDir    string
	ConfigPath string
	Config     Config
}

// Config mirrors .xmlalign.toml.
type Config struct {
	Indent       string   `toml:"indent"`
	IndentWidth  int      `toml:"indent_width"`
	UseTabs      *bool    `toml:"use_tabs"`
	Content      string   `toml:"content"`
	Undefined    string   `toml:"undefined"`
	Validate     *bool    `toml:"validate"`
	FinalNewline bool     `toml:"final_newline"`
	Extensions   []string `toml:"extensions"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Content:    "sole",
		Undefined:  "abort",
		Extensions: append([]string(nil), format.DefaultExtensions...),
	}
}

// Load looks for the configuration that applies to the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom walks up from startDir to the first directory holding
// ConfigFile. Without one, the project is rooted at startDir and uses
// Default.
func LoadFrom(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", startDir, err)
	}

	path, ok, err := findConfig(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debugf("no %s above %s, using defaults", ConfigFile, dir)
		return &Project{RootDir: dir, Config: Default()}, nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("using %s", path)
	return &Project{
		RootDir:    filepath.Dir(path),
		ConfigPath: path,
		Config:     cfg,
	}, nil
}

func findConfig(dir string) (string, bool, error) {
	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig reads one configuration file. Keys not set in the file keep
// their Default values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("indent") && cfg.Indent == "" {
		return Config{}, fmt.Errorf("%s: indent must not be empty", path)
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Check reports values outside their allowed range.
func (c Config) Check() error {
	if _, ok := contentPolicies[c.Content]; !ok {
		return fmt.Errorf("content must be one of %s, got %q", policyNames(), c.Content)
	}
	if c.Undefined != "abort" && c.Undefined != "keep" {
		return fmt.Errorf(`undefined must be "abort" or "keep", got %q`, c.Undefined)
	}
	if c.IndentWidth < 0 || c.IndentWidth > 16 {
		return fmt.Errorf("indent_width must be between 0 and 16, got %d", c.IndentWidth)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// IndentUnit is the string written once per nesting level.
func (c Config) IndentUnit() string {
	if c.Indent != "" {
		return c.Indent
	}
	useTabs := c.IndentWidth == 0
	if c.UseTabs != nil {
		useTabs = *c.UseTabs
	}
	if useTabs {
		return markup.DefaultIndent
	}
	width := c.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", width)
}

// Options converts the configuration into formatter options.
func (c Config) Options() format.PathOptions {
	opts := format.PathOptions{
		Options: format.Options{
			Indent:        c.IndentUnit(),
			Content:       contentPolicies[c.Content],
			KeepUndefined: c.Undefined == "keep",
			FinalNewline:  c.FinalNewline,
		},
		Extensions: c.Extensions,
	}
	if c.Validate != nil && !*c.Validate {
		opts.Validator = format.NoValidation
	}
	return opts
}

// ContentPolicy looks up a content policy by its configuration name.
func ContentPolicy(name string) (markup.ContentPolicy, error) {
	policy, ok := contentPolicies[name]
	if !ok {
		return nil, fmt.Errorf("unknown content policy %q (want %s)", name, policyNames())
	}
	return policy, nil
}

func policyNames() string {
	names := make([]string, 0, len(contentPolicies))
	for name := range contentPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
