// Package config loads commitmirror.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/commitmirror/commitmirror/guard"
	"github.com/commitmirror/commitmirror/lint"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "commitmirror.yaml"

// Config is the top-level commitmirror.yaml document.
type Config struct {
	IncludeEmails []string   `yaml:"include-emails"`
	Projects      []Project  `yaml:"projects"`
	SyncRepo      string     `yaml:"sync-repo"`
	Lint          LintConfig `yaml:"lint,omitempty"`

	// Dir is the directory relative paths are resolved against.
	Dir string `yaml:"-"`
}

// Project is one source repository whose commits are mirrored.
type Project struct {
	ID      string `yaml:"id"`
	GitRoot string `yaml:"git-root"`
}

// LintConfig overrides the lint targets and the environment guard.
type LintConfig struct {
	Root    string      `yaml:"root,omitempty"`
	Scripts []string    `yaml:"scripts,omitempty"`
	Sources []string    `yaml:"sources,omitempty"`
	Guard   GuardConfig `yaml:"guard,omitempty"`
}

// GuardConfig configures the environment guard.
type GuardConfig struct {
	Variable string `yaml:"variable,omitempty"`
	Contains string `yaml:"contains,omitempty"`
	Message  string `yaml:"message,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{Dir: "."}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the config at path. When required is false a
// missing file yields Default() instead of an error.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	cfg.Dir = dir
	return cfg, nil
}

// Parse validates raw YAML against the config schema and decodes it.
func Parse(data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Dir = "."
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Lint.Root == "" {
		c.Lint.Root = "."
	}
	if c.Lint.Scripts == nil {
		c.Lint.Scripts = append([]string(nil), lint.DefaultScripts...)
	}
	if c.Lint.Sources == nil {
		c.Lint.Sources = append([]string(nil), lint.DefaultSources...)
	}
	if c.Lint.Guard.Variable == "" {
		c.Lint.Guard.Variable = guard.DefaultVariable
	}
	if c.Lint.Guard.Contains == "" {
		c.Lint.Guard.Contains = guard.DefaultContains
	}
}

// Guard builds the environment guard described by the lint section.
func (c *Config) Guard() guard.Guard {
	g := guard.New(c.Lint.Guard.Variable, c.Lint.Guard.Contains)
	g.Message = c.Lint.Guard.Message
	return g
}

// ValidateForSync reports the fields the sync command needs but the
// document leaves out.
func (c *Config) ValidateForSync() error {
	var missing []string
	if len(c.IncludeEmails) == 0 {
		missing = append(missing, "include-emails")
	}
	if len(c.Projects) == 0 {
		missing = append(missing, "projects")
	}
	if c.SyncRepo == "" {
		missing = append(missing, "sync-repo")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: %s required for sync", strings.Join(missing, ", "))
	}

	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if seen[p.ID] {
			return fmt.Errorf("config: duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ResolvePath makes p absolute relative to the config file's directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}
