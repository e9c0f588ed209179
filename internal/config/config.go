// Package config loads stylec.hcl / stylec.yaml project files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"stylec/internal/codegen"
)

// FileNames are the project files Find looks for, in order.
var FileNames = []string{"stylec.hcl", "stylec.yaml", "stylec.yml", "stylec.json"}

// Config is the project configuration. Command line flags override it.
type Config struct {
	Style          string   `hcl:"style,optional" yaml:"style"`
	OutDir         string   `hcl:"out_dir,optional" yaml:"out_dir"`
	LoadPaths      []string `hcl:"load_paths,optional" yaml:"load_paths"`
	Debug          bool     `hcl:"debug,optional" yaml:"debug"`
	SourceComments bool     `hcl:"source_comments,optional" yaml:"source_comments"`
}

func Default() *Config {
	return &Config{Style: codegen.Nested.String()}
}

// Load reads the file at path. .hcl and .json files are decoded as HCL,
// .yaml and .yml as YAML. Relative load paths and out_dir are resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl", ".json":
		if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("load config %s: unsupported extension %q", path, ext)
	}

	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first project file present in dir, or "".
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// LoadDir loads the project file in dir, or the defaults when there is none.
func LoadDir(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) resolvePaths(base string) {
	for i, p := range c.LoadPaths {
		if !filepath.IsAbs(p) {
			c.LoadPaths[i] = filepath.Join(base, p)
		}
	}
	if c.OutDir != "" && !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(base, c.OutDir)
	}
}

// ApplyEnv overrides fields from STYLEC_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("STYLEC_STYLE"); v != "" {
		c.Style = v
	}
	if v := os.Getenv("STYLEC_OUT_DIR"); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv("STYLEC_LOAD_PATHS"); v != "" {
		c.LoadPaths = filepath.SplitList(v)
	}
	if v := os.Getenv("STYLEC_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv("STYLEC_SOURCE_COMMENTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SourceComments = b
		}
	}
}

func (c *Config) Validate() error {
	if _, err := codegen.ParseStyle(c.Style); err != nil {
		return err
	}
	return nil
}

// OutputStyle returns the parsed Style. Call Validate first.
func (c *Config) OutputStyle() codegen.Style {
	style, _ := codegen.ParseStyle(c.Style)
	return style
}
