package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/capture"
	"gopkg.in/yaml.v3"
)

// Config represents the respvars configuration
type Config struct {
	Variables map[string]Variable `yaml:"variables,omitempty"`
	Overrides map[string]string   `yaml:"overrides,omitempty"`
	Env       EnvConfig           `yaml:"env,omitempty"`
	Poll      PollConfig          `yaml:"poll,omitempty"`
	History   HistoryConfig       `yaml:"history,omitempty"`
	Log       LogConfig           `yaml:"log,omitempty"`

	// path is the file the config was loaded from, if any.
	path string
}

// Variable declares one extracted variable. In YAML it is either a mapping
// with name/regex/path or a bare regex string.
type Variable struct {
	Name  string `yaml:"name,omitempty"`
	Regex string `yaml:"regex,omitempty"`
	Path  string `yaml:"path,omitempty"`
}

// A variable declared with no value at all decodes to the zero Variable and
// is reported by Validate as a missing pattern.
func (v *Variable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Regex = node.Value
		return nil
	}
	type plain Variable
	return node.Decode((*plain)(v))
}

type EnvConfig struct {
	Prefix        string   `yaml:"prefix,omitempty"`
	Files         []string `yaml:"files,omitempty"`
	IgnoreMissing *bool    `yaml:"ignoreMissing,omitempty"`
}

type PollConfig struct {
	URL             string            `yaml:"url,omitempty"`
	Method          string            `yaml:"method,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	Query           map[string]string `yaml:"query,omitempty"`
	Body            string            `yaml:"body,omitempty"`
	Interval        Duration          `yaml:"interval,omitempty"`
	Rate            float64           `yaml:"rate,omitempty"` // requests per second
	Timeout         Duration          `yaml:"timeout,omitempty"`
	MaxIterations   int               `yaml:"maxIterations,omitempty"`
	FollowRedirects *bool             `yaml:"followRedirects,omitempty"`
	MaxRedirects    int               `yaml:"maxRedirects,omitempty"`
	ValidateSSL     *bool             `yaml:"validateSSL,omitempty"`
}

type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (p PollConfig) GetFollowRedirects() bool {
	return getBool(p.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (p PollConfig) GetValidateSSL() bool {
	return getBool(p.ValidateSSL, true)
}

// GetIgnoreMissing reports whether missing env files are skipped, defaulting to true
func (e EnvConfig) GetIgnoreMissing() bool {
	return getBool(e.IgnoreMissing, true)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	"respvars.yaml",
	"respvars.yml",
	".respvars.yaml",
	".respvars.yml",
}

// ErrNoConfig is returned by FindAndLoadConfig when no config file exists.
var ErrNoConfig = errors.New("no respvars config file found")

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return nil, fmt.Errorf("%w in %s", ErrNoConfig, dir)
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes and validates YAML configuration, applying defaults.
func Parse(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if doc != nil {
		if err := validateSchema(doc); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every declared variable has a pattern.
func (c *Config) Validate() error {
	for _, key := range c.variableKeys() {
		if c.Variables[key].Regex == "" {
			return &capture.ConfigError{Kind: capture.ErrMissingPattern, Name: key}
		}
	}
	return nil
}

// Definitions converts declared variables into capture definitions, ordered
// by their logical key. The lookup name defaults to the key.
func (c *Config) Definitions() []capture.Definition {
	defs := make([]capture.Definition, 0, len(c.Variables))
	for _, key := range c.variableKeys() {
		v := c.Variables[key]
		name := v.Name
		if name == "" {
			name = key
		}
		defs = append(defs, capture.Definition{Name: name, Regex: v.Regex, Path: v.Path})
	}
	return defs
}

func (c *Config) variableKeys() []string {
	keys := make([]string, 0, len(c.Variables))
	for k := range c.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
