package lint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// PresetRecommended is the built-in configuration a file can extend.
const PresetRecommended = "txtx:recommended"

// DefaultConfigFiles are the file names looked up when no configuration
// path is given, in order.
var DefaultConfigFiles = []string{".txtxlint.yml", ".txtxlint.yaml"}

// Config represents the lint configuration (.txtxlint.yml).
type Config struct {
	// Extends names a preset whose rules apply unless overridden.
	Extends string `yaml:"extends,omitempty"`
	// Rules maps rule names to their configuration.
	Rules map[string]*RuleConfig `yaml:"rules,omitempty"`
	// Ignore lists glob patterns of runbook paths that are not linted.
	Ignore []string `yaml:"ignore,omitempty"`
	// DisabledByDefault indicates if rules are disabled by default.
	// When true, rules must be explicitly enabled.
	DisabledByDefault bool `yaml:"disabled_by_default,omitempty"`
	// Only enables only these rules if set.
	// Takes precedence over individual rule configurations.
	Only []string `yaml:"only,omitempty"`
}

// RuleConfig represents configuration for a single rule.
//
// In YAML a rule is either a bare severity ("error", "warning", "info" or
// "off") or a mapping with severity and options:
//
//	rules:
//	  undefined_input: error
//	  cli_input_override: off
//	  input_naming_convention:
//	    severity: warning
//	    options:
//	      convention: snake_case
type RuleConfig struct {
	// Name is the rule name.
	Name string
	// Enabled indicates if the rule is enabled.
	Enabled bool
	// Severity overrides the rule's default severity when non-zero.
	Severity Severity
	// Options is the raw options mapping, zero when absent. Rules decode
	// it with Runner.DecodeRuleOptions.
	Options yaml.Node
}

type ruleConfigFormat struct {
	Severity string    `yaml:"severity,omitempty"`
	Enabled  *bool     `yaml:"enabled,omitempty"`
	Options  yaml.Node `yaml:"options,omitempty"`
}

// UnmarshalYAML decodes the short and long rule forms.
func (c *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return c.setSeverity(node.Value, node.Line)
	case yaml.MappingNode:
		var f ruleConfigFormat
		if err := node.Decode(&f); err != nil {
			return err
		}
		c.Enabled = true
		if f.Severity != "" {
			if err := c.setSeverity(f.Severity, node.Line); err != nil {
				return err
			}
		}
		if f.Enabled != nil {
			c.Enabled = *f.Enabled
		}
		c.Options = f.Options
		return nil
	default:
		return fmt.Errorf("line %d: rule config must be a severity or a mapping", node.Line)
	}
}

// HasOptions reports whether an options mapping was configured.
func (c *RuleConfig) HasOptions() bool {
	return c.Options.Kind != 0
}

func (c *RuleConfig) setSeverity(value string, line int) error {
	switch strings.ToLower(value) {
	case "off", "false":
		c.Enabled = false
		return nil
	case "on", "true":
		c.Enabled = true
		return nil
	}
	s, err := ParseSeverity(value)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	c.Enabled = true
	c.Severity = s
	return nil
}

// MarshalYAML writes the short form unless options are present.
func (c *RuleConfig) MarshalYAML() (any, error) {
	level := "on"
	switch {
	case !c.Enabled:
		level = "off"
	case c.Severity != 0:
		level = severityKeyword(c.Severity)
	}
	if !c.HasOptions() {
		return level, nil
	}
	return ruleConfigFormat{Severity: level, Options: c.Options}, nil
}

func severityKeyword(s Severity) string {
	switch s {
	case ERROR:
		return "error"
	case WARNING:
		return "warning"
	default:
		return "info"
	}
}

// ParseConfig decodes a .txtxlint.yml document.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	for name, rc := range c.Rules {
		if rc == nil {
			c.Rules[name] = &RuleConfig{Name: name, Enabled: true}
			continue
		}
		rc.Name = name
	}
	return &c, nil
}

// LoadConfig reads and decodes the configuration file at path.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// FindConfig returns the first of DefaultConfigFiles present in dir.
func FindConfig(fs afero.Fs, dir string) (string, bool) {
	for _, name := range DefaultConfigFiles {
		p := filepath.Join(dir, name)
		if ok, _ := afero.Exists(fs, p); ok {
			return p, true
		}
	}
	return "", false
}

// Recommended returns the recommended configuration.
func Recommended() *Config {
	return &Config{
		Rules: map[string]*RuleConfig{
			"undefined_input":         {Name: "undefined_input", Enabled: true, Severity: ERROR},
			"cli_input_override":      {Name: "cli_input_override", Enabled: true, Severity: WARNING},
			"input_naming_convention": {Name: "input_naming_convention", Enabled: true, Severity: WARNING},
			"sensitive_data":          {Name: "sensitive_data", Enabled: true, Severity: WARNING},
		},
	}
}

// ErrUnknownPreset is returned for an extends value that names no preset.
var ErrUnknownPreset = errors.New("unknown preset")

// WithExtends returns a copy of c with the extended preset merged in.
// Rules configured in c override the preset.
func (c *Config) WithExtends() (*Config, error) {
	if c == nil {
		return nil, nil
	}
	merged := *c
	merged.Rules = make(map[string]*RuleConfig, len(c.Rules))
	for name, rc := range c.Rules {
		merged.Rules[name] = rc
	}

	switch c.Extends {
	case "":
		return &merged, nil
	case PresetRecommended:
		for name, rc := range Recommended().Rules {
			if _, ok := merged.Rules[name]; !ok {
				merged.Rules[name] = rc
			}
		}
		return &merged, nil
	default:
		return nil, fmt.Errorf("extends %q: %w", c.Extends, ErrUnknownPreset)
	}
}

// IsIgnored reports whether path matches one of the ignore patterns.
// Patterns use doublestar syntax ("examples/**", "**/deprecated/**").
func (c *Config) IsIgnored(path string) bool {
	if c == nil {
		return false
	}
	p := filepath.ToSlash(filepath.Clean(path))
	p = strings.TrimPrefix(p, "./")
	for _, pattern := range c.Ignore {
		if ok, err := doublestar.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}

// RuleOptions decodes the options of rule name into target. It is a no-op
// when the rule has no options.
func (c *Config) RuleOptions(name string, target any) error {
	if c == nil {
		return nil
	}
	rc, ok := c.Rules[name]
	if !ok || rc == nil || !rc.HasOptions() {
		return nil
	}
	if err := rc.Options.Decode(target); err != nil {
		return fmt.Errorf("decode options of rule %s: %w", name, err)
	}
	return nil
}

const configHeader = `# txtx lint configuration
# Rules take a severity (error, warning, info) or off.
`

// Marshal encodes c as a .txtxlint.yml document.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return append([]byte(configHeader+"\n"), data...), nil
}
