package linter

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/txtx/txtx-sub001/lint"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the configuration written by InitConfig: the
// recommended preset with a few explicit overrides and ignore patterns.
func DefaultConfig() (*lint.Config, error) {
	var naming yaml.Node
	if err := naming.Encode(map[string]any{"allow_uppercase": false}); err != nil {
		return nil, fmt.Errorf("encode rule options: %w", err)
	}

	return &lint.Config{
		Extends: lint.PresetRecommended,
		Rules: map[string]*lint.RuleConfig{
			"undefined_input":    {Name: "undefined_input", Enabled: true, Severity: lint.ERROR},
			"cli_input_override": {Name: "cli_input_override", Enabled: true, Severity: lint.NOTICE},
			"input_naming_convention": {
				Name:     "input_naming_convention",
				Enabled:  true,
				Severity: lint.WARNING,
				Options:  naming,
			},
			"sensitive_data": {Name: "sensitive_data", Enabled: true, Severity: lint.WARNING},
		},
		Ignore: []string{"examples/**", "tests/**"},
	}, nil
}

// InitConfig writes DefaultConfig to dir/.txtxlint.yml and returns the
// path. It refuses to overwrite an existing file.
func InitConfig(fs afero.Fs, dir string) (string, error) {
	path := filepath.Join(dir, lint.DefaultConfigFiles[0])
	if ok, _ := afero.Exists(fs, path); ok {
		return "", fmt.Errorf("%s: %w", path, ErrConfigExists)
	}

	config, err := DefaultConfig()
	if err != nil {
		return "", err
	}
	data, err := config.Marshal()
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
