package rules

import (
	"fmt"

	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/manifest"
)

// CLIInputOverrideRule warns when a command line input replaces a
// different value from the manifest.
type CLIInputOverrideRule struct {
	lint.DefaultRule
}

// NewCLIInputOverrideRule returns a new rule.
func NewCLIInputOverrideRule() *CLIInputOverrideRule {
	return &CLIInputOverrideRule{}
}

// Name returns the rule name.
func (r *CLIInputOverrideRule) Name() string {
	return "cli_input_override"
}

// Description returns the rule description.
func (r *CLIInputOverrideRule) Description() string {
	return "Warns when CLI inputs override environment values"
}

// Severity returns the rule severity.
func (r *CLIInputOverrideRule) Severity() lint.Severity {
	return lint.WARNING
}

// Check checks referenced inputs whose command line value differs from
// the environment value.
func (r *CLIInputOverrideRule) Check(runner lint.Runner) error {
	for _, ref := range runner.InputReferences() {
		in, ok := runner.Inputs().Lookup(ref.Name)
		if !ok || in.Source != manifest.SourceCLI || len(in.Shadowed) == 0 {
			continue
		}
		envValue, ok := environmentValue(runner, ref.Name)
		if !ok || envValue == in.Raw {
			continue
		}
		if err := runner.EmitIssue(r,
			fmt.Sprintf("CLI input '%s' overrides environment value", ref.Name),
			ref.Range,
			lint.WithSuggestion(fmt.Sprintf("CLI value '%s' will be used instead of environment value '%s'", in.Raw, envValue)),
		); err != nil {
			return err
		}
	}
	return nil
}
