package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/txtx/txtx-sub001/lint"
)

// InputNamingConventionRule warns about input names that are not
// lower snake case.
type InputNamingConventionRule struct {
	lint.DefaultRule
}

type inputNamingConventionOptions struct {
	// AllowUppercase turns off the uppercase check.
	AllowUppercase bool `yaml:"allow_uppercase"`
}

// NewInputNamingConventionRule returns a new rule.
func NewInputNamingConventionRule() *InputNamingConventionRule {
	return &InputNamingConventionRule{}
}

// Name returns the rule name.
func (r *InputNamingConventionRule) Name() string {
	return "input_naming_convention"
}

// Description returns the rule description.
func (r *InputNamingConventionRule) Description() string {
	return "Validates that inputs follow naming conventions"
}

// Severity returns the rule severity.
func (r *InputNamingConventionRule) Severity() lint.Severity {
	return lint.WARNING
}

// Check reports hyphens first, then uppercase letters; one issue per
// reference.
func (r *InputNamingConventionRule) Check(runner lint.Runner) error {
	var opts inputNamingConventionOptions
	if err := runner.DecodeRuleOptions(r.Name(), &opts); err != nil {
		return err
	}

	for _, ref := range runner.InputReferences() {
		name := fullName(ref)

		var message, suggestion string
		switch {
		case strings.Contains(ref.Name, "-"):
			message = fmt.Sprintf("Input '%s' contains hyphens. Consider using underscores for consistency", name)
			suggestion = fmt.Sprintf("Rename to '%s'", strings.ReplaceAll(name, "-", "_"))
		case !opts.AllowUppercase && strings.IndexFunc(ref.Name, unicode.IsUpper) >= 0:
			message = fmt.Sprintf("Input '%s' contains uppercase letters. Consider using lowercase for consistency", name)
			suggestion = fmt.Sprintf("Rename to '%s'", strings.ToLower(name))
		default:
			continue
		}

		if err := runner.EmitIssue(r, message, ref.Range, lint.WithSuggestion(suggestion)); err != nil {
			return err
		}
	}
	return nil
}
