package rules

import (
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/lint"
)

var requiredForProduction = []string{"api_url", "api_token", "chain_id"}

// RequiredInputRule checks that production environments provide the
// connection inputs that related input names depend on. An input named
// chain_id_override, for instance, needs chain_id.
type RequiredInputRule struct {
	lint.DefaultRule
}

// NewRequiredInputRule returns a new rule.
func NewRequiredInputRule() *RequiredInputRule {
	return &RequiredInputRule{}
}

// Name returns the rule name.
func (r *RequiredInputRule) Name() string {
	return "required_input"
}

// Description returns the rule description.
func (r *RequiredInputRule) Description() string {
	return "Ensures required inputs are provided in production environments"
}

// Enabled returns false; strict linting turns the rule on.
func (r *RequiredInputRule) Enabled() bool {
	return false
}

// Severity returns the rule severity.
func (r *RequiredInputRule) Severity() lint.Severity {
	return lint.WARNING
}

// Check reports at most one missing required input per reference.
func (r *RequiredInputRule) Check(runner lint.Runner) error {
	if !isProduction(runner.Environment()) {
		return nil
	}

	for _, ref := range runner.InputReferences() {
		for _, required := range requiredForProduction {
			if !strings.Contains(ref.Name, required) {
				continue
			}
			if _, ok := runner.Inputs().Lookup(required); ok {
				continue
			}
			if err := runner.EmitIssue(r,
				fmt.Sprintf("Required input '%s' not found for production environment", required),
				ref.Range,
				lint.WithSuggestion(fmt.Sprintf("Ensure '%s' is defined in your production environment", required)),
			); err != nil {
				return err
			}
			break
		}
	}
	return nil
}
