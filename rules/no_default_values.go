package rules

import (
	"fmt"

	"github.com/txtx/txtx-sub001/lint"
)

// DefaultsEnvironment is the manifest environment holding fallback values
// that production must not reuse.
const DefaultsEnvironment = "defaults"

// NoDefaultValuesRule warns when production resolves an input to the value
// of the defaults environment.
type NoDefaultValuesRule struct {
	lint.DefaultRule
}

// NewNoDefaultValuesRule returns a new rule.
func NewNoDefaultValuesRule() *NoDefaultValuesRule {
	return &NoDefaultValuesRule{}
}

// Name returns the rule name.
func (r *NoDefaultValuesRule) Name() string {
	return "no_default_values"
}

// Description returns the rule description.
func (r *NoDefaultValuesRule) Description() string {
	return "Ensures production environments don't use default values"
}

// Enabled returns false; strict linting turns the rule on.
func (r *NoDefaultValuesRule) Enabled() bool {
	return false
}

// Severity returns the rule severity.
func (r *NoDefaultValuesRule) Severity() lint.Severity {
	return lint.WARNING
}

// Check checks referenced inputs in production environments.
func (r *NoDefaultValuesRule) Check(runner lint.Runner) error {
	if !isProduction(runner.Environment()) {
		return nil
	}
	defaults, ok := runner.Manifest().Environment(DefaultsEnvironment)
	if !ok {
		return nil
	}

	for _, ref := range runner.InputReferences() {
		def, ok := defaults.Lookup(ref.Name)
		if !ok {
			continue
		}
		value, ok := effectiveValue(runner, ref.Name)
		if !ok || value != def {
			continue
		}
		if err := runner.EmitIssue(r,
			fmt.Sprintf("Production environment is using default value for '%s'", fullName(ref)),
			ref.Range,
			lint.WithSuggestion("Define an explicit value for production environment"),
		); err != nil {
			return err
		}
	}
	return nil
}
