package rules

import (
	"fmt"

	"github.com/txtx/txtx-sub001/lint"
)

// deprecatedInputs maps deprecated input names to their replacement.
var deprecatedInputs = map[string]string{
	"api_key":      "api_token",
	"endpoint_url": "api_url",
	"rpc_endpoint": "rpc_url",
}

// DeprecatedInputRule warns about input names that have been renamed.
type DeprecatedInputRule struct {
	lint.DefaultRule
}

// NewDeprecatedInputRule returns a new rule.
func NewDeprecatedInputRule() *DeprecatedInputRule {
	return &DeprecatedInputRule{}
}

// Name returns the rule name.
func (r *DeprecatedInputRule) Name() string {
	return "deprecated_input"
}

// Description returns the rule description.
func (r *DeprecatedInputRule) Description() string {
	return "Warns about deprecated input names"
}

// Severity returns the rule severity.
func (r *DeprecatedInputRule) Severity() lint.Severity {
	return lint.WARNING
}

// Check checks whether input references use deprecated names.
func (r *DeprecatedInputRule) Check(runner lint.Runner) error {
	for _, ref := range runner.InputReferences() {
		replacement, ok := deprecatedInputs[ref.Name]
		if !ok {
			continue
		}
		if err := runner.EmitIssue(r,
			fmt.Sprintf("Input '%s' is deprecated", fullName(ref)),
			ref.Range,
			lint.WithSuggestion(fmt.Sprintf("Use '%s' instead", replacement)),
		); err != nil {
			return err
		}
	}
	return nil
}
