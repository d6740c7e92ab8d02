package rules

import (
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/lint"
)

var sensitivePatterns = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"key",
	"credential",
	"private",
	"auth",
	"apikey",
	"api_key",
	"access_key",
}

// SensitiveDataRule warns about sensitive looking inputs whose value is a
// literal or a placeholder.
type SensitiveDataRule struct {
	lint.DefaultRule
}

// NewSensitiveDataRule returns a new rule.
func NewSensitiveDataRule() *SensitiveDataRule {
	return &SensitiveDataRule{}
}

// Name returns the rule name.
func (r *SensitiveDataRule) Name() string {
	return "sensitive_data"
}

// Description returns the rule description.
func (r *SensitiveDataRule) Description() string {
	return "Detects potential sensitive data in inputs"
}

// Severity returns the rule severity.
func (r *SensitiveDataRule) Severity() lint.Severity {
	return lint.WARNING
}

// Check checks the effective value of every sensitive input reference.
// Values of the form ${...} or input.* are indirections and pass.
func (r *SensitiveDataRule) Check(runner lint.Runner) error {
	for _, ref := range runner.InputReferences() {
		if !matchesAny(ref.Name, sensitivePatterns) {
			continue
		}
		value, ok := effectiveValue(runner, ref.Name)
		if !ok {
			continue
		}

		var err error
		switch {
		case strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">"):
			err = runner.EmitIssue(r,
				fmt.Sprintf("Input '%s' appears to contain sensitive data with placeholder value", fullName(ref)),
				ref.Range,
				lint.WithSuggestion("Ensure this value is properly set before deployment"),
			)
		case !strings.HasPrefix(value, "${") && !strings.HasPrefix(value, "input."):
			err = runner.EmitIssue(r,
				fmt.Sprintf("Input '%s' may contain hardcoded sensitive data", fullName(ref)),
				ref.Range,
				lint.WithSuggestion("Consider using environment variables or secure secret management"),
			)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
