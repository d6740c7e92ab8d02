package rules

import (
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/lint"
)

// UndefinedInputRule checks that every input.X reference resolves in the
// selected environment, the global environment or the command line.
type UndefinedInputRule struct {
	lint.DefaultRule
}

// NewUndefinedInputRule returns a new rule.
func NewUndefinedInputRule() *UndefinedInputRule {
	return &UndefinedInputRule{}
}

// Name returns the rule name.
func (r *UndefinedInputRule) Name() string {
	return "undefined_input"
}

// Description returns the rule description.
func (r *UndefinedInputRule) Description() string {
	return "Checks if input references exist in the manifest or CLI inputs"
}

// Link returns the rule reference link.
func (r *UndefinedInputRule) Link() string {
	return "https://docs.txtx.rs/manifests/environments"
}

// Check reports input references with no value. Runbooks linted without a
// manifest are skipped.
func (r *UndefinedInputRule) Check(runner lint.Runner) error {
	m := runner.Manifest()
	if m == nil {
		return nil
	}

	env := runner.Environment()
	if env == "" {
		env = "default"
	}

	for _, ref := range runner.InputReferences() {
		if _, ok := runner.Inputs().Lookup(ref.Name); ok {
			continue
		}

		context := fmt.Sprintf("Input '%s' is not defined in the %s environment or provided via CLI", ref.Name, env)
		if defining := m.EnvironmentsDefining(ref.Name); len(defining) > 0 {
			context += fmt.Sprintf(". It is defined in: %s", strings.Join(defining, ", "))
		}

		if err := runner.EmitIssue(r,
			fmt.Sprintf("Undefined input '%s'", fullName(ref)),
			ref.Range,
			lint.WithContext(context),
			lint.WithSuggestion(fmt.Sprintf("Define '%s' in your manifest or provide it via CLI: --input %s=value", ref.Name, ref.Name)),
		); err != nil {
			return err
		}
	}
	return nil
}
