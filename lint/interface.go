package lint

// Rule is the interface that all lint rules implement.
//
// Rules typically embed DefaultRule to get Enabled, Severity and Link, and
// implement the remaining methods.
//
//	type MyRule struct {
//	    lint.DefaultRule
//	}
//
//	func (r *MyRule) Name() string { return "my_rule" }
//	func (r *MyRule) Description() string { return "Checks input names" }
//	func (r *MyRule) Check(runner lint.Runner) error {
//	    for _, ref := range runner.InputReferences() {
//	        // inspect ref and emit issues
//	    }
//	    return nil
//	}
type Rule interface {
	// Name returns the unique rule id.
	// Convention: lowercase with underscores (e.g., "undefined_input").
	Name() string

	// Description is a one-line summary shown by the doc formatter.
	Description() string

	// Enabled returns whether the rule is enabled by default.
	Enabled() bool

	// Severity returns the default severity level for issues.
	Severity() Severity

	// Link returns a URL to documentation about the rule, or "".
	Link() string

	// Check runs the rule against the runbook accessible via runner.
	// Call runner.EmitIssue() for each finding.
	// Return an error only for unexpected failures, not for findings.
	Check(runner Runner) error
}

// RuleSet is a named collection of rules. Implementations typically embed
// BuiltinRuleSet.
//
//	rs := &lint.BuiltinRuleSet{
//	    Name:    "txtx",
//	    Version: "0.1.0",
//	    Rules:   []lint.Rule{&MyRule{}},
//	}
type RuleSet interface {
	// RuleSetName returns the name of the ruleset (e.g., "txtx").
	RuleSetName() string

	// RuleSetVersion returns the version of the ruleset.
	RuleSetVersion() string

	// RuleNames returns the names of all rules in this ruleset.
	RuleNames() []string

	// ApplyGlobalConfig applies the .txtxlint.yml configuration.
	ApplyGlobalConfig(*Config) error

	// NewRunner optionally wraps the runner with custom behavior.
	// Return the runner unchanged if no customization is needed.
	NewRunner(Runner) (Runner, error)

	// BuiltinImpl returns the embedded BuiltinRuleSet.
	BuiltinImpl() *BuiltinRuleSet
}
