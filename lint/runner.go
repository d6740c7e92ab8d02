package lint

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/hclext"
	"github.com/txtx/txtx-sub001/manifest"
)

// Runner gives rules read access to one runbook and the workspace it is
// linted in.
//
// The runbook has already been validated structurally; rules only see the
// facts they need to cross-check it against the manifest.
type Runner interface {
	// InputReferences returns every input.<name> reference of the runbook
	// in source order.
	InputReferences() []hclext.Reference

	// Manifest returns the workspace manifest, or nil when the runbook is
	// linted without one.
	Manifest() *manifest.Manifest

	// Environment returns the selected environment, or "" when none is.
	Environment() string

	// Inputs returns the effective inputs for the selected environment
	// with CLI overrides applied.
	Inputs() *manifest.Inputs

	// CLIInputs returns the inputs given on the command line, in order.
	CLIInputs() []manifest.Input

	// EmitIssue reports a finding from the rule.
	//
	//	runner.EmitIssue(r, fmt.Sprintf("Undefined input '%s'", ref), ref.Range,
	//	    lint.WithSuggestion("Add it to the manifest"))
	EmitIssue(rule Rule, message string, issueRange hcl.Range, opts ...IssueOption) error

	// DecodeRuleOptions decodes the configured options of a rule into
	// target. Target is left untouched when the rule has no options.
	//
	//	type namingOptions struct {
	//	    Convention string `yaml:"convention"`
	//	}
	//	var opts namingOptions
	//	if err := runner.DecodeRuleOptions("input_naming_convention", &opts); err != nil {
	//	    return err
	//	}
	DecodeRuleOptions(ruleName string, target any) error
}

// Issue is a finding emitted by a rule.
type Issue struct {
	// Rule is the rule that emitted the issue.
	Rule Rule
	// Message is the issue message.
	Message string
	// Range is the source location of the issue.
	Range hcl.Range
	// Severity is the effective severity. Zero means the rule default.
	Severity Severity
	// Context is an optional longer explanation.
	Context string
	// Suggestion is an optional hint on how to fix the issue.
	Suggestion string
	// Documentation is an optional documentation link.
	Documentation string
	// Related lists secondary locations.
	Related []Related
}

// Related is a secondary location attached to an issue.
type Related struct {
	Message string
	Range   hcl.Range
}

// IssueOption decorates an emitted issue.
type IssueOption func(*Issue)

// WithSuggestion attaches a fix hint.
func WithSuggestion(s string) IssueOption {
	return func(i *Issue) { i.Suggestion = s }
}

// WithContext attaches a longer explanation.
func WithContext(s string) IssueOption {
	return func(i *Issue) { i.Context = s }
}

// WithDocumentation attaches a documentation link.
func WithDocumentation(link string) IssueOption {
	return func(i *Issue) { i.Documentation = link }
}

// WithRelated appends a related location.
func WithRelated(message string, rng hcl.Range) IssueOption {
	return func(i *Issue) { i.Related = append(i.Related, Related{Message: message, Range: rng}) }
}

// NewIssue builds an issue for rule with opts applied. Runners use it to
// implement EmitIssue.
func NewIssue(rule Rule, message string, issueRange hcl.Range, opts ...IssueOption) Issue {
	issue := Issue{Rule: rule, Message: message, Range: issueRange}
	if rule != nil {
		issue.Documentation = rule.Link()
	}
	for _, opt := range opts {
		opt(&issue)
	}
	return issue
}

// EffectiveSeverity returns the issue severity, falling back to the rule
// default.
func (i Issue) EffectiveSeverity() Severity {
	if i.Severity != 0 {
		return i.Severity
	}
	if i.Rule != nil {
		return i.Rule.Severity()
	}
	return ERROR
}
