package linter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/hclext"
	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/manifest"
	"github.com/txtx/txtx-sub001/validation"
)

// runner gives rules access to one analyzed runbook and collects the
// issues they emit.
type runner struct {
	analysis    *validation.Analysis
	manifest    *manifest.Manifest
	environment string
	cli         []manifest.Input
	inputs      *manifest.Inputs
	config      *lint.Config
	issues      []lint.Issue
}

var _ lint.Runner = (*runner)(nil)

func (r *runner) InputReferences() []hclext.Reference {
	return r.analysis.InputReferences()
}

func (r *runner) Manifest() *manifest.Manifest {
	return r.manifest
}

func (r *runner) Environment() string {
	return r.environment
}

func (r *runner) Inputs() *manifest.Inputs {
	return r.inputs
}

func (r *runner) CLIInputs() []manifest.Input {
	return r.cli
}

func (r *runner) EmitIssue(rule lint.Rule, message string, issueRange hcl.Range, opts ...lint.IssueOption) error {
	r.issues = append(r.issues, lint.NewIssue(rule, message, issueRange, opts...))
	return nil
}

func (r *runner) DecodeRuleOptions(ruleName string, target any) error {
	return r.config.RuleOptions(ruleName, target)
}

// diagnostic converts a rule issue at severity.
func diagnostic(issue lint.Issue, severity lint.Severity) validation.Diagnostic {
	d := validation.Diagnostic{
		Message:       issue.Message,
		Severity:      severity,
		Range:         issue.Range,
		Context:       issue.Context,
		Suggestion:    issue.Suggestion,
		Documentation: issue.Documentation,
	}
	if issue.Rule != nil {
		d.Rule = issue.Rule.Name()
	}
	for _, rel := range issue.Related {
		d.Related = append(d.Related, validation.RelatedLocation{Message: rel.Message, Range: rel.Range})
	}
	return d
}
