// Package helper provides testing utilities for txtx lint rules.
// Use TestRunner to run a rule against a runbook without a workspace on
// disk.
//
// Example:
//
//	func TestMyRule(t *testing.T) {
//	    runner := helper.TestRunner(t,
//	        map[string]string{"main.tx": `variable "a" { value = input.api_url }`},
//	        helper.WithManifest(`
//	name: demo
//	environments:
//	  global:
//	    api_url: https://example.com
//	`),
//	    )
//
//	    rule := &MyRule{}
//	    if err := rule.Check(runner); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    helper.AssertIssues(t, helper.Issues{
//	        {Rule: rule, Message: "something off"},
//	    }, runner.Issues)
//	}
package helper

import (
	"sort"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/hclext"
	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/manifest"
	"github.com/txtx/txtx-sub001/validation"
)

// Runner is a mock lint.Runner for testing.
// Use TestRunner to create an instance.
type Runner struct {
	t           *testing.T
	analysis    *validation.Analysis
	manifest    *manifest.Manifest
	environment string
	cli         []manifest.Input
	inputs      *manifest.Inputs
	config      *lint.Config

	// Issues contains all issues emitted during rule execution.
	Issues Issues
	// Emitted holds the same issues with every detail kept.
	Emitted []lint.Issue
}

// Ensure Runner implements lint.Runner.
var _ lint.Runner = (*Runner)(nil)

// Option configures a test runner.
type Option func(*Runner)

// WithManifest parses src as the workspace manifest.
func WithManifest(src string) Option {
	return func(r *Runner) {
		m, err := manifest.Parse([]byte(src), "txtx.yml")
		if err != nil {
			r.t.Fatalf("failed to parse manifest: %s", err)
		}
		r.manifest = m
	}
}

// WithEnvironment selects env.
func WithEnvironment(env string) Option {
	return func(r *Runner) { r.environment = env }
}

// WithCLIInputs adds command line inputs given as "name=value".
func WithCLIInputs(inputs ...string) Option {
	return func(r *Runner) {
		for _, s := range inputs {
			in, err := manifest.ParseCLIInput(s)
			if err != nil {
				r.t.Fatal(err)
			}
			r.cli = append(r.cli, in)
		}
	}
}

// WithConfig parses src as a .txtxlint.yml document, used to decode rule
// options.
func WithConfig(src string) Option {
	return func(r *Runner) {
		c, err := lint.ParseConfig([]byte(src))
		if err != nil {
			r.t.Fatalf("failed to parse config: %s", err)
		}
		r.config = c
	}
}

// TestRunner creates a new Runner for testing. files maps file names to
// runbook sources; several files form one multi-file runbook, joined in
// name order.
//
// Example:
//
//	runner := helper.TestRunner(t,
//	    map[string]string{"main.tx": `output "x" { value = input.chain_id }`},
//	    helper.WithEnvironment("devnet"),
//	    helper.WithCLIInputs("chain_id=1"),
//	)
func TestRunner(t *testing.T, files map[string]string, opts ...Option) *Runner {
	t.Helper()

	runner := &Runner{t: t, Issues: make(Issues, 0)}
	for _, opt := range opts {
		opt(runner)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	sources := make([]validation.SourceFile, len(names))
	for i, name := range names {
		sources[i] = validation.SourceFile{Path: name, Content: []byte(files[name])}
	}

	runner.analysis = validation.Analyze(sources, validation.Options{})
	for _, d := range runner.analysis.Result.Errors {
		if d.Rule == validation.RuleParseError {
			t.Fatalf("failed to parse runbook: %s", d)
		}
	}

	inputs, err := runner.manifest.ResolveInputs(runner.environment, runner.cli)
	if err != nil {
		t.Fatalf("failed to resolve inputs: %s", err)
	}
	runner.inputs = inputs

	return runner
}

// Analysis returns the validation analysis of the runbook.
func (r *Runner) Analysis() *validation.Analysis {
	return r.analysis
}

// InputReferences returns the input references of the runbook.
func (r *Runner) InputReferences() []hclext.Reference {
	return r.analysis.InputReferences()
}

// Manifest returns the manifest given with WithManifest, or nil.
func (r *Runner) Manifest() *manifest.Manifest {
	return r.manifest
}

// Environment returns the environment given with WithEnvironment.
func (r *Runner) Environment() string {
	return r.environment
}

// Inputs returns the resolved inputs.
func (r *Runner) Inputs() *manifest.Inputs {
	return r.inputs
}

// CLIInputs returns the inputs given with WithCLIInputs.
func (r *Runner) CLIInputs() []manifest.Input {
	return r.cli
}

// EmitIssue records an issue.
func (r *Runner) EmitIssue(rule lint.Rule, message string, issueRange hcl.Range, opts ...lint.IssueOption) error {
	r.Emitted = append(r.Emitted, lint.NewIssue(rule, message, issueRange, opts...))
	r.Issues = append(r.Issues, Issue{
		Rule:    rule,
		Message: message,
		Range:   issueRange,
	})
	return nil
}

// DecodeRuleOptions decodes the options configured with WithConfig.
func (r *Runner) DecodeRuleOptions(ruleName string, target any) error {
	return r.config.RuleOptions(ruleName, target)
}
