package helper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/validation"
)

// Issue represents a finding from a rule for test assertions.
type Issue struct {
	// Rule is the rule that emitted the issue.
	Rule lint.Rule
	// Message is the issue message.
	Message string
	// Range is the source location of the issue.
	Range hcl.Range
}

// Issues is a slice of Issue for convenience.
type Issues []Issue

// compareRuleNames compares rules by name only.
var compareRuleNames = cmp.Comparer(func(a, b lint.Rule) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Name() == b.Name()
})

// AssertIssues compares expected and actual issues.
// It ignores issue order and byte positions in ranges.
//
// Example:
//
//	helper.AssertIssues(t, helper.Issues{
//	    {Rule: rule, Message: "Undefined input 'input.api_url'"},
//	}, runner.Issues)
func AssertIssues(t *testing.T, want, got Issues) {
	t.Helper()

	opts := []cmp.Option{
		cmpopts.IgnoreFields(hcl.Pos{}, "Byte"),
		cmpopts.EquateEmpty(),
		cmpopts.SortSlices(func(a, b Issue) bool {
			if a.Message != b.Message {
				return a.Message < b.Message
			}
			if a.Range.Filename != b.Range.Filename {
				return a.Range.Filename < b.Range.Filename
			}
			return a.Range.Start.Line < b.Range.Start.Line
		}),
		compareRuleNames,
	}

	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

// AssertIssuesWithoutRange compares issues ignoring the Range field entirely.
// Use this when exact source locations are not important for the test.
func AssertIssuesWithoutRange(t *testing.T, want, got Issues) {
	t.Helper()

	opts := []cmp.Option{
		cmpopts.IgnoreFields(Issue{}, "Range"),
		cmpopts.EquateEmpty(),
		cmpopts.SortSlices(func(a, b Issue) bool {
			return a.Message < b.Message
		}),
		compareRuleNames,
	}

	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

// AssertNoIssues verifies that no issues were emitted.
func AssertNoIssues(t *testing.T, got Issues) {
	t.Helper()
	if len(got) > 0 {
		t.Errorf("expected no issues, got %d:", len(got))
		for i, issue := range got {
			t.Errorf("  [%d] %s: %s", i, issue.Rule.Name(), issue.Message)
		}
	}
}

// Diagnostic is the comparable part of a validation.Diagnostic: its rule,
// message and start position.
type Diagnostic struct {
	Rule    string
	Message string
	File    string
	Line    int
	Column  int
}

// Diagnostics is a slice of Diagnostic for convenience.
type Diagnostics []Diagnostic

// FromResult flattens a validation result, errors first, keeping order.
func FromResult(r *validation.Result) Diagnostics {
	var out Diagnostics
	for _, d := range r.All() {
		out = append(out, Diagnostic{
			Rule:    d.Rule,
			Message: d.Message,
			File:    d.Range.Filename,
			Line:    d.Range.Start.Line,
			Column:  d.Range.Start.Column,
		})
	}
	return out
}

// AssertDiagnostics compares the diagnostics of a validation result with
// want. Order matters: validation output is deterministic. Zero File, Line
// and Column fields in want match any value.
//
// Example:
//
//	helper.AssertDiagnostics(t, helper.Diagnostics{
//	    {Rule: validation.RuleUndefinedReference, Message: "Undefined variable: 'b'", File: "deploy.tx", Line: 5},
//	}, result)
func AssertDiagnostics(t *testing.T, want Diagnostics, got *validation.Result) {
	t.Helper()

	actual := FromResult(got)
	if len(actual) == len(want) {
		for i := range want {
			if want[i].File == "" {
				actual[i].File = ""
			}
			if want[i].Line == 0 {
				actual[i].Line = 0
			}
			if want[i].Column == 0 {
				actual[i].Column = 0
			}
		}
	}

	if diff := cmp.Diff(want, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
