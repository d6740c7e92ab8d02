package lint

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
)

func TestDefaultRule(t *testing.T) {
	r := DefaultRule{}
	if !r.Enabled() {
		t.Error("DefaultRule.Enabled() = false, want true")
	}
	if r.Severity() != ERROR {
		t.Errorf("DefaultRule.Severity() = %v, want ERROR", r.Severity())
	}
	if r.Link() != "" {
		t.Errorf("DefaultRule.Link() = %q, want empty", r.Link())
	}
}

type warningRule struct {
	testRule
}

func (r *warningRule) Severity() Severity { return WARNING }
func (r *warningRule) Link() string       { return "https://docs.txtx.sh/lint/warning_rule" }

func TestNewIssue(t *testing.T) {
	rule := &warningRule{testRule{name: "warning_rule", enabled: true}}
	rng := hcl.Range{Filename: "main.tx", Start: hcl.Pos{Line: 3, Column: 5}, End: hcl.Pos{Line: 3, Column: 10}}
	related := hcl.Range{Filename: "main.tx", Start: hcl.Pos{Line: 1, Column: 1}}

	issue := NewIssue(rule, "something off", rng,
		WithSuggestion("fix it"),
		WithContext("longer story"),
		WithRelated("declared here", related),
	)

	if issue.Message != "something off" {
		t.Errorf("Message = %q, want %q", issue.Message, "something off")
	}
	if issue.Range != rng {
		t.Errorf("Range = %v, want %v", issue.Range, rng)
	}
	if issue.Suggestion != "fix it" {
		t.Errorf("Suggestion = %q, want %q", issue.Suggestion, "fix it")
	}
	if issue.Context != "longer story" {
		t.Errorf("Context = %q, want %q", issue.Context, "longer story")
	}
	if issue.Documentation != rule.Link() {
		t.Errorf("Documentation = %q, want rule link", issue.Documentation)
	}
	if len(issue.Related) != 1 || issue.Related[0].Message != "declared here" {
		t.Errorf("Related = %v, want one 'declared here'", issue.Related)
	}
	if got := issue.EffectiveSeverity(); got != WARNING {
		t.Errorf("EffectiveSeverity() = %v, want WARNING", got)
	}

	issue.Severity = NOTICE
	if got := issue.EffectiveSeverity(); got != NOTICE {
		t.Errorf("EffectiveSeverity() with override = %v, want NOTICE", got)
	}
}

func TestNewIssue_WithDocumentation(t *testing.T) {
	issue := NewIssue(newTestRule("r", true), "m", hcl.Range{}, WithDocumentation("https://example.com"))
	if issue.Documentation != "https://example.com" {
		t.Errorf("Documentation = %q, want override", issue.Documentation)
	}
}

func TestIssue_EffectiveSeverity_NoRule(t *testing.T) {
	if got := (Issue{}).EffectiveSeverity(); got != ERROR {
		t.Errorf("EffectiveSeverity() = %v, want ERROR", got)
	}
}
