package rules

import (
	"testing"

	"github.com/txtx/txtx-sub001/helper"
)

func TestRequiredProductionInputsRule(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     string
		want    helper.Issues
	}{
		{
			name:    "missing endpoint",
			content: `variable "a" { value = input.base_url }`,
			env:     "production",
			want: helper.Issues{
				{Rule: NewRequiredProductionInputsRule(), Message: "Required production input 'input.base_url' is not defined"},
			},
		},
		{
			name:    "case insensitive pattern",
			content: `variable "a" { value = input.NETWORK_ID }`,
			env:     "production",
			want: helper.Issues{
				{Rule: NewRequiredProductionInputsRule(), Message: "Required production input 'input.NETWORK_ID' is not defined"},
			},
		},
		{
			name:    "defined",
			content: `variable "a" { value = input.api_url }`,
			env:     "production",
			want:    helper.Issues{},
		},
		{
			name:    "inherited from global",
			content: `variable "a" { value = input.chain_id }`,
			env:     "production",
			want:    helper.Issues{},
		},
		{
			name:    "not production",
			content: `variable "a" { value = input.base_url }`,
			env:     "devnet",
			want:    helper.Issues{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := helper.TestRunner(t,
				map[string]string{"main.tx": tt.content},
				helper.WithManifest(workspaceManifest),
				helper.WithEnvironment(tt.env),
			)
			rule := NewRequiredProductionInputsRule()

			if err := rule.Check(runner); err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			helper.AssertIssuesWithoutRange(t, tt.want, runner.Issues)
		})
	}
}

func TestRequiredProductionInputsRule_Details(t *testing.T) {
	runner := helper.TestRunner(t,
		map[string]string{"main.tx": `variable "a" { value = input.auth_token }`},
		helper.WithManifest("name: demo\nenvironments:\n  prod:\n    chain_id: 1\n"),
		helper.WithEnvironment("prod"),
	)
	rule := NewRequiredProductionInputsRule()
	if err := rule.Check(runner); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(runner.Emitted) != 1 {
		t.Fatalf("Emitted = %d issues, want 1", len(runner.Emitted))
	}

	issue := runner.Emitted[0]
	if issue.Message != "Required production input 'input.auth_token' is not defined" {
		t.Errorf("Message = %q", issue.Message)
	}
	if issue.Context != "Production environments must define all API endpoints and authentication tokens" {
		t.Errorf("Context = %q", issue.Context)
	}
	if issue.Suggestion != "Add this input to your production environment configuration" {
		t.Errorf("Suggestion = %q", issue.Suggestion)
	}
	if issue.Documentation != "https://docs.txtx.sh/deployment/production" {
		t.Errorf("Documentation = %q", issue.Documentation)
	}
}
