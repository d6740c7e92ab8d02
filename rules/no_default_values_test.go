package rules

import (
	"testing"

	"github.com/txtx/txtx-sub001/helper"
)

func TestNoDefaultValuesRule(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     string
		want    helper.Issues
	}{
		{
			name:    "production reuses default",
			content: `variable "a" { value = input.api_url }`,
			env:     "production",
			want: helper.Issues{
				{Rule: NewNoDefaultValuesRule(), Message: "Production environment is using default value for 'input.api_url'"},
			},
		},
		{
			name:    "global value equal to default",
			content: `variable "a" { value = input.chain_id }`,
			env:     "production",
			want: helper.Issues{
				{Rule: NewNoDefaultValuesRule(), Message: "Production environment is using default value for 'input.chain_id'"},
			},
		},
		{
			name:    "not production",
			content: `variable "a" { value = input.chain_id }`,
			env:     "devnet",
			want:    helper.Issues{},
		},
		{
			name:    "no default",
			content: `variable "a" { value = input.deployer_key }`,
			env:     "production",
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
			rule := NewNoDefaultValuesRule()

			if err := rule.Check(runner); err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			helper.AssertIssuesWithoutRange(t, tt.want, runner.Issues)
		})
	}
}

func TestNoDefaultValuesRule_DifferentValue(t *testing.T) {
	runner := helper.TestRunner(t,
		map[string]string{"main.tx": `variable "a" { value = input.api_url }`},
		helper.WithManifest(workspaceManifest),
		helper.WithEnvironment("production"),
		helper.WithCLIInputs("api_url=https://prod.example.com"),
	)

	if err := NewNoDefaultValuesRule().Check(runner); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	helper.AssertNoIssues(t, runner.Issues)
}
