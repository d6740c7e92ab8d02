package rules

import (
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/lint"
)

var requiredProductionPatterns = []string{
	"api_url",
	"api_endpoint",
	"base_url",
	"api_token",
	"api_key",
	"auth_token",
	"chain_id",
	"network_id",
}

// RequiredProductionInputsRule checks that production environments define
// every endpoint and credential input a runbook references.
type RequiredProductionInputsRule struct {
	lint.DefaultRule
}

// NewRequiredProductionInputsRule returns a new rule.
func NewRequiredProductionInputsRule() *RequiredProductionInputsRule {
	return &RequiredProductionInputsRule{}
}

// Name returns the rule name.
func (r *RequiredProductionInputsRule) Name() string {
	return "required_production_inputs"
}

// Description returns the rule description.
func (r *RequiredProductionInputsRule) Description() string {
	return "Ensures required inputs are present in production"
}

// Enabled returns false; strict linting turns the rule on.
func (r *RequiredProductionInputsRule) Enabled() bool {
	return false
}

// Link returns the rule reference link.
func (r *RequiredProductionInputsRule) Link() string {
	return "https://docs.txtx.sh/deployment/production"
}

// Check checks endpoint and credential references in production
// environments.
func (r *RequiredProductionInputsRule) Check(runner lint.Runner) error {
	if !isProduction(runner.Environment()) {
		return nil
	}

	for _, ref := range runner.InputReferences() {
		if !matchesAny(ref.Name, requiredProductionPatterns) {
			continue
		}
		if _, ok := runner.Inputs().Lookup(ref.Name); ok {
			continue
		}
		if err := runner.EmitIssue(r,
			fmt.Sprintf("Required production input '%s' is not defined", fullName(ref)),
			ref.Range,
			lint.WithContext("Production environments must define all API endpoints and authentication tokens"),
			lint.WithSuggestion("Add this input to your production environment configuration"),
		); err != nil {
			return err
		}
	}
	return nil
}

func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
