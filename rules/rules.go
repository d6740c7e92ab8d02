// Package rules holds the built-in txtx lint rules. They cross-check the
// input references of a runbook against the workspace manifest, the
// selected environment and the inputs given on the command line.
package rules

import (
	"github.com/txtx/txtx-sub001/hclext"
	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/manifest"
)

// Version is the version of the built-in ruleset.
const Version = "0.1.0"

// RuleSetName is the name of the built-in ruleset.
const RuleSetName = "txtx"

// All returns a fresh instance of every built-in rule.
func All() []lint.Rule {
	return []lint.Rule{
		NewUndefinedInputRule(),
		NewDeprecatedInputRule(),
		NewRequiredInputRule(),
		NewInputNamingConventionRule(),
		NewCLIInputOverrideRule(),
		NewSensitiveDataRule(),
		NewNoDefaultValuesRule(),
		NewRequiredProductionInputsRule(),
	}
}

// NewRuleSet returns the built-in ruleset.
func NewRuleSet() *lint.BuiltinRuleSet {
	return &lint.BuiltinRuleSet{
		Name:    RuleSetName,
		Version: Version,
		Rules:   All(),
	}
}

// StrictRuleNames lists the rules that are off by default and turned on
// by strict linting.
func StrictRuleNames() []string {
	var names []string
	for _, rule := range All() {
		if !rule.Enabled() {
			names = append(names, rule.Name())
		}
	}
	return names
}

// productionEnvironments are the environment names production-only rules
// apply to.
var productionEnvironments = map[string]bool{
	"production": true,
	"prod":       true,
}

func isProduction(env string) bool {
	return productionEnvironments[env]
}

func fullName(ref hclext.Reference) string {
	return hclext.NamespaceInput + "." + ref.Name
}

// effectiveValue returns the winning raw value of input name.
func effectiveValue(runner lint.Runner, name string) (string, bool) {
	in, ok := runner.Inputs().Lookup(name)
	if !ok {
		return "", false
	}
	return in.Raw, true
}

// environmentValue returns the value of input name from the manifest,
// ignoring command line inputs: the selected environment wins over global.
func environmentValue(runner lint.Runner, name string) (string, bool) {
	m := runner.Manifest()
	if env := runner.Environment(); env != "" {
		if e, ok := m.Environment(env); ok {
			if v, ok := e.Lookup(name); ok {
				return v, true
			}
		}
	}
	global, _ := m.Environment(manifest.GlobalEnvironment)
	return global.Lookup(name)
}
