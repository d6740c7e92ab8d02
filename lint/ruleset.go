package lint

import "sort"

// BuiltinRuleSet provides default implementations for the RuleSet interface.
// Embed this struct and override methods as needed.
//
//	rs := &lint.BuiltinRuleSet{
//	    Name:    "txtx",
//	    Version: "0.1.0",
//	    Rules:   []lint.Rule{&UndefinedInputRule{}},
//	}
type BuiltinRuleSet struct {
	// Name is the ruleset name (e.g., "txtx").
	Name string
	// Version is the ruleset version (e.g., "0.1.0").
	Version string
	// Rules is the list of rules in this ruleset.
	Rules []Rule
	// enabledRules tracks which rules are enabled after configuration.
	enabledRules map[string]bool
	// severities holds configured severity overrides.
	severities map[string]Severity
}

// RuleSetName returns the name of the ruleset.
func (rs *BuiltinRuleSet) RuleSetName() string {
	return rs.Name
}

// RuleSetVersion returns the version of the ruleset.
func (rs *BuiltinRuleSet) RuleSetVersion() string {
	return rs.Version
}

// RuleNames returns the names of all rules in this ruleset.
func (rs *BuiltinRuleSet) RuleNames() []string {
	names := make([]string, len(rs.Rules))
	for i, rule := range rs.Rules {
		names[i] = rule.Name()
	}
	return names
}

// ApplyGlobalConfig applies the lint configuration.
// Handles DisabledByDefault, Only, and per-rule enablement and severity.
// Configuration for unknown rules is ignored.
func (rs *BuiltinRuleSet) ApplyGlobalConfig(config *Config) error {
	rs.enabledRules = make(map[string]bool)
	rs.severities = make(map[string]Severity)

	for _, rule := range rs.Rules {
		rs.enabledRules[rule.Name()] = rule.Enabled()
	}

	if config == nil {
		return nil
	}

	if config.DisabledByDefault {
		for name := range rs.enabledRules {
			rs.enabledRules[name] = false
		}
	}

	if len(config.Only) > 0 {
		for name := range rs.enabledRules {
			rs.enabledRules[name] = false
		}
		for _, name := range config.Only {
			if _, ok := rs.enabledRules[name]; ok {
				rs.enabledRules[name] = true
			}
		}
	}

	// Only wins over per-rule enablement; severities still apply.
	for name, ruleConfig := range config.Rules {
		if _, ok := rs.enabledRules[name]; !ok || ruleConfig == nil {
			continue
		}
		if len(config.Only) == 0 {
			rs.enabledRules[name] = ruleConfig.Enabled
		}
		if ruleConfig.Severity != 0 {
			rs.severities[name] = ruleConfig.Severity
		}
	}

	return nil
}

// NewRunner returns the runner unchanged by default.
func (rs *BuiltinRuleSet) NewRunner(runner Runner) (Runner, error) {
	return runner, nil
}

// BuiltinImpl returns the BuiltinRuleSet itself.
func (rs *BuiltinRuleSet) BuiltinImpl() *BuiltinRuleSet {
	return rs
}

// IsRuleEnabled returns whether a rule is enabled.
// Call this after ApplyGlobalConfig.
func (rs *BuiltinRuleSet) IsRuleEnabled(name string) bool {
	if rs.enabledRules == nil {
		// Not yet configured; use rule default
		for _, rule := range rs.Rules {
			if rule.Name() == name {
				return rule.Enabled()
			}
		}
		return false
	}
	return rs.enabledRules[name]
}

// RuleSeverity returns the configured severity of rule name, or the rule
// default when none is configured. It returns 0 for unknown rules.
func (rs *BuiltinRuleSet) RuleSeverity(name string) Severity {
	if s, ok := rs.severities[name]; ok {
		return s
	}
	if rule := rs.GetRule(name); rule != nil {
		return rule.Severity()
	}
	return 0
}

// GetRule returns a rule by name, or nil if not found.
func (rs *BuiltinRuleSet) GetRule(name string) Rule {
	for _, rule := range rs.Rules {
		if rule.Name() == name {
			return rule
		}
	}
	return nil
}

// EnabledRules returns all currently enabled rules.
func (rs *BuiltinRuleSet) EnabledRules() []Rule {
	var enabled []Rule
	for _, rule := range rs.Rules {
		if rs.IsRuleEnabled(rule.Name()) {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// SortedRules returns all rules ordered by name.
func (rs *BuiltinRuleSet) SortedRules() []Rule {
	rules := append([]Rule(nil), rs.Rules...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name() < rules[j].Name() })
	return rules
}
