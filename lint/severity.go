// Package lint provides the rule framework used to check runbooks against
// the workspace manifest and the selected environment.
//
// The shapes follow the usual HCL linter SDK layout so rule authors find
// familiar pieces:
//   - Severity: issue severity levels (ERROR, WARNING, NOTICE)
//   - DefaultRule: embeddable defaults for optional Rule methods
//   - Rule: one check, run against a Runner
//   - Runner: read access to the runbook's input references, the manifest
//     and the resolved inputs, plus issue emission
//   - RuleSet and BuiltinRuleSet: rule registration and enablement
//   - Config: the .txtxlint.yml configuration
package lint

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of an issue.
type Severity int

const (
	// ERROR indicates an issue that blocks running the runbook.
	ERROR Severity = iota + 1
	// WARNING indicates a potential issue that may need attention.
	WARNING
	// NOTICE indicates an informational finding or suggestion.
	NOTICE
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case ERROR:
		return "ERROR"
	case WARNING:
		return "WARNING"
	case NOTICE:
		return "NOTICE"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses a configured severity. "info" and "hint" are
// accepted as NOTICE.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return ERROR, nil
	case "warning", "warn":
		return WARNING, nil
	case "notice", "info", "hint":
		return NOTICE, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}
