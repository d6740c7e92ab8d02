package validation

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/lint"
)

// Rule ids of the diagnostics produced by the validator itself. Rules of
// the lint layer use their own names.
const (
	RuleParseError          = "parse_error"
	RuleMissingLabel        = "missing_label"
	RuleDuplicateDefinition = "duplicate_definition"
	RuleUndefinedReference  = "undefined_reference"
	RuleInvalidOutputField  = "invalid_output_field"
	RuleInvalidActionType   = "invalid_action_type"
	RuleInvalidSignerType   = "invalid_signer_type"
	RuleUnknownNamespace    = "unknown_namespace"
	RuleInvalidParameter    = "invalid_parameter"
	RuleMissingParameter    = "missing_parameter"
	RuleCircularDependency  = "circular_dependency"
	RuleFlowInput           = "flow_input"
)

// RelatedLocation is a secondary location of a diagnostic, such as the
// declaration a duplicate conflicts with or a call site.
type RelatedLocation struct {
	Message string
	Range   hcl.Range
}

// Diagnostic is a single validation finding.
type Diagnostic struct {
	// Message is the one-line description.
	Message string
	// Severity is ERROR, WARNING or NOTICE (a suggestion).
	Severity lint.Severity
	// Rule is the id of the check that produced the diagnostic.
	Rule string
	// Range is the primary location.
	Range hcl.Range
	// Context is an optional longer explanation.
	Context string
	// Suggestion is an optional fix hint.
	Suggestion string
	// Documentation is an optional documentation link.
	Documentation string
	// Related lists secondary locations in order.
	Related []RelatedLocation
}

// String renders the diagnostic as file:line:col: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Range.Filename, d.Range.Start.Line, d.Range.Start.Column, d.Message)
}

func newError(rule string, rng hcl.Range, format string, args ...any) Diagnostic {
	return Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: lint.ERROR,
		Rule:     rule,
		Range:    rng,
	}
}

// Result is the outcome of a validation run. Each list keeps the order in
// which diagnostics were produced.
type Result struct {
	Errors      []Diagnostic
	Warnings    []Diagnostic
	Suggestions []Diagnostic
}

// Add appends d to the list matching its severity. A zero severity counts
// as an error.
func (r *Result) Add(d Diagnostic) {
	switch d.Severity {
	case lint.WARNING:
		r.Warnings = append(r.Warnings, d)
	case lint.NOTICE:
		r.Suggestions = append(r.Suggestions, d)
	default:
		d.Severity = lint.ERROR
		r.Errors = append(r.Errors, d)
	}
}

// HasErrors reports whether any error was recorded.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// HasWarnings reports whether any warning was recorded.
func (r *Result) HasWarnings() bool {
	return r != nil && len(r.Warnings) > 0
}

// Len returns the total number of diagnostics.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Errors) + len(r.Warnings) + len(r.Suggestions)
}

// Merge appends other's diagnostics after the receiver's.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Suggestions = append(r.Suggestions, other.Suggestions...)
}

// All returns errors, then warnings, then suggestions.
func (r *Result) All() []Diagnostic {
	if r == nil {
		return nil
	}
	all := make([]Diagnostic, 0, r.Len())
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	return append(all, r.Suggestions...)
}

// Remap rewrites every range that points into m's combined buffer,
// including related locations, to the original file coordinates.
func (r *Result) Remap(m *FileBoundaryMap) {
	if r == nil || m == nil {
		return
	}
	for _, list := range [][]Diagnostic{r.Errors, r.Warnings, r.Suggestions} {
		for i := range list {
			list[i].Range = m.MapRange(list[i].Range)
			for j := range list[i].Related {
				list[i].Related[j].Range = m.MapRange(list[i].Related[j].Range)
			}
		}
	}
}
