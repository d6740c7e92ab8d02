package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/txtx/txtx-sub001/lint"
)

// PrintRules writes the documentation of every rule of rs, sorted by
// name, with its effective state.
func PrintRules(w io.Writer, rs *lint.BuiltinRuleSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tENABLED\tDESCRIPTION")
	for _, rule := range rs.SortedRules() {
		enabled := "no"
		if rs.IsRuleEnabled(rule.Name()) {
			enabled = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rule.Name(), rs.RuleSeverity(rule.Name()), enabled, rule.Description())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, rule := range rs.SortedRules() {
		if link := rule.Link(); link != "" {
			if _, err := fmt.Fprintf(w, "\n%s: %s", rule.Name(), link); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
