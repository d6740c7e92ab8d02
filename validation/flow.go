package validation

import (
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/hclext"
)

// CheckFlowInputs checks every flow.X reference against the flows of the
// runbook. Flows are alternative sources for the same inputs, so each
// referenced input must be provided by all of them.
//
// When no flow provides X, every call site gets an error. When only some
// do, a single error is reported at the first call site, pointing at each
// flow missing X and then at every call site. A runbook without flows is
// not checked.
func CheckFlowInputs(flows []Definition, refs []ReferenceSite) []Diagnostic {
	if len(flows) == 0 {
		return nil
	}

	var names []string
	sites := map[string][]ReferenceSite{}
	for _, ref := range refs {
		if ref.Namespace != hclext.NamespaceFlow {
			continue
		}
		if _, ok := sites[ref.Name]; !ok {
			names = append(names, ref.Name)
		}
		sites[ref.Name] = append(sites[ref.Name], ref)
	}

	var diags []Diagnostic
	for _, name := range names {
		var defining, missing []Definition
		for _, flow := range flows {
			if flow.HasInput(name) {
				defining = append(defining, flow)
			} else {
				missing = append(missing, flow)
			}
		}

		switch {
		case len(missing) == 0:
		case len(defining) == 0:
			for _, site := range sites[name] {
				d := newError(RuleFlowInput, site.Range, "Undefined flow input '%s'", name)
				for _, flow := range flows {
					d.Related = append(d.Related, RelatedLocation{
						Message: fmt.Sprintf("Flow '%s' is missing input '%s'", flow.Name, name),
						Range:   flow.Range,
					})
				}
				diags = append(diags, d)
			}
		default:
			first := sites[name][0]
			d := newError(RuleFlowInput, first.Range, "Flow input '%s' not defined in all flows", name)
			d.Context = fmt.Sprintf("Input '%s' is provided by %s but not by %s",
				name, flowList(defining), flowList(missing))
			for _, flow := range missing {
				d.Related = append(d.Related, RelatedLocation{
					Message: fmt.Sprintf("Missing in flow '%s'", flow.Name),
					Range:   flow.Range,
				})
			}
			for _, site := range sites[name] {
				d.Related = append(d.Related, RelatedLocation{Message: "Referenced here", Range: site.Range})
			}
			diags = append(diags, d)
		}
	}
	return diags
}

func flowList(flows []Definition) string {
	quoted := make([]string, len(flows))
	for i, flow := range flows {
		quoted[i] = "'" + flow.Name + "'"
	}
	noun := "flow"
	if len(flows) > 1 {
		noun = "flows"
	}
	return noun + " " + strings.Join(quoted, ", ")
}
