package validation

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/hclext"
)

// Block kinds with a processor. They double as reference namespaces.
const (
	KindVariable = hclext.NamespaceVariable
	KindSigner   = hclext.NamespaceSigner
	KindAction   = hclext.NamespaceAction
	KindOutput   = hclext.NamespaceOutput
	KindFlow     = hclext.NamespaceFlow
	KindAddon    = "addon"
)

// Definition is a symbol declared by a top-level block.
type Definition struct {
	// Kind is the namespace the symbol is referenced through.
	Kind string
	// Name is the declared name.
	Name string
	// Type is the "namespace::name" type label of actions and signers.
	Type string
	// Inputs are the field names a flow provides, in source order.
	Inputs []string
	// Range is the definition range of the declaring block.
	Range hcl.Range
	// NameRange is the range of the name label.
	NameRange hcl.Range
}

// Key returns "kind.name", the dependency graph node of the definition.
func (d Definition) Key() string {
	return d.Kind + "." + d.Name
}

// HasInput reports whether a flow definition provides name.
func (d Definition) HasInput(name string) bool {
	for _, in := range d.Inputs {
		if in == name {
			return true
		}
	}
	return false
}

// ReferenceSite is a reference found while validating a block.
type ReferenceSite struct {
	hclext.Reference
	// Block is the key of the block containing the reference.
	Block string
	// Dependency reports whether the reference orders the containing block
	// after the referenced one. References inside post_condition blocks
	// are evaluated after the action and are not dependencies.
	Dependency bool
}

// ProcessingResult accumulates what a processor found in one block. The
// visitor applies it after the processor returns.
type ProcessingResult struct {
	// CurrentBlockName is the key of the processed block. Validation must
	// set it before references are recorded.
	CurrentBlockName string
	Definitions      []Definition
	References       []ReferenceSite
	Errors           []Diagnostic
}

func (r *ProcessingResult) define(d Definition) {
	r.Definitions = append(r.Definitions, d)
}

func (r *ProcessingResult) refer(ref hclext.Reference, dependency bool) {
	r.References = append(r.References, ReferenceSite{
		Reference:  ref,
		Block:      r.CurrentBlockName,
		Dependency: dependency,
	})
}

func (r *ProcessingResult) fail(d Diagnostic) {
	r.Errors = append(r.Errors, d)
}
