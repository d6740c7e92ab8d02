package validation

import (
	"maps"
	"slices"

	"github.com/txtx/txtx-sub001/addon"
)

// ProcessingContext is the read-only view of validator state handed to
// block processors. The visitor builds one snapshot per pass; later
// changes to the visitor never show through a snapshot.
type ProcessingContext struct {
	definitions      map[string]Definition
	flows            []Definition
	workspaceSigners map[string]string
	catalog          *addon.Catalog
	file             string
	source           []byte
}

func newProcessingContext(defs map[string]Definition, flows []Definition, opts Options, file string, source []byte) *ProcessingContext {
	return &ProcessingContext{
		definitions:      maps.Clone(defs),
		flows:            slices.Clone(flows),
		workspaceSigners: opts.WorkspaceSigners,
		catalog:          opts.Catalog,
		file:             file,
		source:           source,
	}
}

// Lookup returns the definition of kind.name in the current runbook.
func (c *ProcessingContext) Lookup(kind, name string) (Definition, bool) {
	d, ok := c.definitions[kind+"."+name]
	return d, ok
}

// Variable returns the variable named name.
func (c *ProcessingContext) Variable(name string) (Definition, bool) {
	return c.Lookup(KindVariable, name)
}

// Action returns the action named name.
func (c *ProcessingContext) Action(name string) (Definition, bool) {
	return c.Lookup(KindAction, name)
}

// Output returns the output named name.
func (c *ProcessingContext) Output(name string) (Definition, bool) {
	return c.Lookup(KindOutput, name)
}

// Flow returns the flow named name.
func (c *ProcessingContext) Flow(name string) (Definition, bool) {
	return c.Lookup(KindFlow, name)
}

// Flows returns the flows of the runbook in source order, first
// declaration only.
func (c *ProcessingContext) Flows() []Definition {
	return c.flows
}

// Signer returns the signer named name. Signers are workspace-scoped: a
// signer declared by another runbook of the workspace is found too, with
// an empty range.
func (c *ProcessingContext) Signer(name string) (Definition, bool) {
	if d, ok := c.Lookup(KindSigner, name); ok {
		return d, true
	}
	if typ, ok := c.workspaceSigners[name]; ok {
		return Definition{Kind: KindSigner, Name: name, Type: typ}, true
	}
	return Definition{}, false
}

// Catalog returns the addon catalog, which may be nil.
func (c *ProcessingContext) Catalog() *addon.Catalog {
	return c.catalog
}

// File returns the name of the file being validated.
func (c *ProcessingContext) File() string {
	return c.file
}

// Source returns the source text being validated.
func (c *ProcessingContext) Source() []byte {
	return c.source
}
