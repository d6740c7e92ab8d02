// Package addon provides the read-only catalog of addon specifications.
//
// Addons contribute actions and signers under a namespace. A runbook refers
// to them with a "namespace::name" type label, for example
// action "transfer" "evm::send_eth". The validator only needs the declared
// input and output fields of each specification; action behavior lives
// elsewhere.
//
// A Catalog is immutable once built and may be shared across concurrent
// validation runs.
package addon

import (
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Separator joins a namespace and a name in a type label.
const Separator = "::"

// InputSpec describes an input field accepted by an action or signer.
type InputSpec struct {
	// Name is the attribute name used in the runbook.
	Name string
	// Type is the expected value type.
	Type cty.Type
	// Optional reports whether the input may be omitted.
	Optional bool
	// Documentation is a short description of the input.
	Documentation string
}

// OutputSpec describes a field produced by an action or signer.
type OutputSpec struct {
	// Name is the field name referenced as action.<name>.<field>.
	Name string
	// Type is the produced value type.
	Type cty.Type
	// Documentation is a short description of the output.
	Documentation string
}

// ActionSpec is the specification of an addon action.
type ActionSpec struct {
	// Matcher is the action name after the namespace (e.g., "send_eth").
	Matcher string
	// Name is a human-readable title.
	Name string
	// Documentation describes the action.
	Documentation string
	// Inputs are the accepted input fields.
	Inputs []InputSpec
	// Outputs are the fields the action produces.
	Outputs []OutputSpec
	// AcceptsArbitraryInputs disables unknown-parameter checks.
	AcceptsArbitraryInputs bool
}

// Input returns the input named name.
func (s *ActionSpec) Input(name string) (InputSpec, bool) {
	for _, in := range s.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// HasOutput reports whether the action produces field name.
func (s *ActionSpec) HasOutput(name string) bool {
	for _, out := range s.Outputs {
		if out.Name == name {
			return true
		}
	}
	return false
}

// OutputNames returns output names in declaration order.
func (s *ActionSpec) OutputNames() []string {
	names := make([]string, len(s.Outputs))
	for i, out := range s.Outputs {
		names[i] = out.Name
	}
	return names
}

// SignerSpec is the specification of an addon signer.
type SignerSpec struct {
	// Matcher is the signer name after the namespace (e.g., "secret_key").
	Matcher string
	// Documentation describes the signer.
	Documentation string
	// Inputs are the accepted input fields.
	Inputs []InputSpec
	// Outputs are the fields the signer exposes.
	Outputs []OutputSpec
}

// Addon groups the specifications contributed under one namespace.
type Addon struct {
	// Namespace is the addon prefix (e.g., "evm").
	Namespace string
	// Actions are the action specifications.
	Actions []*ActionSpec
	// Signers are the signer specifications.
	Signers []*SignerSpec
}

// Catalog indexes addon specifications by namespace.
type Catalog struct {
	addons map[string]*Addon
}

// NewCatalog builds a catalog. When two addons share a namespace, the later
// one replaces the earlier.
func NewCatalog(addons ...*Addon) *Catalog {
	c := &Catalog{addons: make(map[string]*Addon, len(addons))}
	for _, a := range addons {
		if a == nil || a.Namespace == "" {
			continue
		}
		c.addons[a.Namespace] = a
	}
	return c
}

// With returns a new catalog containing the receiver's addons plus extra.
// The receiver is not modified.
func (c *Catalog) With(extra ...*Addon) *Catalog {
	all := make([]*Addon, 0, len(c.addons)+len(extra))
	for _, ns := range c.Namespaces() {
		all = append(all, c.addons[ns])
	}
	return NewCatalog(append(all, extra...)...)
}

// Namespaces returns the known namespaces in sorted order.
func (c *Catalog) Namespaces() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.addons))
	for ns := range c.addons {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// HasNamespace reports whether an addon is registered under ns.
func (c *Catalog) HasNamespace(ns string) bool {
	if c == nil {
		return false
	}
	_, ok := c.addons[ns]
	return ok
}

// Addon returns the addon registered under ns.
func (c *Catalog) Addon(ns string) (*Addon, bool) {
	if c == nil {
		return nil, false
	}
	a, ok := c.addons[ns]
	return a, ok
}

// Action looks up an action by its "namespace::matcher" id.
func (c *Catalog) Action(id string) (*ActionSpec, bool) {
	ns, name, ok := SplitID(id)
	if !ok {
		return nil, false
	}
	a, ok := c.Addon(ns)
	if !ok {
		return nil, false
	}
	for _, spec := range a.Actions {
		if spec.Matcher == name {
			return spec, true
		}
	}
	return nil, false
}

// Signer looks up a signer by its "namespace::matcher" id.
func (c *Catalog) Signer(id string) (*SignerSpec, bool) {
	ns, name, ok := SplitID(id)
	if !ok {
		return nil, false
	}
	a, ok := c.Addon(ns)
	if !ok {
		return nil, false
	}
	for _, spec := range a.Signers {
		if spec.Matcher == name {
			return spec, true
		}
	}
	return nil, false
}

// SplitID splits "namespace::name". Both parts must be non-empty and the
// separator must appear exactly once.
func SplitID(id string) (namespace, name string, ok bool) {
	if strings.Count(id, Separator) != 1 {
		return "", "", false
	}
	namespace, name, _ = strings.Cut(id, Separator)
	if namespace == "" || name == "" {
		return "", "", false
	}
	return namespace, name, true
}

// JoinID builds "namespace::name".
func JoinID(namespace, name string) string {
	return namespace + Separator + name
}
