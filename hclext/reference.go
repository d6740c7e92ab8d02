package hclext

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Reference namespaces understood by runbooks.
const (
	NamespaceAction   = "action"
	NamespaceInput    = "input"
	NamespaceVariable = "variable"
	NamespaceSigner   = "signer"
	NamespaceOutput   = "output"
	NamespaceFlow     = "flow"
	NamespaceEnv      = "env"
)

// namespaceAliases maps short forms to their canonical namespace.
var namespaceAliases = map[string]string{
	"var": NamespaceVariable,
}

// Reference is an occurrence of namespace.name or namespace.name.field
// inside an expression.
type Reference struct {
	// Namespace is the canonical root of the traversal (e.g., "action").
	Namespace string
	// Name is the second traversal step (e.g., the action name).
	Name string
	// Field holds any further attribute steps (e.g., ["tx_hash"]).
	Field []string
	// Range is the source range of the whole traversal.
	Range hcl.Range
}

// String returns the dotted form of the reference.
func (r Reference) String() string {
	parts := append([]string{r.Namespace, r.Name}, r.Field...)
	return strings.Join(parts, ".")
}

// FirstField returns the first field step, or "" when there is none.
func (r Reference) FirstField() string {
	if len(r.Field) == 0 {
		return ""
	}
	return r.Field[0]
}

// CanonicalNamespace resolves aliases such as "var" to "variable".
func CanonicalNamespace(ns string) string {
	if canonical, ok := namespaceAliases[ns]; ok {
		return canonical
	}
	return ns
}

// ExprReferences returns every reference in expr, at any nesting depth.
// Function call arguments, template parts, conditionals and collection
// constructors are all walked, so evm::bytes(action.x.y) yields action.x.y.
// Traversals with a single step are not references and are skipped.
func ExprReferences(expr hcl.Expression) []Reference {
	if expr == nil {
		return nil
	}
	var refs []Reference
	for _, traversal := range expr.Variables() {
		if ref, ok := TraversalReference(traversal); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// TraversalReference converts an absolute traversal into a Reference.
// Index steps end the field path: action.x.logs[0].topic yields field
// ["logs"].
func TraversalReference(traversal hcl.Traversal) (Reference, bool) {
	if len(traversal) < 2 || traversal.IsRelative() {
		return Reference{}, false
	}
	ref := Reference{
		Namespace: CanonicalNamespace(traversal.RootName()),
		Range:     traversal.SourceRange(),
	}
	for i, step := range traversal[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			break
		}
		if i == 0 {
			ref.Name = attr.Name
			continue
		}
		ref.Field = append(ref.Field, attr.Name)
	}
	if ref.Name == "" {
		return Reference{}, false
	}
	return ref, true
}

// BodyReferences walks a body's attributes in source order and then its
// nested blocks. Blocks for which skip returns true are not descended
// into; skip may be nil.
func BodyReferences(body *BodyContent, skip func(*Block) bool) []Reference {
	var refs []Reference
	WalkReferences(body, func(ref Reference, within []*Block) {
		if skip != nil {
			for _, b := range within {
				if skip(b) {
					return
				}
			}
		}
		refs = append(refs, ref)
	})
	return refs
}

// WalkReferences calls fn for every reference in body, in the same order
// as BodyReferences. within lists the nested blocks enclosing the
// reference, outermost first; it is empty for the body's own attributes.
func WalkReferences(body *BodyContent, fn func(ref Reference, within []*Block)) {
	walkReferences(body, nil, fn)
}

func walkReferences(body *BodyContent, within []*Block, fn func(Reference, []*Block)) {
	if body == nil {
		return
	}
	for _, attr := range body.SortedAttributes() {
		for _, ref := range ExprReferences(attr.Expr) {
			fn(ref, within)
		}
	}
	for _, block := range body.Blocks {
		// Cap the slice so sibling blocks never share a backing array.
		nested := append(within[:len(within):len(within)], block)
		walkReferences(block.Body, nested, fn)
	}
}
