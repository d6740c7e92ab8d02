// Package hclext provides the runbook source model built on hashicorp/hcl/v2.
//
// Runbooks use a limited HCL grammar: top-level blocks with string labels,
// attributes whose expressions may reference other constructs, and nested
// blocks such as pre_condition and post_condition. This package converts
// hclsyntax trees into that model and extracts references from expressions.
//
// Key types:
//   - File: A parsed runbook source with its top-level blocks
//   - BodyContent: Attributes and nested blocks of a body
//   - Attribute: An HCL attribute with expression and range
//   - Block: An HCL block with labels and nested content
//   - Reference: A namespace.name[.field] occurrence inside an expression
package hclext

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// BodyContent represents the content of a runbook block body.
type BodyContent struct {
	// Attributes maps attribute names to their content.
	Attributes map[string]*Attribute
	// Blocks contains nested blocks in source order.
	Blocks []*Block
}

// Attribute represents a runbook attribute.
type Attribute struct {
	// Name is the attribute name.
	Name string
	// Expr is the attribute's value expression.
	Expr hcl.Expression
	// Range is the source range of the entire attribute.
	Range hcl.Range
	// NameRange is the source range of just the attribute name.
	NameRange hcl.Range
}

// Block represents a runbook block.
type Block struct {
	// Type is the block kind (e.g., "action", "variable", "flow").
	Type string
	// Labels are the block's label values.
	Labels []string
	// Body is the block's body content.
	Body *BodyContent
	// DefRange is the source range of the block definition.
	DefRange hcl.Range
	// TypeRange is the source range of the block type.
	TypeRange hcl.Range
	// LabelRanges are the source ranges of each label.
	LabelRanges []hcl.Range
}

// Label returns the label at index i, or "" when the block has fewer labels.
func (b *Block) Label(i int) string {
	if i < 0 || i >= len(b.Labels) {
		return ""
	}
	return b.Labels[i]
}

// LabelRange returns the range of label i, falling back to DefRange.
func (b *Block) LabelRange(i int) hcl.Range {
	if i < 0 || i >= len(b.LabelRanges) {
		return b.DefRange
	}
	return b.LabelRanges[i]
}

// SortedAttributes returns the attributes ordered by source position.
// Map iteration order is random, and diagnostics must be deterministic.
func (bc *BodyContent) SortedAttributes() []*Attribute {
	if bc == nil {
		return nil
	}
	attrs := make([]*Attribute, 0, len(bc.Attributes))
	for _, attr := range bc.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Range.Start.Byte < attrs[j].Range.Start.Byte
	})
	return attrs
}

// FromHCLAttribute converts an hclsyntax.Attribute to an Attribute.
func FromHCLAttribute(attr *hclsyntax.Attribute) *Attribute {
	if attr == nil {
		return nil
	}
	return &Attribute{
		Name:      attr.Name,
		Expr:      attr.Expr,
		Range:     attr.SrcRange,
		NameRange: attr.NameRange,
	}
}

// FromHCLBlock converts an hclsyntax.Block to a Block, including its
// nested body content.
func FromHCLBlock(block *hclsyntax.Block) *Block {
	if block == nil {
		return nil
	}
	return &Block{
		Type:        block.Type,
		Labels:      block.Labels,
		Body:        FromHCLBody(block.Body),
		DefRange:    block.DefRange(),
		TypeRange:   block.TypeRange,
		LabelRanges: block.LabelRanges,
	}
}

// FromHCLBody converts an hclsyntax.Body to a BodyContent.
func FromHCLBody(body *hclsyntax.Body) *BodyContent {
	if body == nil {
		return &BodyContent{Attributes: map[string]*Attribute{}}
	}

	bc := &BodyContent{
		Attributes: make(map[string]*Attribute, len(body.Attributes)),
		Blocks:     make([]*Block, len(body.Blocks)),
	}

	for name, attr := range body.Attributes {
		bc.Attributes[name] = FromHCLAttribute(attr)
	}

	for i, block := range body.Blocks {
		bc.Blocks[i] = FromHCLBlock(block)
	}

	return bc
}
