package hclext

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// File is a parsed runbook source.
type File struct {
	// Filename is the name used in every range of the file.
	Filename string
	// Bytes is the raw source.
	Bytes []byte
	// Blocks are the top-level blocks in source order.
	Blocks []*Block
	// Attributes are top-level attributes, which runbooks do not use
	// but the grammar allows.
	Attributes []*Attribute
}

// ParseRunbook parses src as a runbook. Diagnostics with error severity mean
// the returned file is nil.
func ParseRunbook(filename string, src []byte) (*File, hcl.Diagnostics) {
	f, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		// hclsyntax.ParseConfig always yields an *hclsyntax.Body
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected body type",
			Detail:   fmt.Sprintf("expected *hclsyntax.Body, got %T", f.Body),
		}}
	}

	content := FromHCLBody(body)
	return &File{
		Filename:   filename,
		Bytes:      src,
		Blocks:     content.Blocks,
		Attributes: content.SortedAttributes(),
	}, diags
}

// FirstError returns the first error diagnostic and its best-effort range.
// The range falls back to the start of the file when the diagnostic has no
// subject.
func FirstError(filename string, diags hcl.Diagnostics) (*hcl.Diagnostic, hcl.Range) {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		if diag.Subject != nil {
			return diag, *diag.Subject
		}
		return diag, hcl.Range{Filename: filename, Start: hcl.InitialPos, End: hcl.InitialPos}
	}
	return nil, hcl.Range{Filename: filename, Start: hcl.InitialPos, End: hcl.InitialPos}
}
