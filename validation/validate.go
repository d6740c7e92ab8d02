// Package validation is the static validator of txtx runbooks.
//
// Validation runs in two phases over the top-level blocks of a runbook.
// The collection phase registers every declared symbol; the validation
// phase resolves the references of each block against them and builds a
// dependency graph, which is then searched for cycles. Block kinds are
// handled by BlockProcessor strategies that never mutate validator state:
// they return a ProcessingResult which the HclValidationVisitor applies.
//
// A runbook made of several files is validated as one concatenated
// source. A FileBoundaryMap records where each file landed and maps every
// diagnostic back to its original file and line.
//
// Validation is a pure function of its inputs and safe to run
// concurrently; the addon catalog is shared read-only.
package validation

import (
	"github.com/txtx/txtx-sub001/addon"
	"github.com/txtx/txtx-sub001/hclext"
)

// SourceFile is one file of a runbook.
type SourceFile struct {
	Path    string
	Content []byte
}

// Options configures a validation run.
type Options struct {
	// Catalog holds the addon specifications. When nil, action and signer
	// types and action parameters are not checked.
	Catalog *addon.Catalog
	// WorkspaceSigners maps the names of signers declared by other
	// runbooks of the workspace to their types.
	WorkspaceSigners map[string]string
	// Processors overrides the block processors. Nil means
	// NewProcessorFactory().
	Processors *ProcessorFactory
}

// Analysis is the outcome of Analyze. Every range in it refers to the
// original files.
type Analysis struct {
	Result *Result
	// Definitions are the first declarations of the runbook's symbols.
	Definitions []Definition
	// References are all references found, in source order.
	References []ReferenceSite
	// Graph is the dependency graph. Its node ranges are not remapped.
	Graph *DependencyGraph
	// Collected and Validated count the blocks handled by each phase.
	Collected int
	Validated int
}

// InputReferences returns the input.X references of the runbook.
func (a *Analysis) InputReferences() []hclext.Reference {
	var refs []hclext.Reference
	for _, ref := range a.References {
		if ref.Namespace == hclext.NamespaceInput {
			refs = append(refs, ref.Reference)
		}
	}
	return refs
}

// Analyze validates a runbook made of files, in order. A parse failure
// yields a single parse_error diagnostic and nothing else.
func Analyze(files []SourceFile, opts Options) *Analysis {
	a := &Analysis{Result: &Result{}, Graph: NewDependencyGraph()}
	if len(files) == 0 {
		return a
	}

	filename, source := files[0].Path, files[0].Content
	var boundaries *FileBoundaryMap
	if len(files) > 1 {
		boundaries = NewFileBoundaryMap()
		for _, f := range files {
			boundaries.AddFile(f.Path, f.Content)
		}
		filename, source = CombinedFilename, boundaries.Combined()
	}

	file, diags := hclext.ParseRunbook(filename, source)
	if diags.HasErrors() {
		diag, rng := hclext.FirstError(filename, diags)
		d := newError(RuleParseError, rng, "%s", diag.Summary)
		d.Context = diag.Detail
		a.Result.Add(d)
		a.Result.Remap(boundaries)
		return a
	}

	v := NewHclValidationVisitor(filename, source, opts)
	a.Result = v.Visit(file.Blocks)
	a.Result.Remap(boundaries)
	a.Graph = v.Graph()
	a.Collected, a.Validated = v.Collected, v.Validated

	for _, def := range v.Definitions() {
		if boundaries != nil {
			def.Range = boundaries.MapRange(def.Range)
			def.NameRange = boundaries.MapRange(def.NameRange)
		}
		a.Definitions = append(a.Definitions, def)
	}
	for _, ref := range v.References() {
		if boundaries != nil {
			ref.Range = boundaries.MapRange(ref.Range)
		}
		a.References = append(a.References, ref)
	}
	return a
}

// Validate is Analyze without the collected symbols.
func Validate(files []SourceFile, opts Options) *Result {
	return Analyze(files, opts).Result
}
