package validation

import (
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/hclext"
)

// HclValidationVisitor validates the top-level blocks of one runbook. It
// owns every piece of mutable state of a run; processors only see
// ProcessingContext snapshots and report back through ProcessingResult.
//
// A visitor is single use: create one per run.
type HclValidationVisitor struct {
	// Collected counts the blocks handled by the collection phase.
	Collected int
	// Validated counts the blocks handled by the validation phase.
	Validated int

	file    string
	source  []byte
	opts    Options
	factory *ProcessorFactory

	definitions map[string]Definition
	declared    []Definition
	flows       []Definition
	references  []ReferenceSite
	graph       *DependencyGraph
	result      Result
}

// NewHclValidationVisitor returns a visitor for the runbook parsed from
// source under the name file.
func NewHclValidationVisitor(file string, source []byte, opts Options) *HclValidationVisitor {
	factory := opts.Processors
	if factory == nil {
		factory = NewProcessorFactory()
	}
	return &HclValidationVisitor{
		file:        file,
		source:      source,
		opts:        opts,
		factory:     factory,
		definitions: map[string]Definition{},
		graph:       NewDependencyGraph(),
	}
}

// Visit runs collection, validation, cycle detection and the flow input
// check over blocks, in that order, and returns the accumulated result.
// Diagnostics keep that order too, and source order within each step.
func (v *HclValidationVisitor) Visit(blocks []*hclext.Block) *Result {
	v.collect(blocks)
	v.validate(blocks)
	v.reportCycles()
	for _, d := range CheckFlowInputs(v.flows, v.references) {
		v.result.Add(d)
	}
	return &v.result
}

func (v *HclValidationVisitor) collect(blocks []*hclext.Block) {
	ctx := v.snapshot()
	for _, block := range blocks {
		p := v.factory.Processor(block.Type)
		if p == nil {
			continue
		}
		v.Collected++
		v.applyCollection(p.ProcessCollection(block, ctx))
	}
}

func (v *HclValidationVisitor) applyCollection(res ProcessingResult) {
	for _, d := range res.Errors {
		v.result.Add(d)
	}
	for _, def := range res.Definitions {
		key := def.Key()
		v.graph.AddNode(key, def.Range)

		if first, ok := v.definitions[key]; ok {
			d := newError(RuleDuplicateDefinition, def.NameRange, "Duplicate %s '%s'", def.Kind, def.Name)
			d.Related = []RelatedLocation{{Message: "First declared here", Range: first.NameRange}}
			v.result.Add(d)
			continue
		}
		v.definitions[key] = def
		v.declared = append(v.declared, def)
		if def.Kind == KindFlow {
			v.flows = append(v.flows, def)
		}
	}
}

func (v *HclValidationVisitor) validate(blocks []*hclext.Block) {
	ctx := v.snapshot()
	for _, block := range blocks {
		p := v.factory.Processor(block.Type)
		if p == nil {
			continue
		}
		res := p.ProcessValidation(block, ctx)
		if res.CurrentBlockName == "" {
			panic(fmt.Sprintf("validation: %T returned no block name for %s block at %s", p, block.Type, block.DefRange))
		}
		v.Validated++
		v.applyValidation(res)
	}
}

func (v *HclValidationVisitor) applyValidation(res ProcessingResult) {
	for _, d := range res.Errors {
		v.result.Add(d)
	}
	for _, ref := range res.References {
		v.references = append(v.references, ref)
		if !ref.Dependency {
			continue
		}
		switch ref.Namespace {
		case hclext.NamespaceVariable, hclext.NamespaceAction, hclext.NamespaceOutput, hclext.NamespaceSigner:
			v.graph.AddEdge(res.CurrentBlockName, ref.Namespace+"."+ref.Name)
		}
	}
}

func (v *HclValidationVisitor) snapshot() *ProcessingContext {
	return newProcessingContext(v.definitions, v.flows, v.opts, v.file, v.source)
}

func (v *HclValidationVisitor) reportCycles() {
	for _, cycle := range v.graph.FindAllCycles() {
		rng, _ := v.graph.Range(cycle.Nodes[0])
		d := newError(RuleCircularDependency, rng, "%s", cycleMessage(cycle))
		for _, node := range cycle.Nodes[1:] {
			if r, ok := v.graph.Range(node); ok {
				d.Related = append(d.Related, RelatedLocation{Message: "Part of the cycle", Range: r})
			}
		}
		v.result.Add(d)
	}
}

// cycleMessage names the kind once when every member shares it:
// "circular dependency in variable: a -> b -> a". Mixed cycles keep the
// qualified keys.
func cycleMessage(c Cycle) string {
	path := c.Path()
	kind, _, _ := strings.Cut(path[0], ".")
	names := make([]string, len(path))
	for i, key := range path {
		k, name, _ := strings.Cut(key, ".")
		if k != kind {
			return "circular dependency: " + strings.Join(path, " -> ")
		}
		names[i] = name
	}
	return fmt.Sprintf("circular dependency in %s: %s", kind, strings.Join(names, " -> "))
}

// Graph returns the dependency graph built by Visit.
func (v *HclValidationVisitor) Graph() *DependencyGraph {
	return v.graph
}

// Definitions returns the first declaration of every symbol, in source
// order.
func (v *HclValidationVisitor) Definitions() []Definition {
	return v.declared
}

// References returns every reference found by the validation phase, in
// source order.
func (v *HclValidationVisitor) References() []ReferenceSite {
	return v.references
}
