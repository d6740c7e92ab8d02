package validation

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/addon"
	"github.com/txtx/txtx-sub001/hclext"
)

// BlockProcessor handles one block kind. Both methods are pure: they read
// the block and the context and describe their findings in the returned
// result, which the visitor applies.
type BlockProcessor interface {
	// ProcessCollection registers the block's definitions. It must not
	// check references, since later blocks are not collected yet.
	ProcessCollection(block *hclext.Block, ctx *ProcessingContext) ProcessingResult
	// ProcessValidation sets CurrentBlockName, records every reference of
	// the block and reports those that do not resolve.
	ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult
}

// ProcessorFactory maps block kinds to processors.
type ProcessorFactory struct {
	processors map[string]BlockProcessor
}

// NewProcessorFactory returns a factory with the runbook block kinds
// registered.
func NewProcessorFactory() *ProcessorFactory {
	f := &ProcessorFactory{processors: map[string]BlockProcessor{}}
	f.Register(KindVariable, variableProcessor{})
	f.Register("var", variableProcessor{})
	f.Register(KindSigner, signerProcessor{})
	f.Register(KindAction, actionProcessor{})
	f.Register(KindOutput, outputProcessor{})
	f.Register(KindFlow, flowProcessor{})
	f.Register(KindAddon, addonProcessor{})
	return f
}

// Register sets the processor of kind, replacing any previous one.
func (f *ProcessorFactory) Register(kind string, p BlockProcessor) {
	f.processors[kind] = p
}

// Processor returns the processor of kind, or nil for kinds without one.
// Blocks of such kinds are skipped.
func (f *ProcessorFactory) Processor(kind string) BlockProcessor {
	return f.processors[kind]
}

// inheritedProperties are accepted by every action and flow on top of
// their own inputs.
var inheritedProperties = map[string]bool{
	"description":       true,
	"markdown":          true,
	"markdown_filepath": true,
	"depends_on":        true,
	"pre_condition":     true,
	"post_condition":    true,
}

// IsInheritedProperty reports whether name is accepted by every action.
func IsInheritedProperty(name string) bool {
	return inheritedProperties[name]
}

// collectNamed registers block under kind using its first label. When
// typed, the second label is the required type.
func collectNamed(kind string, block *hclext.Block, typed bool) (ProcessingResult, Definition, bool) {
	var res ProcessingResult
	name := block.Label(0)
	if name == "" {
		res.fail(newError(RuleMissingLabel, block.DefRange, "Missing required label: %s name", kind))
		return res, Definition{}, false
	}
	def := Definition{
		Kind:      kind,
		Name:      name,
		Range:     block.DefRange,
		NameRange: block.LabelRange(0),
	}
	if typed {
		def.Type = block.Label(1)
		if def.Type == "" {
			res.fail(newError(RuleMissingLabel, block.DefRange, "Missing required label: %s type", kind))
			return res, Definition{}, false
		}
	}
	res.CurrentBlockName = def.Key()
	return res, def, true
}

func validationResult(kind string, block *hclext.Block) ProcessingResult {
	return ProcessingResult{CurrentBlockName: kind + "." + block.Label(0)}
}

// validateReferences records every reference of block and checks those
// that point at runbook constructs or signers. input and flow references
// are only recorded; they are checked once the whole runbook is known.
func validateReferences(block *hclext.Block, ctx *ProcessingContext, res *ProcessingResult) {
	hclext.WalkReferences(block.Body, func(ref hclext.Reference, within []*hclext.Block) {
		res.refer(ref, !inPostCondition(within))

		switch ref.Namespace {
		case hclext.NamespaceVariable, hclext.NamespaceOutput:
			if _, ok := ctx.Lookup(ref.Namespace, ref.Name); !ok {
				res.fail(undefined(ref))
			}
		case hclext.NamespaceSigner:
			if _, ok := ctx.Signer(ref.Name); !ok {
				res.fail(undefined(ref))
			}
		case hclext.NamespaceAction:
			def, ok := ctx.Action(ref.Name)
			if !ok {
				res.fail(undefined(ref))
				return
			}
			field := ref.FirstField()
			if field == "" {
				return
			}
			spec, ok := ctx.Catalog().Action(def.Type)
			if !ok || spec.HasOutput(field) {
				return
			}
			res.fail(newError(RuleInvalidOutputField, ref.Range,
				"Output field '%s' does not exist for action '%s'. Available fields: %s",
				field, ref.Name, strings.Join(spec.OutputNames(), ", ")))
		}
	})
}

func undefined(ref hclext.Reference) Diagnostic {
	return newError(RuleUndefinedReference, ref.Range, "Undefined %s: '%s'", ref.Namespace, ref.Name)
}

func inPostCondition(within []*hclext.Block) bool {
	for _, b := range within {
		if b.Type == "post_condition" {
			return true
		}
	}
	return false
}

type variableProcessor struct{}

func (variableProcessor) ProcessCollection(block *hclext.Block, _ *ProcessingContext) ProcessingResult {
	res, def, ok := collectNamed(KindVariable, block, false)
	if ok {
		res.define(def)
	}
	return res
}

func (variableProcessor) ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult {
	res := validationResult(KindVariable, block)
	validateReferences(block, ctx, &res)
	return res
}

type outputProcessor struct{}

func (outputProcessor) ProcessCollection(block *hclext.Block, _ *ProcessingContext) ProcessingResult {
	res, def, ok := collectNamed(KindOutput, block, false)
	if ok {
		res.define(def)
	}
	return res
}

func (outputProcessor) ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult {
	res := validationResult(KindOutput, block)
	validateReferences(block, ctx, &res)
	return res
}

type flowProcessor struct{}

func (flowProcessor) ProcessCollection(block *hclext.Block, _ *ProcessingContext) ProcessingResult {
	res, def, ok := collectNamed(KindFlow, block, false)
	if !ok {
		return res
	}
	for _, attr := range block.Body.SortedAttributes() {
		if !IsInheritedProperty(attr.Name) {
			def.Inputs = append(def.Inputs, attr.Name)
		}
	}
	res.define(def)
	return res
}

func (flowProcessor) ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult {
	res := validationResult(KindFlow, block)
	validateReferences(block, ctx, &res)
	return res
}

type signerProcessor struct{}

func (signerProcessor) ProcessCollection(block *hclext.Block, _ *ProcessingContext) ProcessingResult {
	res, def, ok := collectNamed(KindSigner, block, true)
	if ok {
		res.define(def)
	}
	return res
}

func (signerProcessor) ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult {
	res := validationResult(KindSigner, block)
	if typ := block.Label(1); typ != "" && ctx.Catalog() != nil {
		rng := block.LabelRange(1)
		ns, _, ok := addon.SplitID(typ)
		switch {
		case !ok:
			res.fail(newError(RuleInvalidSignerType, rng, "Invalid format: %s. Expected: namespace::signer", typ))
		case !ctx.Catalog().HasNamespace(ns):
			res.fail(unknownNamespace(ctx, ns, rng))
		default:
			if _, ok := ctx.Catalog().Signer(typ); !ok {
				res.fail(newError(RuleInvalidSignerType, rng, "Unknown signer type: %s", typ))
			}
		}
	}
	validateReferences(block, ctx, &res)
	return res
}

type actionProcessor struct{}

func (actionProcessor) ProcessCollection(block *hclext.Block, _ *ProcessingContext) ProcessingResult {
	res, def, ok := collectNamed(KindAction, block, true)
	if ok {
		res.define(def)
	}
	return res
}

func (actionProcessor) ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult {
	res := validationResult(KindAction, block)
	if typ := block.Label(1); typ != "" && ctx.Catalog() != nil {
		if spec, ok := checkActionType(typ, block, ctx, &res); ok {
			checkParameters(typ, spec, block, &res)
		}
	}
	validateReferences(block, ctx, &res)
	return res
}

func checkActionType(typ string, block *hclext.Block, ctx *ProcessingContext, res *ProcessingResult) (*addon.ActionSpec, bool) {
	rng := block.LabelRange(1)
	ns, _, ok := addon.SplitID(typ)
	if !ok {
		res.fail(newError(RuleInvalidActionType, rng, "Invalid format: %s. Expected: namespace::action", typ))
		return nil, false
	}
	if !ctx.Catalog().HasNamespace(ns) {
		res.fail(unknownNamespace(ctx, ns, rng))
		return nil, false
	}
	spec, ok := ctx.Catalog().Action(typ)
	if !ok {
		res.fail(newError(RuleInvalidActionType, rng, "Unknown action: %s", typ))
		return nil, false
	}
	return spec, true
}

// checkParameters compares the block's attributes and nested blocks with
// the inputs of spec.
func checkParameters(typ string, spec *addon.ActionSpec, block *hclext.Block, res *ProcessingResult) {
	present := map[string]bool{}
	for _, attr := range block.Body.SortedAttributes() {
		present[attr.Name] = true
		if IsInheritedProperty(attr.Name) || spec.AcceptsArbitraryInputs {
			continue
		}
		if _, ok := spec.Input(attr.Name); !ok {
			res.fail(newError(RuleInvalidParameter, attr.Range, "Invalid parameter '%s' for action '%s'", attr.Name, typ))
		}
	}
	for _, nested := range block.Body.Blocks {
		present[nested.Type] = true
		if IsInheritedProperty(nested.Type) || spec.AcceptsArbitraryInputs {
			continue
		}
		if _, ok := spec.Input(nested.Type); !ok {
			res.fail(newError(RuleInvalidParameter, nested.DefRange, "Invalid parameter '%s' for action '%s'", nested.Type, typ))
		}
	}
	for _, in := range spec.Inputs {
		if !in.Optional && !present[in.Name] {
			res.fail(newError(RuleMissingParameter, block.DefRange, "Missing parameter '%s' for action '%s'", in.Name, typ))
		}
	}
}

func unknownNamespace(ctx *ProcessingContext, ns string, rng hcl.Range) Diagnostic {
	return newError(RuleUnknownNamespace, rng, "Unknown namespace: %s. Available: %s",
		ns, strings.Join(ctx.Catalog().Namespaces(), ", "))
}

type addonProcessor struct{}

func (addonProcessor) ProcessCollection(block *hclext.Block, _ *ProcessingContext) ProcessingResult {
	var res ProcessingResult
	if block.Label(0) == "" {
		res.fail(newError(RuleMissingLabel, block.DefRange, "Missing required label: addon namespace"))
	}
	return res
}

func (addonProcessor) ProcessValidation(block *hclext.Block, ctx *ProcessingContext) ProcessingResult {
	res := validationResult(KindAddon, block)
	if ns := block.Label(0); ns != "" && ctx.Catalog() != nil && !ctx.Catalog().HasNamespace(ns) {
		res.fail(unknownNamespace(ctx, ns, block.LabelRange(0)))
	}
	validateReferences(block, ctx, &res)
	return res
}
