package plugin

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/txtx/txtx-sub001/addon"
)

// Addons travel as structpb values. Types are encoded with cty's JSON type
// syntax, e.g. "string" or ["map","string"].

// =============================================================================
// Addon Conversion
// =============================================================================

// toProtoAddons converts addons to a struct with an "addons" list.
func toProtoAddons(addons []*addon.Addon) (*structpb.Struct, error) {
	list := make([]any, 0, len(addons))
	for _, a := range addons {
		if a == nil {
			continue
		}
		m, err := addonToMap(a)
		if err != nil {
			return nil, fmt.Errorf("addon %q: %w", a.Namespace, err)
		}
		list = append(list, m)
	}
	return structpb.NewStruct(map[string]any{"addons": list})
}

// fromProtoAddons converts a struct built by toProtoAddons.
func fromProtoAddons(s *structpb.Struct) ([]*addon.Addon, error) {
	if s == nil {
		return nil, nil
	}
	raw, _ := s.AsMap()["addons"].([]any)
	addons := make([]*addon.Addon, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("addons[%d]: expected object, got %T", i, item)
		}
		a, err := addonFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("addons[%d]: %w", i, err)
		}
		addons = append(addons, a)
	}
	return addons, nil
}

func addonToMap(a *addon.Addon) (map[string]any, error) {
	actions := make([]any, 0, len(a.Actions))
	for _, spec := range a.Actions {
		inputs, err := inputsToList(spec.Inputs)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", spec.Matcher, err)
		}
		outputs, err := outputsToList(spec.Outputs)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", spec.Matcher, err)
		}
		actions = append(actions, map[string]any{
			"matcher":                  spec.Matcher,
			"name":                     spec.Name,
			"documentation":            spec.Documentation,
			"accepts_arbitrary_inputs": spec.AcceptsArbitraryInputs,
			"inputs":                   inputs,
			"outputs":                  outputs,
		})
	}

	signers := make([]any, 0, len(a.Signers))
	for _, spec := range a.Signers {
		inputs, err := inputsToList(spec.Inputs)
		if err != nil {
			return nil, fmt.Errorf("signer %q: %w", spec.Matcher, err)
		}
		outputs, err := outputsToList(spec.Outputs)
		if err != nil {
			return nil, fmt.Errorf("signer %q: %w", spec.Matcher, err)
		}
		signers = append(signers, map[string]any{
			"matcher":       spec.Matcher,
			"documentation": spec.Documentation,
			"inputs":        inputs,
			"outputs":       outputs,
		})
	}

	return map[string]any{
		"namespace": a.Namespace,
		"actions":   actions,
		"signers":   signers,
	}, nil
}

func addonFromMap(m map[string]any) (*addon.Addon, error) {
	a := &addon.Addon{Namespace: str(m, "namespace")}
	if a.Namespace == "" {
		return nil, fmt.Errorf("missing namespace")
	}

	for _, item := range list(m, "actions") {
		am, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("action: expected object, got %T", item)
		}
		inputs, err := inputsFromList(list(am, "inputs"))
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", str(am, "matcher"), err)
		}
		outputs, err := outputsFromList(list(am, "outputs"))
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", str(am, "matcher"), err)
		}
		arbitrary, _ := am["accepts_arbitrary_inputs"].(bool)
		a.Actions = append(a.Actions, &addon.ActionSpec{
			Matcher:                str(am, "matcher"),
			Name:                   str(am, "name"),
			Documentation:          str(am, "documentation"),
			Inputs:                 inputs,
			Outputs:                outputs,
			AcceptsArbitraryInputs: arbitrary,
		})
	}

	for _, item := range list(m, "signers") {
		sm, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("signer: expected object, got %T", item)
		}
		inputs, err := inputsFromList(list(sm, "inputs"))
		if err != nil {
			return nil, fmt.Errorf("signer %q: %w", str(sm, "matcher"), err)
		}
		outputs, err := outputsFromList(list(sm, "outputs"))
		if err != nil {
			return nil, fmt.Errorf("signer %q: %w", str(sm, "matcher"), err)
		}
		a.Signers = append(a.Signers, &addon.SignerSpec{
			Matcher:       str(sm, "matcher"),
			Documentation: str(sm, "documentation"),
			Inputs:        inputs,
			Outputs:       outputs,
		})
	}
	return a, nil
}

// =============================================================================
// Field Conversion
// =============================================================================

func inputsToList(inputs []addon.InputSpec) ([]any, error) {
	out := make([]any, 0, len(inputs))
	for _, in := range inputs {
		ty, err := toProtoType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Name, err)
		}
		out = append(out, map[string]any{
			"name":          in.Name,
			"type":          ty,
			"optional":      in.Optional,
			"documentation": in.Documentation,
		})
	}
	return out, nil
}

func inputsFromList(items []any) ([]addon.InputSpec, error) {
	out := make([]addon.InputSpec, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("input: expected object, got %T", item)
		}
		ty, err := fromProtoType(str(m, "type"))
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", str(m, "name"), err)
		}
		optional, _ := m["optional"].(bool)
		out = append(out, addon.InputSpec{
			Name:          str(m, "name"),
			Type:          ty,
			Optional:      optional,
			Documentation: str(m, "documentation"),
		})
	}
	return out, nil
}

func outputsToList(outputs []addon.OutputSpec) ([]any, error) {
	out := make([]any, 0, len(outputs))
	for _, o := range outputs {
		ty, err := toProtoType(o.Type)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", o.Name, err)
		}
		out = append(out, map[string]any{
			"name":          o.Name,
			"type":          ty,
			"documentation": o.Documentation,
		})
	}
	return out, nil
}

func outputsFromList(items []any) ([]addon.OutputSpec, error) {
	out := make([]addon.OutputSpec, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("output: expected object, got %T", item)
		}
		ty, err := fromProtoType(str(m, "type"))
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", str(m, "name"), err)
		}
		out = append(out, addon.OutputSpec{
			Name:          str(m, "name"),
			Type:          ty,
			Documentation: str(m, "documentation"),
		})
	}
	return out, nil
}

// toProtoType encodes ty. The nil type encodes as "".
func toProtoType(ty cty.Type) (string, error) {
	if ty == cty.NilType {
		return "", nil
	}
	data, err := ctyjson.MarshalType(ty)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func fromProtoType(s string) (cty.Type, error) {
	if s == "" {
		return cty.NilType, nil
	}
	return ctyjson.UnmarshalType([]byte(s))
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func list(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}
