package manifest

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Source tells where a resolved input value came from.
type Source int

const (
	// SourceGlobal is the global environment.
	SourceGlobal Source = iota + 1
	// SourceEnvironment is the selected environment.
	SourceEnvironment
	// SourceCLI is a command line override.
	SourceCLI
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceGlobal:
		return "global"
	case SourceEnvironment:
		return "environment"
	case SourceCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// ResolvedInput is an input value after precedence has been applied.
type ResolvedInput struct {
	Name string
	// Raw is the value as written.
	Raw string
	// Value is Raw typed as a bool, number or string.
	Value cty.Value
	// Source is where the winning value came from.
	Source Source
	// Shadowed lists lower-precedence sources that also define the input.
	Shadowed []Source
}

// Inputs is the effective input set for one environment selection.
// Precedence is CLI over the selected environment over global.
type Inputs struct {
	// Environment is the selected environment, or "" when none is.
	Environment string
	values      map[string]*ResolvedInput
	order       []string
}

// Lookup returns the resolved input name.
func (in *Inputs) Lookup(name string) (*ResolvedInput, bool) {
	if in == nil {
		return nil, false
	}
	v, ok := in.values[name]
	return v, ok
}

// Names returns input names in first-seen order: global inputs, then
// environment inputs, then CLI inputs.
func (in *Inputs) Names() []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in.order...)
}

// Len returns the number of resolved inputs.
func (in *Inputs) Len() int {
	if in == nil {
		return 0
	}
	return len(in.order)
}

func (in *Inputs) set(name, raw string, src Source) {
	if prev, ok := in.values[name]; ok {
		shadowed := append(prev.Shadowed, prev.Source)
		in.values[name] = &ResolvedInput{Name: name, Raw: raw, Value: ParseValue(raw), Source: src, Shadowed: shadowed}
		return
	}
	in.values[name] = &ResolvedInput{Name: name, Raw: raw, Value: ParseValue(raw), Source: src}
	in.order = append(in.order, name)
}

// ResolveInputs computes the effective inputs for env with cli overrides.
// An empty env selects only the global environment. m may be nil, in which
// case only CLI inputs are resolved.
func (m *Manifest) ResolveInputs(env string, cli []Input) (*Inputs, error) {
	in := &Inputs{Environment: env, values: map[string]*ResolvedInput{}}

	if global, ok := m.Environment(GlobalEnvironment); ok {
		for _, i := range global.Inputs {
			in.set(i.Name, i.Value, SourceGlobal)
		}
	}

	if env != "" && env != GlobalEnvironment {
		selected, ok := m.Environment(env)
		if !ok && m != nil {
			return nil, fmt.Errorf("environment '%s' unknown from manifest: %w", env, ErrUnknownEnvironment)
		}
		if ok {
			for _, i := range selected.Inputs {
				in.set(i.Name, i.Value, SourceEnvironment)
			}
		}
	}

	for _, i := range cli {
		in.set(i.Name, i.Value, SourceCLI)
	}
	return in, nil
}

// ParseValue types a raw input string: "true" and "false" become bools,
// numeric literals become numbers and anything else stays a string.
func ParseValue(raw string) cty.Value {
	switch raw {
	case "true":
		return cty.True
	case "false":
		return cty.False
	}
	if n, err := cty.ParseNumberVal(raw); err == nil {
		return n
	}
	return cty.StringVal(raw)
}

// ParseCLIInput parses "name=value". The value may itself contain "=".
func ParseCLIInput(s string) (Input, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Input{}, fmt.Errorf("invalid input %q: expected name=value", s)
	}
	return Input{Name: name, Value: value}, nil
}
