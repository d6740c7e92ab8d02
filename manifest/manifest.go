// Package manifest loads the txtx workspace manifest (txtx.yml).
//
// The manifest lists the runbooks of a workspace and the named environments
// whose inputs runbooks reference as input.<name>. Environment order is
// preserved from the file so diagnostics and suggestions are deterministic.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the manifest file looked up when no path is given.
const DefaultFileName = "txtx.yml"

// GlobalEnvironment is the environment whose inputs apply to every
// selected environment.
const GlobalEnvironment = "global"

// ErrUnknownEnvironment is returned when a selected environment is not
// declared in the manifest.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Manifest is a parsed workspace manifest.
type Manifest struct {
	// Name is the workspace name.
	Name string
	// ID is the workspace id, derived from Name when absent.
	ID string
	// Runbooks lists the runbooks in declaration order.
	Runbooks []Runbook
	// Environments lists the environments in declaration order.
	Environments []Environment
	// Location is the path the manifest was loaded from, if any.
	Location string
}

// Runbook is a runbook entry of the manifest.
type Runbook struct {
	Name        string
	ID          string
	Description string
	// Location is relative to the manifest directory. It names either a
	// single .tx file or a directory of .tx files.
	Location string
	// StateFile is the optional state file location.
	StateFile string
}

// Environment is a named set of inputs.
type Environment struct {
	Name   string
	Inputs []Input
}

// Input is a named input value.
type Input struct {
	Name  string
	Value string
}

// Lookup returns the value of input name.
func (e *Environment) Lookup(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, in := range e.Inputs {
		if in.Name == name {
			return in.Value, true
		}
	}
	return "", false
}

// New returns an empty manifest named name.
func New(name string) *Manifest {
	return &Manifest{Name: name, ID: NormalizeID(name)}
}

// Environment returns the environment named name.
func (m *Manifest) Environment(name string) (*Environment, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Environments {
		if m.Environments[i].Name == name {
			return &m.Environments[i], true
		}
	}
	return nil, false
}

// EnvironmentNames returns environment names in declaration order.
func (m *Manifest) EnvironmentNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Environments))
	for i, env := range m.Environments {
		names[i] = env.Name
	}
	return names
}

// EnvironmentsDefining returns, in declaration order, the environments
// that define input name.
func (m *Manifest) EnvironmentsDefining(name string) []string {
	if m == nil {
		return nil
	}
	var names []string
	for i := range m.Environments {
		if _, ok := m.Environments[i].Lookup(name); ok {
			names = append(names, m.Environments[i].Name)
		}
	}
	return names
}

// Runbook returns the runbook whose name, id or location matches key.
func (m *Manifest) Runbook(key string) (*Runbook, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Runbooks {
		rb := &m.Runbooks[i]
		if rb.Name == key || rb.ID == key || rb.Location == key {
			return rb, true
		}
	}
	return nil, false
}

// Dir returns the directory containing the manifest, or "." when the
// manifest was not loaded from a file.
func (m *Manifest) Dir() string {
	if m == nil || m.Location == "" {
		return "."
	}
	return filepath.Dir(m.Location)
}

// fileFormat mirrors the YAML layout of txtx.yml.
type fileFormat struct {
	Name         string            `yaml:"name"`
	ID           string            `yaml:"id"`
	Runbooks     []runbookFormat   `yaml:"runbooks"`
	Environments environmentsBlock `yaml:"environments"`
}

type runbookFormat struct {
	Name        string       `yaml:"name"`
	ID          string       `yaml:"id"`
	Description string       `yaml:"description"`
	Location    string       `yaml:"location"`
	State       *stateFormat `yaml:"state"`
}

type stateFormat struct {
	File string `yaml:"file"`
}

// environmentsBlock decodes the environments mapping while keeping the
// declaration order of both environments and their inputs.
type environmentsBlock []Environment

func (b *environmentsBlock) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: environments must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		nameNode, inputsNode := node.Content[i], node.Content[i+1]
		env := Environment{Name: nameNode.Value}
		switch inputsNode.Kind {
		case yaml.MappingNode:
			for j := 0; j+1 < len(inputsNode.Content); j += 2 {
				key, value := inputsNode.Content[j], inputsNode.Content[j+1]
				if value.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: input %q of environment %q must be a scalar", value.Line, key.Value, env.Name)
				}
				env.Inputs = append(env.Inputs, Input{Name: key.Value, Value: value.Value})
			}
		case yaml.ScalarNode:
			// "devnet:" with no inputs decodes as a null scalar
			if inputsNode.Tag != "!!null" {
				return fmt.Errorf("line %d: environment %q must be a mapping", inputsNode.Line, env.Name)
			}
		default:
			return fmt.Errorf("line %d: environment %q must be a mapping", inputsNode.Line, env.Name)
		}
		*b = append(*b, env)
	}
	return nil
}

// Parse decodes a manifest. location is recorded for resolving runbook
// paths and may be empty.
func Parse(data []byte, location string) (*Manifest, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("txtx.yml file malformatted: %w", err)
	}

	m := &Manifest{
		Name:         f.Name,
		ID:           f.ID,
		Environments: []Environment(f.Environments),
		Location:     location,
	}
	if m.ID == "" {
		m.ID = NormalizeID(m.Name)
	}
	for _, rb := range f.Runbooks {
		entry := Runbook{
			Name:        rb.Name,
			ID:          rb.ID,
			Description: rb.Description,
			Location:    rb.Location,
		}
		if entry.ID == "" {
			entry.ID = NormalizeID(rb.Name)
		}
		if rb.State != nil {
			entry.StateFile = rb.State.File
		}
		m.Runbooks = append(m.Runbooks, entry)
	}
	return m, nil
}

// Load reads and parses the manifest at p. The document is also checked
// against the manifest JSON schema.
func Load(fs afero.Fs, p string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	return Parse(data, p)
}

// NormalizeID lowercases name, turns spaces into dashes and drops any
// character that is neither alphanumeric nor a dash.
func NormalizeID(name string) string {
	normalized := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	var b strings.Builder
	for _, r := range normalized {
		if r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
