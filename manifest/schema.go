package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaDocument describes txtx.yml for JSON schema generation. Field
// tags follow the YAML keys.
type SchemaDocument struct {
	Name         string                  `json:"name" jsonschema:"description=Workspace name"`
	ID           string                  `json:"id,omitempty" jsonschema:"description=Workspace id derived from name when absent"`
	Runbooks     []SchemaRunbook         `json:"runbooks,omitempty"`
	Environments map[string]SchemaInputs `json:"environments,omitempty"`
}

// SchemaRunbook describes a runbook entry.
type SchemaRunbook struct {
	Name        string       `json:"name"`
	ID          string       `json:"id,omitempty"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location" jsonschema:"description=Path to a .tx file or a directory of .tx files"`
	State       *SchemaState `json:"state,omitempty"`
}

// SchemaState describes runbook state persistence.
type SchemaState struct {
	File string `json:"file,omitempty"`
}

// SchemaInputs is the input mapping of one environment. An environment
// declared without inputs decodes as null.
type SchemaInputs map[string]string

// JSONSchema restricts input values to scalars.
func (SchemaInputs) JSONSchema() *jsonschema.Schema {
	scalar := &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
			{Type: "boolean"},
			{Type: "null"},
		},
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "object", AdditionalProperties: scalar},
			{Type: "null"},
		},
	}
}

const schemaID = "https://txtx.sh/schemas/txtx-manifest.json"

// GenerateJSONSchema produces the JSON schema of txtx.yml.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false
	r.AllowAdditionalProperties = true

	s := r.Reflect(&SchemaDocument{})
	s.ID = schemaID
	s.Title = "txtx workspace manifest"
	s.Description = "Schema for txtx.yml workspace manifests"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// SchemaError lists the schema violations of a manifest document.
type SchemaError struct {
	Violations []Violation
}

// Violation is a single schema violation.
type Violation struct {
	// Path is the slash-separated location inside the document.
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Path == "" {
			parts[i] = v.Message
			continue
		}
		parts[i] = v.Path + ": " + v.Message
	}
	return "txtx.yml does not match schema: " + strings.Join(parts, "; ")
}

// ValidateSchema checks a YAML manifest document against the generated
// schema. A *SchemaError is returned for violations.
func ValidateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("txtx.yml file malformatted: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// Round-trip through JSON so the validator sees JSON value types.
	docJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal manifest for schema validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return fmt.Errorf("unmarshal manifest document: %w", err)
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return err
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		var ve *sjsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		serr := &SchemaError{}
		for _, cause := range flattenValidationErrors(ve) {
			serr.Violations = append(serr.Violations, Violation{
				Path:    strings.Join(cause.InstanceLocation, "/"),
				Message: fmt.Sprintf("%v", cause.ErrorKind),
			})
		}
		return serr
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
