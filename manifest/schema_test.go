package manifest

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["$id"] != schemaID {
		t.Errorf("$id = %v, want %q", doc["$id"], schemaID)
	}
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: sampleManifest,
		},
		{
			name: "empty document",
			data: "",
			// name is required
			wantErr: true,
		},
		{
			name:    "runbook without location",
			data:    "name: x\nrunbooks:\n  - name: deploy\n",
			wantErr: true,
		},
		{
			name:    "nested input value",
			data:    "name: x\nenvironments:\n  devnet:\n    api:\n      url: x\n",
			wantErr: true,
		},
		{
			name: "unknown top-level key is allowed",
			data: "name: x\nversion: 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSchema() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var serr *SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("ValidateSchema() error = %T, want *SchemaError", err)
			}
			if serr.Error() == "" {
				t.Error("SchemaError.Error() should not be empty")
			}
		})
	}
}

func TestValidateSchema_MalformedYAML(t *testing.T) {
	err := ValidateSchema([]byte("name: [oops"))
	if err == nil {
		t.Fatal("ValidateSchema() error = nil, want error")
	}
	var serr *SchemaError
	if errors.As(err, &serr) {
		t.Error("malformed YAML should not be reported as a schema violation")
	}
}
