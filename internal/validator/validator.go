// Package validator checks the migrated entry array against a Draft-7 JSON
// Schema. The schema is a versioned external artifact: a default copy ships
// embedded in the binary, and callers may substitute a newer revision from
// disk. Validation runs once over the whole array so cross-entry constraints
// stay expressible.
package validator

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/toyamagu-2021/argocd-app-migrator/internal/migrator"
)

//go:embed migrated-entries.schema.json
var defaultSchema []byte

// Violation describes one schema conformance failure
type Violation struct {
	// Pointer is the JSON-pointer location of the failing value ("" is the root)
	Pointer string `json:"pointer"`
	// Field is the dotted field path as reported by the schema engine
	Field string `json:"field"`
	// Description is a human-readable explanation of the failure
	Description string `json:"description"`
}

func (v Violation) String() string {
	loc := v.Pointer
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, v.Description)
}

// Result is the outcome of validating one entry array
type Result struct {
	Valid      bool
	Violations []Violation
}

// Validator validates entry arrays against a compiled schema
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles the given Draft-7 schema document
func New(schemaJSON []byte) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile JSON schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Default returns a validator using the embedded schema artifact
func Default() (*Validator, error) {
	return New(defaultSchema)
}

// FromFile returns a validator using a schema document loaded from disk
func FromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return New(data)
}

// Validate checks the whole entry array against the schema.
func (v *Validator) Validate(entries []migrator.Entry) (*Result, error) {
	if entries == nil {
		entries = []migrator.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entries for validation: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks an already-marshaled entry array against the schema.
func (v *Validator) ValidateJSON(data []byte) (*Result, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return &Result{Valid: true}, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, Violation{
			Pointer:     pointerFromField(desc.Field()),
			Field:       desc.Field(),
			Description: desc.Description(),
		})
	}
	return &Result{Valid: false, Violations: violations}, nil
}

// pointerFromField converts the engine's dotted field path into an RFC 6901
// JSON pointer. The engine reports "(root)" for the document itself.
func pointerFromField(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	parts := strings.Split(field, ".")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~", "~0")
		parts[i] = strings.ReplaceAll(p, "/", "~1")
	}
	return "/" + strings.Join(parts, "/")
}
