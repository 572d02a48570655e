package llm

import (
	"encoding/json"
	"fmt"

	typeschema "github.com/google/jsonschema-go/jsonschema"
)

// SchemaFor derives a Schema from the Go type T. Field names follow the
// type's json tags; fields without omitempty are required.
func SchemaFor[T any](name, description string) (*Schema, error) {
	s, err := typeschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema %q: %w", name, err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	var def map[string]any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", name, err)
	}
	// Provider structured-output APIs reject the draft marker.
	delete(def, "$schema")

	return &Schema{Name: name, Description: description, Definition: def}, nil
}

// MustSchemaFor is SchemaFor for package-level schema variables.
func MustSchemaFor[T any](name, description string) *Schema {
	s, err := SchemaFor[T](name, description)
	if err != nil {
		panic(err)
	}
	return s
}
