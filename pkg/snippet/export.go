package snippet

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the exported snippet file schema.
const SchemaID = "https://github.com/ormasoftchile/snipgen/schemas/snippets-v1.json"

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document for
// snippet files using invopop/jsonschema.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(map[string]Snippet{})
	s.ID = SchemaID
	s.Title = "Editor snippet collection"
	s.Description = "Schema for .code-snippets files: snippet name to snippet definition"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
