package actions

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
)

// BuildConfigJSONSchema returns the JSON-Schema for a module configuration as a generic map.
// Unknown action names are allowed; known ones must match their shape.
func BuildConfigJSONSchema() map[string]any {
	object := func(props map[string]any, required ...string) map[string]any {
		s := map[string]any{"type": "object"}
		if props != nil {
			s["properties"] = props
		}
		if len(required) > 0 {
			s["required"] = required
		}
		return s
	}
	nonEmpty := map[string]any{"type": "string", "minLength": 1}

	textRule := object(map[string]any{
		"name": nonEmpty,
		"pre":  nonEmpty,
		"post": nonEmpty,
		"type": map[string]any{"type": "string"},
	}, "name", "pre", "post", "type")

	pdfParams := object(map[string]any{
		"encoding":    map[string]any{"type": "string", "enum": []string{constants.EncodingUTF8, constants.EncodingLatin1}},
		"text_source": map[string]any{"type": "string", "enum": []string{constants.TextSourceRaw, constants.TextSourceContent}},
	})

	actions := object(map[string]any{
		string(constants.ActionAcqDateTime): object(map[string]any{
			"params": map[string]any{"type": "object"},
		}),
		string(constants.ActionHeaderSeries): object(map[string]any{
			"params": map[string]any{"type": "object"},
			"tags": map[string]any{
				"type":                 "object",
				"additionalProperties": nonEmpty,
			},
		}, "tags"),
		string(constants.ActionPDFSeries): object(map[string]any{
			"params": pdfParams,
			"texts":  map[string]any{"type": "array", "items": textRule},
		}, "texts"),
	})

	return object(map[string]any{"actions": actions}, "actions")
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
