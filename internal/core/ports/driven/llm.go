package driven

import "context"

// LLMService provides structured language model generation.
// This is an optional service - when nil, answers and summaries degrade to fixed strings.
//
// Implementations may include:
//   - Google Gemini
//   - OpenAI (GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// GenerateStructured sends a prompt and returns the model's raw text,
	// which is expected to be a JSON object shaped by schema.
	GenerateStructured(ctx context.Context, prompt string, schema ResponseSchema) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// FieldType is the JSON type of a response field.
type FieldType string

// Supported field types.
const (
	FieldString      FieldType = "string"
	FieldStringArray FieldType = "string_array"
)

// SchemaField describes one property of a structured response.
type SchemaField struct {
	Name        string
	Type        FieldType
	Description string
}

// ResponseSchema describes the JSON object a structured call must return.
type ResponseSchema struct {
	// Name identifies the schema in provider requests.
	Name string

	// Fields are the object's properties. All are required.
	Fields []SchemaField
}

// JSONSchema renders the schema as a JSON Schema object.
func (s ResponseSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		var prop map[string]any
		switch f.Type {
		case FieldStringArray:
			prop = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		default:
			prop = map[string]any{"type": "string"}
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[f.Name] = prop
		required = append(required, f.Name)
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// FieldNames returns the property names in declaration order.
func (s ResponseSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
