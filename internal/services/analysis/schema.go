package analysis

import (
	"bytes"
	"encoding/json"
)

// OutputSchema is the JSON schema the structured analysis response must
// conform to. It is passed to providers that support schema-constrained
// output and embedded in the prompt for those that do not.
func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"meta": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"education_title": map[string]interface{}{"type": "string"},
					"num_answers":     map[string]interface{}{"type": "integer"},
					"language":        map[string]interface{}{"type": "string"},
				},
				"required": []string{"education_title", "num_answers", "language"},
			},
			"narrative":    map[string]interface{}{"type": "string"},
			"safety_notes": map[string]interface{}{"type": "string"},
			"themes": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"strengths": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"growth_areas": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"micro_actions": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"meta", "narrative"},
	}
}

// SchemaJSON renders the output schema for embedding in a prompt.
func SchemaJSON() string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(OutputSchema()); err != nil {
		return "{}"
	}
	return buf.String()
}
