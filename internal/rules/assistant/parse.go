// internal/rules/assistant/parse.go
package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"visa-eligibility-workers/internal/models"
)

// responseSchema validates the assistant's reply before it is trusted:
// an array of objects that each carry at least a description.
const responseSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"category": {"type": "string"},
			"description": {"type": "string", "minLength": 1},
			"required": {"type": "boolean"},
			"field": {"type": "string"},
			"operator": {"type": "string"},
			"weight": {"type": "number"}
		},
		"required": ["description"]
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(responseSchema)

// ParseResponse extracts the JSON array from a model reply and decodes it.
// Replies wrapped in markdown code fences or surrounded by prose are
// tolerated; anything that fails schema validation is rejected whole.
func ParseResponse(text string) ([]models.Requirement, error) {
	payload := extractJSON(text)
	if payload == "" {
		return nil, errors.New("no JSON array in response")
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("validate response: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, issue := range result.Errors() {
			issues = append(issues, issue.String())
		}
		return nil, fmt.Errorf("response failed schema validation: %s", strings.Join(issues, "; "))
	}

	var requirements []models.Requirement
	if err := json.Unmarshal([]byte(payload), &requirements); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return requirements, nil
}

// extractJSON pulls the first JSON array out of a reply, stripping markdown
// code fences if present.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
