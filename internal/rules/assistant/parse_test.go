// internal/rules/assistant/parse_test.go
package assistant

import (
	"testing"

	"visa-eligibility-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse_PlainArray(t *testing.T) {
	text := `[
		{"category": "education", "description": "Bachelor's degree required", "required": true, "field": "educationLevel", "operator": ">=", "value": "bachelor", "weight": 10},
		{"description": "Job offer from US employer"}
	]`

	requirements, err := ParseResponse(text)

	assert.NoError(t, err)
	assert.Len(t, requirements, 2)
	assert.Equal(t, models.CategoryEducation, requirements[0].Category)
	assert.Equal(t, "educationLevel", requirements[0].Field)
	assert.True(t, requirements[0].Required)
	assert.Equal(t, 10, requirements[0].Weight)
	assert.Equal(t, "Job offer from US employer", requirements[1].Description)
}

func TestParseResponse_MarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			"json fence",
			"```json\n[{\"description\": \"Bachelor's degree required\"}]\n```",
		},
		{
			"bare fence",
			"```\n[{\"description\": \"Bachelor's degree required\"}]\n```",
		},
		{
			"surrounded by prose",
			"Here are the requirements:\n[{\"description\": \"Bachelor's degree required\"}]\nLet me know if you need more.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requirements, err := ParseResponse(tt.text)
			assert.NoError(t, err)
			assert.Len(t, requirements, 1)
			assert.Equal(t, "Bachelor's degree required", requirements[0].Description)
		})
	}
}

func TestParseResponse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no array", "I could not find any requirements on that page."},
		{"object instead of array", `{"description": "Bachelor's degree required"}`},
		{"missing description", `[{"category": "education"}]`},
		{"empty description", `[{"description": ""}]`},
		{"array of strings", `["Bachelor's degree required"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requirements, err := ParseResponse(tt.text)
			assert.Error(t, err)
			assert.Nil(t, requirements)
		})
	}
}

func TestParseResponse_EmptyArray(t *testing.T) {
	requirements, err := ParseResponse("[]")
	assert.NoError(t, err)
	assert.Empty(t, requirements)
}
