// internal/rules/assistant/gemini.go
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	commonerrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
)

const defaultModel = "gemini-2.5-flash"

const promptTemplate = `You are structuring visa eligibility requirements for the %s visa category.

Given the JSON array of requirement objects below, return a JSON array of the
same requirements with clearer, self-contained descriptions. You may split
run-on entries and drop entries that are not eligibility requirements. Keep
every object in this shape:
{"category": string, "description": string, "required": boolean, "field": string, "operator": string, "value": any, "weight": number}

Respond with the JSON array only, no prose.

Requirements:
%s`

// GeminiStructurer implements Structurer against the Gemini API.
type GeminiStructurer struct {
	client    *genai.Client
	modelName string
	log       logger.Logger
}

// NewGeminiStructurer creates a structurer for the Gemini API backend. An
// empty model falls back to the package default.
func NewGeminiStructurer(ctx context.Context, apiKey, model string, log logger.Logger) (*GeminiStructurer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &GeminiStructurer{
		client:    client,
		modelName: model,
		log:       log,
	}, nil
}

// Structure sends the batch to Gemini and parses the structured reply.
func (g *GeminiStructurer) Structure(ctx context.Context, visaType string, candidates []models.Requirement) ([]models.Requirement, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("encode candidates: %w", err)
	}
	prompt := fmt.Sprintf(promptTemplate, visaType, string(encoded))

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, commonerrors.NewAssistantTimeoutError()
		}
		return nil, commonerrors.NewAssistantUnavailableError(err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, commonerrors.NewAssistantParseFailedError(errors.New("empty response"))
	}

	requirements, err := ParseResponse(text)
	if err != nil {
		g.log.Warn("assistant returned unparsable output", map[string]interface{}{
			"visaType": visaType,
			"error":    err.Error(),
		})
		return nil, commonerrors.NewAssistantParseFailedError(err)
	}

	g.log.Info("assistant structured requirements", map[string]interface{}{
		"visaType": visaType,
		"sent":     len(candidates),
		"received": len(requirements),
	})
	return requirements, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
