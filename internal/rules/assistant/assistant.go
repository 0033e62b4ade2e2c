// internal/rules/assistant/assistant.go

// Package assistant sends cleaned requirement batches to an external text
// structuring model. The assistant's output is advisory; the extraction
// service merges it with, and never over, the heuristic field mappings.
package assistant

import (
	"context"

	"visa-eligibility-workers/internal/models"
)

// Structurer restructures a batch of requirements for one visa type. It may
// return fewer, more, or reordered items than it was given, and it may fail
// outright; callers must tolerate all three.
type Structurer interface {
	Structure(ctx context.Context, visaType string, candidates []models.Requirement) ([]models.Requirement, error)
}
