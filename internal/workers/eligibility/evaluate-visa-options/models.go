// internal/workers/eligibility/evaluate-visa-options/models.go
package evaluatevisaoptions

import "visa-eligibility-workers/internal/models"

type Input struct {
	Profile   models.ApplicantProfile `json:"profile"`
	VisaTypes []string                `json:"visaTypes,omitempty"`
}

type Output struct {
	Assessments []models.Assessment `json:"assessments"`
	Evaluated   int                 `json:"evaluated"`
	Skipped     int                 `json:"skipped"`
	BestOption  string              `json:"bestOption,omitempty"`
	BestScore   int                 `json:"bestScore"`
}
