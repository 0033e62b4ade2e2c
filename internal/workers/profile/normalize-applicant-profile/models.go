// internal/workers/profile/normalize-applicant-profile/models.go
package normalizeapplicantprofile

import "visa-eligibility-workers/internal/models"

type Input struct {
	ApplicantID string                   `json:"applicantId,omitempty"`
	Fragments   []models.ProfileFragment `json:"fragments"`
}

type Output struct {
	ApplicantID string                  `json:"applicantId,omitempty"`
	Profile     models.ApplicantProfile `json:"profile"`
}
