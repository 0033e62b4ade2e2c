// internal/workers/eligibility/evaluate-eligibility/models.go
package evaluateeligibility

import "visa-eligibility-workers/internal/models"

type Input struct {
	VisaType string                  `json:"visaType"`
	Profile  models.ApplicantProfile `json:"profile"`
}

type Output struct {
	Assessment models.Assessment `json:"assessment"`
}
