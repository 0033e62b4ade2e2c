// internal/models/evaluation.go
package models

// CriterionResult records the outcome of evaluating one requirement against
// a profile. Value is the resolved profile value, when one was found.
type CriterionResult struct {
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Met         bool        `json:"met"`
	Value       interface{} `json:"value,omitempty"`
}

// Evaluation is the per-visa-type verdict. MissingRequirements lists only
// required criteria that were not met; optional misses affect the score but
// never eligibility.
type Evaluation struct {
	VisaType            string                     `json:"visaType"`
	IsEligible          bool                       `json:"isEligible"`
	Criteria            map[string]CriterionResult `json:"criteria"`
	MetRequirements     []string                   `json:"metRequirements"`
	MissingRequirements []string                   `json:"missingRequirements"`
	Details             string                     `json:"details,omitempty"`
}

// Assessment decorates an evaluation with a fit score and next-step
// recommendations.
type Assessment struct {
	Evaluation
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}
