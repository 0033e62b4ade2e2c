// internal/models/requirement.go
package models

import "time"

// Requirement weight thresholds. A requirement whose weight reaches
// CriticalWeight is treated as required unless the source said otherwise.
const (
	CriticalWeight  = 10
	PreferredWeight = 5
	DefaultWeight   = 1

	RequiredWeightThreshold = 8
)

// Candidate is one raw requirement string as delivered by the page fetcher,
// before any cleaning. Required is a pointer so an explicit false from the
// source can be told apart from "not stated".
type Candidate struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Required    *bool  `json:"required,omitempty"`
}

// Requirement is a single eligibility criterion. Field, when set, is a
// dot-path (or known alias) into the applicant profile; Operator must be set
// whenever Field is.
type Requirement struct {
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Field       string      `json:"field,omitempty"`
	Operator    string      `json:"operator,omitempty"`
	Value       interface{} `json:"value,omitempty"`
	Weight      int         `json:"weight"`
}

// Comparison operators understood by the evaluator.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpIncludes     = "includes"
	OpExists       = "exists"
)

// Requirement categories used for section grouping.
const (
	CategoryEducation     = "education"
	CategoryEmployment    = "employment"
	CategoryFinancial     = "financial"
	CategoryDocumentation = "documentation"
	CategoryExperience    = "experience"
	CategoryGeneral       = "general"
)

// VisaRuleSet is the full versioned requirement collection for one visa type.
// It is replaced wholesale on every extraction run; there are no partial
// updates.
type VisaRuleSet struct {
	VisaType              string                   `json:"visaType"`
	Requirements          []Requirement            `json:"requirements"`
	RequirementsBySection map[string][]Requirement `json:"requirementsBySection,omitempty"`
	SourceURL             string                   `json:"sourceUrl,omitempty"`
	LastUpdated           time.Time                `json:"lastUpdated"`
	Version               string                   `json:"version"`
}

// RuleSetSummary is the listing projection of a stored rule set.
type RuleSetSummary struct {
	VisaType    string    `json:"visaType"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}

// GroupBySection buckets requirements by category. Unknown categories land in
// the general bucket; empty buckets are omitted.
func GroupBySection(requirements []Requirement) map[string][]Requirement {
	known := map[string]bool{
		CategoryEducation:     true,
		CategoryEmployment:    true,
		CategoryFinancial:     true,
		CategoryDocumentation: true,
		CategoryExperience:    true,
		CategoryGeneral:       true,
	}

	grouped := make(map[string][]Requirement)
	for _, req := range requirements {
		category := req.Category
		if category == "" || !known[category] {
			category = CategoryGeneral
		}
		grouped[category] = append(grouped[category], req)
	}
	return grouped
}
