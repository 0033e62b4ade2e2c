// internal/rules/mapper/mapper.go
package mapper

import (
	"regexp"
	"strconv"
	"strings"

	"visa-eligibility-workers/internal/models"
)

var yearsPattern = regexp.MustCompile(`(\d+)\s*year`)

// Rule is one keyword-to-field inference. Rules are tried in order; the first
// whose keywords match fills the requirement's field, operator and value.
type Rule struct {
	Keywords []string
	Field    string
	Operator string
	Value    interface{}

	// Extract, when set, derives the value from the description instead of
	// using the static Value. Returning false means the rule does not apply.
	Extract func(lowerDescription string) (interface{}, bool)
}

// DefaultRules returns the inference table for USCIS requirement text,
// ordered most-specific first.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"bachelor"},
			Field:    "educationLevel",
			Operator: models.OpGreaterEqual,
			Value:    models.EducationBachelor,
		},
		{
			Keywords: []string{"master"},
			Field:    "educationLevel",
			Operator: models.OpGreaterEqual,
			Value:    models.EducationMaster,
		},
		{
			Keywords: []string{"degree", "education"},
			Field:    "educationLevel",
			Operator: models.OpExists,
			Value:    true,
		},
		{
			Keywords: []string{"job offer", "employer", "employment"},
			Field:    "hasJobOffer",
			Operator: models.OpEqual,
			Value:    true,
		},
		{
			Keywords: []string{"experience"},
			Field:    "yearsOfExperience",
			Operator: models.OpGreaterEqual,
			Extract:  extractYears,
		},
		{
			Keywords: []string{"financial", "fund", "income", "salary"},
			Field:    "financialSupport",
			Operator: models.OpExists,
			Value:    true,
		},
		{
			Keywords: []string{"passport"},
			Field:    "hasPassport",
			Operator: models.OpExists,
			Value:    true,
		},
	}
}

func extractYears(lowerDescription string) (interface{}, bool) {
	match := yearsPattern.FindStringSubmatch(lowerDescription)
	if match == nil {
		return nil, false
	}
	years, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, false
	}
	return years, true
}

// Mapper fills in field, operator, value and weight on requirements that
// lack them. Already-set values are never overwritten, so running the mapper
// twice is a no-op after the first pass.
type Mapper struct {
	rules []Rule
}

// New creates a Mapper with the given inference rules.
func New(rules []Rule) *Mapper {
	return &Mapper{rules: rules}
}

// NewDefault creates a Mapper with the built-in rule table.
func NewDefault() *Mapper {
	return New(DefaultRules())
}

// Map annotates every requirement in place and returns the slice.
func (m *Mapper) Map(requirements []models.Requirement) []models.Requirement {
	for i := range requirements {
		requirements[i] = m.mapOne(requirements[i])
	}
	return requirements
}

func (m *Mapper) mapOne(req models.Requirement) models.Requirement {
	lower := strings.ToLower(req.Description)

	if req.Field == "" {
		for _, rule := range m.rules {
			if !containsAny(lower, rule.Keywords) {
				continue
			}
			value := rule.Value
			if rule.Extract != nil {
				extracted, ok := rule.Extract(lower)
				if !ok {
					continue
				}
				value = extracted
			}
			req.Field = rule.Field
			if req.Operator == "" {
				req.Operator = rule.Operator
				if req.Value == nil {
					req.Value = value
				}
			}
			break
		}
	}

	if req.Weight == 0 {
		req.Weight = weightFor(lower)
		req.Required = req.Required || req.Weight >= models.RequiredWeightThreshold
	}

	if req.Category == "" {
		req.Category = categoryFor(req.Field)
	}

	return req
}

func weightFor(lowerDescription string) int {
	if containsAny(lowerDescription, []string{"must", "required", "mandatory"}) {
		return models.CriticalWeight
	}
	if containsAny(lowerDescription, []string{"should", "preferred"}) {
		return models.PreferredWeight
	}
	return models.DefaultWeight
}

// categoryFor derives a section from the inferred field when the source gave
// no category at all.
func categoryFor(field string) string {
	switch field {
	case "educationLevel":
		return models.CategoryEducation
	case "hasJobOffer":
		return models.CategoryEmployment
	case "yearsOfExperience":
		return models.CategoryExperience
	case "financialSupport":
		return models.CategoryFinancial
	case "hasPassport":
		return models.CategoryDocumentation
	default:
		return models.CategoryGeneral
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
