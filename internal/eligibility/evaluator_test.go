// internal/eligibility/evaluator_test.go
package eligibility

import (
	"testing"

	"visa-eligibility-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func requirement(field, operator string, value interface{}, required bool) models.Requirement {
	return models.Requirement{
		Description: "test requirement for " + field,
		Field:       field,
		Operator:    operator,
		Value:       value,
		Required:    required,
		Weight:      models.CriticalWeight,
	}
}

func ruleSetWith(requirements ...models.Requirement) models.VisaRuleSet {
	return models.VisaRuleSet{VisaType: "H-1B", Requirements: requirements}
}

func TestEvaluate_EducationLevelOrdinal(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name     string
		level    string
		operator string
		value    interface{}
		wantMet  bool
	}{
		{"bachelor meets bachelor minimum", models.EducationBachelor, models.OpGreaterEqual, models.EducationBachelor, true},
		{"master exceeds bachelor minimum", models.EducationMaster, models.OpGreaterEqual, models.EducationBachelor, true},
		{"diploma below bachelor minimum", models.EducationDiploma, models.OpGreaterEqual, models.EducationBachelor, false},
		{"phd above master", models.EducationPhD, models.OpGreater, models.EducationMaster, true},
		{"bachelor at most master", models.EducationBachelor, models.OpLessEqual, models.EducationMaster, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := models.ApplicantProfile{
				Education: models.Education{EducationLevel: tt.level},
			}
			result := e.Evaluate(ruleSetWith(requirement("educationLevel", tt.operator, tt.value, true)), profile)
			assert.Equal(t, tt.wantMet, result.Criteria["educationLevel"].Met)
			assert.Equal(t, tt.wantMet, result.IsEligible)
		})
	}
}

func TestEvaluate_NumericComparison(t *testing.T) {
	e := NewEvaluator()
	profile := models.ApplicantProfile{
		Employment: models.Employment{
			YearsOfExperience: 5,
			CurrentSalary:     floatPtr(120000),
			HasJobOffer:       true,
		},
	}

	result := e.Evaluate(ruleSetWith(
		requirement("yearsOfExperience", models.OpGreaterEqual, 3, true),
		requirement("salary", models.OpGreater, 100000, true),
		requirement("hasJobOffer", models.OpEqual, true, true),
	), profile)

	assert.True(t, result.IsEligible)
	assert.Len(t, result.MetRequirements, 3)
	assert.Empty(t, result.MissingRequirements)
}

func TestEvaluate_UnresolvedFieldIsNotMet(t *testing.T) {
	e := NewEvaluator()

	result := e.Evaluate(ruleSetWith(
		requirement("salary", models.OpGreater, 100000, true),
	), models.ApplicantProfile{})

	criterion := result.Criteria["salary"]
	assert.False(t, criterion.Met)
	assert.Nil(t, criterion.Value)
	assert.False(t, result.IsEligible)
}

func TestEvaluate_OptionalUnmetDoesNotBlock(t *testing.T) {
	e := NewEvaluator()
	profile := models.ApplicantProfile{
		Employment: models.Employment{HasJobOffer: true},
	}

	result := e.Evaluate(ruleSetWith(
		requirement("hasJobOffer", models.OpEqual, true, true),
		requirement("yearsOfExperience", models.OpGreaterEqual, 10, false),
	), profile)

	assert.True(t, result.IsEligible)
	assert.Empty(t, result.MissingRequirements)
	assert.Len(t, result.MetRequirements, 1)
}

func TestEvaluate_ExistsOperator(t *testing.T) {
	e := NewEvaluator()
	profile := models.ApplicantProfile{
		Financial: models.Financial{Income: floatPtr(50000)},
	}

	result := e.Evaluate(ruleSetWith(
		requirement("income", models.OpExists, nil, true),
		requirement("assets", models.OpExists, nil, true),
	), profile)

	assert.True(t, result.Criteria["income"].Met)
	assert.False(t, result.Criteria["assets"].Met)
}

func TestEvaluate_IncludesOperator(t *testing.T) {
	e := NewEvaluator()
	profile := models.ApplicantProfile{
		Education: models.Education{
			Degrees:        []string{"B.S. Computer Science", "M.S. Data Science"},
			EducationLevel: models.EducationMaster,
		},
	}

	result := e.Evaluate(ruleSetWith(
		requirement("degrees", models.OpIncludes, "M.S. Data Science", true),
	), profile)

	assert.True(t, result.Criteria["degrees"].Met)
}

func TestEvaluate_NoOperatorUsesTruthiness(t *testing.T) {
	e := NewEvaluator()

	withOffer := models.ApplicantProfile{Employment: models.Employment{HasJobOffer: true}}
	withoutOffer := models.ApplicantProfile{}

	req := models.Requirement{
		Description: "job offer on file",
		Field:       "hasJobOffer",
		Required:    true,
	}

	assert.True(t, e.Evaluate(ruleSetWith(req), withOffer).IsEligible)
	assert.False(t, e.Evaluate(ruleSetWith(req), withoutOffer).IsEligible)
}

func TestEvaluate_UnmappedRequirementProbesDescription(t *testing.T) {
	e := NewEvaluator()
	profile := models.ApplicantProfile{
		PersonalInfo: models.PersonalInfo{Nationality: "Indian"},
	}

	matching := models.Requirement{
		// Short description, so the whole probe must appear in the
		// serialized profile. "indian" does.
		Description: "Indian",
		Required:    true,
	}
	nonMatching := models.Requirement{
		Description: "labor certification from the department of labor",
		Required:    true,
	}

	result := e.Evaluate(ruleSetWith(matching, nonMatching), profile)

	assert.Len(t, result.MetRequirements, 1)
	assert.Len(t, result.MissingRequirements, 1)
	assert.False(t, result.IsEligible)
}

func TestEvaluate_CriteriaKeyedByCategoryWhenNoField(t *testing.T) {
	e := NewEvaluator()

	req := models.Requirement{
		Description: "labor certification from the department of labor",
		Category:    models.CategoryDocumentation,
		Required:    false,
	}

	result := e.Evaluate(ruleSetWith(req), models.ApplicantProfile{})

	_, ok := result.Criteria[models.CategoryDocumentation]
	assert.True(t, ok)
}

func TestEvaluate_DetailsMessages(t *testing.T) {
	e := NewEvaluator()
	profile := models.ApplicantProfile{
		Employment: models.Employment{HasJobOffer: true},
	}

	eligible := e.Evaluate(ruleSetWith(
		requirement("hasJobOffer", models.OpEqual, true, true),
	), profile)
	assert.Equal(t, "Meets all 1 required criteria for H-1B", eligible.Details)

	ineligible := e.Evaluate(ruleSetWith(
		requirement("hasJobOffer", models.OpEqual, true, true),
		requirement("salary", models.OpGreater, 100000, true),
	), models.ApplicantProfile{})
	assert.Equal(t, "Missing 2 required criteria for H-1B", ineligible.Details)
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := NewEvaluator()
	ruleSet := ruleSetWith(
		requirement("educationLevel", models.OpGreaterEqual, models.EducationBachelor, true),
		requirement("yearsOfExperience", models.OpGreaterEqual, 3, false),
	)
	profile := models.ApplicantProfile{
		Education:  models.Education{EducationLevel: models.EducationMaster},
		Employment: models.Employment{YearsOfExperience: 4},
	}

	first := e.Evaluate(ruleSet, profile)
	second := e.Evaluate(ruleSet, profile)
	assert.Equal(t, first, second)
}
