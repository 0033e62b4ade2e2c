// internal/eligibility/evaluator.go

// Package eligibility evaluates normalized applicant profiles against stored
// visa rule sets.
package eligibility

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"visa-eligibility-workers/internal/models"
)

// Evaluator applies a rule set to a profile. It is stateless and safe for
// concurrent use; identical inputs always produce identical evaluations.
type Evaluator struct{}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate checks every requirement in the rule set against the profile.
// A profile is eligible when every required requirement is met; optional
// requirements only influence the met list (and therefore the score).
func (e *Evaluator) Evaluate(ruleSet models.VisaRuleSet, profile models.ApplicantProfile) models.Evaluation {
	evaluation := models.Evaluation{
		VisaType:            ruleSet.VisaType,
		IsEligible:          true,
		Criteria:            make(map[string]models.CriterionResult, len(ruleSet.Requirements)),
		MetRequirements:     []string{},
		MissingRequirements: []string{},
	}

	serialized := serializeProfile(profile)

	for _, req := range ruleSet.Requirements {
		value, resolved := resolveRequirement(req, profile, serialized)

		met := false
		if resolved {
			met = applyOperator(req, value)
		}

		key := req.Field
		if key == "" {
			key = req.Category
		}
		evaluation.Criteria[key] = models.CriterionResult{
			Description: req.Description,
			Required:    req.Required,
			Met:         met,
			Value:       value,
		}

		if met {
			evaluation.MetRequirements = append(evaluation.MetRequirements, req.Description)
		} else if req.Required {
			evaluation.MissingRequirements = append(evaluation.MissingRequirements, req.Description)
			evaluation.IsEligible = false
		}
	}

	// Re-derive the verdict from the missing list so it can never disagree
	// with the per-requirement bookkeeping above.
	evaluation.IsEligible = len(evaluation.MissingRequirements) == 0

	if evaluation.IsEligible {
		evaluation.Details = fmt.Sprintf("Meets all %d required criteria for %s", countRequired(ruleSet.Requirements), ruleSet.VisaType)
	} else {
		evaluation.Details = fmt.Sprintf("Missing %d required criteria for %s", len(evaluation.MissingRequirements), ruleSet.VisaType)
	}

	return evaluation
}

// resolveRequirement finds the profile value a requirement constrains. When
// the requirement carries no field mapping, it falls back to a substring
// probe of the serialized profile. That fallback is low-confidence and only
// exists so unmapped requirements degrade to "not met" rather than erroring.
func resolveRequirement(req models.Requirement, profile models.ApplicantProfile, serialized string) (interface{}, bool) {
	if req.Field == "" {
		probe := strings.ToLower(req.Description)
		if len(probe) > 20 {
			probe = probe[:20]
		}
		probe = strings.TrimSpace(probe)
		if probe == "" {
			return nil, false
		}
		if strings.Contains(serialized, probe) {
			return true, true
		}
		return nil, false
	}

	value, ok := profile.Resolve(req.Field)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// applyOperator applies the requirement's comparison to a resolved value.
func applyOperator(req models.Requirement, value interface{}) bool {
	switch req.Operator {
	case models.OpEqual:
		return looseEqual(value, req.Value)
	case models.OpNotEqual:
		return !looseEqual(value, req.Value)
	case models.OpGreater, models.OpLess, models.OpGreaterEqual, models.OpLessEqual:
		return compareOrdered(req, value)
	case models.OpIncludes:
		return includes(value, req.Value)
	case models.OpExists:
		return value != nil
	default:
		// No operator: treat the mere presence of a truthy value as met.
		return truthy(value)
	}
}

func compareOrdered(req models.Requirement, value interface{}) bool {
	// Education levels compare by attainment order, never lexicographically.
	if req.Field == "educationLevel" || isEducationLevel(req.Value) {
		left := models.EducationRank(fmt.Sprint(value))
		right := models.EducationRank(fmt.Sprint(req.Value))
		return compareInts(req.Operator, left, right)
	}

	leftNum, leftOK := toFloat(value)
	rightNum, rightOK := toFloat(req.Value)
	if leftOK && rightOK {
		return compareFloats(req.Operator, leftNum, rightNum)
	}

	// Fall back to string comparison for non-numeric operands.
	return compareStrings(req.Operator, fmt.Sprint(value), fmt.Sprint(req.Value))
}

func compareInts(operator string, left, right int) bool {
	return compareFloats(operator, float64(left), float64(right))
}

func compareFloats(operator string, left, right float64) bool {
	switch operator {
	case models.OpGreater:
		return left > right
	case models.OpLess:
		return left < right
	case models.OpGreaterEqual:
		return left >= right
	case models.OpLessEqual:
		return left <= right
	}
	return false
}

func compareStrings(operator, left, right string) bool {
	switch operator {
	case models.OpGreater:
		return left > right
	case models.OpLess:
		return left < right
	case models.OpGreaterEqual:
		return left >= right
	case models.OpLessEqual:
		return left <= right
	}
	return false
}

// looseEqual compares numerically when both sides coerce to numbers and by
// string form otherwise, mirroring how requirement values arrive as untyped
// JSON.
func looseEqual(left, right interface{}) bool {
	if leftNum, ok := toFloat(left); ok {
		if rightNum, ok := toFloat(right); ok {
			return leftNum == rightNum
		}
	}
	if leftBool, ok := left.(bool); ok {
		if rightBool, ok := right.(bool); ok {
			return leftBool == rightBool
		}
	}
	return fmt.Sprint(left) == fmt.Sprint(right)
}

// includes is a membership test for sequences and a substring test otherwise.
func includes(value, target interface{}) bool {
	switch seq := value.(type) {
	case []string:
		for _, item := range seq {
			if looseEqual(item, target) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, item := range seq {
			if looseEqual(item, target) {
				return true
			}
		}
		return false
	default:
		return strings.Contains(
			strings.ToLower(fmt.Sprint(value)),
			strings.ToLower(fmt.Sprint(target)),
		)
	}
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func isEducationLevel(value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(s) {
	case models.EducationNone, models.EducationDiploma, models.EducationBachelor,
		models.EducationMaster, models.EducationPhD:
		return true
	}
	return false
}

func countRequired(requirements []models.Requirement) int {
	count := 0
	for _, req := range requirements {
		if req.Required {
			count++
		}
	}
	return count
}

func serializeProfile(profile models.ApplicantProfile) string {
	raw, err := json.Marshal(profile)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(raw))
}
