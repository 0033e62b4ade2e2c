// internal/scoring/scorer.go

// Package scoring turns an eligibility evaluation into a 0-100 fit score and
// next-step recommendations.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/visatypes"
)

const (
	eligibleBase   = 70
	ineligibleBase = 30

	maxBonus          = 20
	maxMissingPenalty = 30
	missingPenalty    = 5
)

// Scorer computes scores and recommendations. Stateless; safe for concurrent
// use.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score maps an evaluation plus the underlying profile to an integer in
// [0,100]. The base reflects the verdict, the met ratio can only raise it,
// profile strength adds a capped bonus, and each missing required criterion
// subtracts a capped penalty.
func (s *Scorer) Score(evaluation models.Evaluation, profile models.ApplicantProfile) int {
	score := float64(ineligibleBase)
	if evaluation.IsEligible {
		score = eligibleBase
	}

	total := len(evaluation.MetRequirements) + len(evaluation.MissingRequirements)
	if total > 0 {
		metRatio := float64(len(evaluation.MetRequirements)) / float64(total)
		score = math.Max(score, metRatio*100)
	}

	score += float64(s.bonusPoints(profile, evaluation.VisaType))

	if len(evaluation.MissingRequirements) > 0 {
		penalty := math.Min(float64(len(evaluation.MissingRequirements)*missingPenalty), maxMissingPenalty)
		score = math.Max(0, score-penalty)
	}

	return int(math.Round(math.Min(100, math.Max(0, score))))
}

// bonusPoints rewards profile strength, capped so bonuses refine rather than
// dominate the score.
func (s *Scorer) bonusPoints(profile models.ApplicantProfile, visaType string) int {
	bonus := 0

	if len(profile.Education.Degrees) > 0 {
		if hasAdvancedDegree(profile.Education.Degrees) {
			bonus += 10
		} else {
			bonus += 5
		}
	}

	years := profile.Employment.YearsOfExperience
	if years >= 5 {
		bonus += 10
	} else if years >= 3 {
		bonus += 5
	}

	if profile.Financial.Income != nil || profile.Financial.Assets != nil {
		bonus += 5
	}

	switch visatypes.Normalize(visaType) {
	case visatypes.H1B:
		if profile.Employment.CurrentSalary != nil {
			salary := *profile.Employment.CurrentSalary
			if salary > 100000 {
				bonus += 10
			} else if salary > 75000 {
				bonus += 5
			}
		}
	case visatypes.EB1:
		if len(profile.Education.Degrees) > 0 {
			bonus += 5
		}
	}

	if bonus > maxBonus {
		bonus = maxBonus
	}
	return bonus
}

func hasAdvancedDegree(degrees []string) bool {
	for _, degree := range degrees {
		lower := strings.ToLower(degree)
		if strings.Contains(lower, "master") ||
			strings.Contains(lower, "phd") ||
			strings.Contains(lower, "doctorate") {
			return true
		}
	}
	return false
}

// Recommendations builds the ordered next-step list: missing-requirement
// count first, visa-specific gaps next, a professional-advice entry last
// when the score is weak. Identical inputs always yield the same list.
func (s *Scorer) Recommendations(evaluation models.Evaluation, profile models.ApplicantProfile, score int) []string {
	recommendations := []string{}

	if len(evaluation.MissingRequirements) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Missing %d required criteria. Please provide additional documentation.",
			len(evaluation.MissingRequirements),
		))
	}

	switch visatypes.Normalize(evaluation.VisaType) {
	case visatypes.H1B:
		if !profile.Employment.HasJobOffer {
			recommendations = append(recommendations, "Obtain a job offer from a US employer.")
		}
		if len(profile.Education.Degrees) == 0 {
			recommendations = append(recommendations, "Provide educational degree certificates.")
		}
	case visatypes.F1:
		if len(profile.Education.Institutions) == 0 {
			recommendations = append(recommendations, "Provide acceptance letter from SEVP-certified school.")
		}
		if profile.Financial.Income == nil && profile.Financial.Assets == nil {
			recommendations = append(recommendations, "Provide proof of sufficient financial support.")
		}
	case visatypes.B2:
		if profile.Financial.Income == nil && profile.Financial.Assets == nil {
			recommendations = append(recommendations, "Provide proof of sufficient funds for travel.")
		}
		recommendations = append(recommendations, "Provide evidence of ties to home country.")
	}

	if score < 50 {
		recommendations = append(recommendations, "Consider consulting with an immigration attorney for guidance.")
	}

	return recommendations
}

// Assess bundles an evaluation with its score and recommendations.
func (s *Scorer) Assess(evaluation models.Evaluation, profile models.ApplicantProfile) models.Assessment {
	score := s.Score(evaluation, profile)
	return models.Assessment{
		Evaluation:      evaluation,
		Score:           score,
		Recommendations: s.Recommendations(evaluation, profile, score),
	}
}
