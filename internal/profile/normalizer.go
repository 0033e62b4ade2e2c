// internal/profile/normalizer.go

// Package profile merges raw extracted-document fragments into the canonical
// applicant profile consumed by the eligibility evaluator.
package profile

import (
	"regexp"
	"strconv"
	"strings"

	"visa-eligibility-workers/internal/models"
)

var nonNumericPattern = regexp.MustCompile(`[^0-9.]`)

// degreeLevels maps degree-name keywords to canonical education levels,
// highest first. Abbreviated forms cover the common resume spellings.
var degreeLevels = []struct {
	level    string
	keywords []string
}{
	{models.EducationPhD, []string{"phd", "doctorate", "ph.d"}},
	{models.EducationMaster, []string{"master", "m.s", "mba", "m.a"}},
	{models.EducationBachelor, []string{"bachelor", "b.s", "b.a", "b.tech"}},
	{models.EducationDiploma, []string{"diploma", "certificate"}},
}

// Normalizer builds canonical applicant profiles from document fragments.
// It is stateless; Normalize is safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize merges fragments in order (later fragments overwrite scalar
// fields, array fields are concatenated) and recomputes every derived field
// from the combined data. Normalizing an already-normalized profile yields
// the same profile.
func (n *Normalizer) Normalize(fragments ...models.ProfileFragment) models.ApplicantProfile {
	var profile models.ApplicantProfile

	personal := mergeMaps(sectionMaps(fragments, func(f models.ProfileFragment) map[string]interface{} { return f.PersonalInfo }))
	education := sectionMaps(fragments, func(f models.ProfileFragment) map[string]interface{} { return f.Education })
	employment := sectionMaps(fragments, func(f models.ProfileFragment) map[string]interface{} { return f.Employment })
	financial := mergeMaps(sectionMaps(fragments, func(f models.ProfileFragment) map[string]interface{} { return f.Financial }))
	other := mergeMaps(sectionMaps(fragments, func(f models.ProfileFragment) map[string]interface{} { return f.Other }))

	profile.PersonalInfo = n.normalizePersonal(personal)
	profile.Education = n.normalizeEducation(concatStrings(education, "degrees"), concatStrings(education, "institutions"), concatNumbers(education, "years"))
	profile.Employment = n.normalizeEmployment(mergeMaps(employment), concatStrings(employment, "companies"), concatStrings(employment, "positions"))
	profile.Financial = n.normalizeFinancial(financial)
	profile.Other = other

	return profile
}

func (n *Normalizer) normalizePersonal(section map[string]interface{}) models.PersonalInfo {
	passportNumber := stringField(section, "passportNumber")
	return models.PersonalInfo{
		Name:           stringField(section, "name"),
		DateOfBirth:    stringField(section, "dateOfBirth"),
		Nationality:    stringField(section, "nationality"),
		PassportNumber: passportNumber,
		HasPassport:    passportNumber != "",
	}
}

func (n *Normalizer) normalizeEducation(degrees, institutions []string, years []float64) models.Education {
	level := EducationLevelFromDegrees(degrees)
	return models.Education{
		Degrees:        degrees,
		Institutions:   institutions,
		Years:          years,
		EducationLevel: level,
		HighestDegree:  level,
	}
}

func (n *Normalizer) normalizeEmployment(section map[string]interface{}, companies, positions []string) models.Employment {
	salary := numberField(section, "currentSalary")
	if salary == nil {
		salary = numberField(section, "salary")
	}

	explicit := 0
	if v := numberField(section, "yearsOfExperience"); v != nil {
		explicit = int(*v)
	}
	years := explicit
	if len(companies) > 0 {
		if estimate := len(companies) * 2; estimate > years {
			years = estimate
		}
		if years < 1 {
			years = 1
		}
	}

	hasOffer, hasOfferSet := boolField(section, "hasJobOffer")
	if !hasOfferSet {
		hasOffer = len(companies) > 0 || len(positions) > 0 || salary != nil
	}

	return models.Employment{
		Companies:         companies,
		Positions:         positions,
		YearsOfExperience: years,
		HasJobOffer:       hasOffer,
		CurrentSalary:     salary,
	}
}

func (n *Normalizer) normalizeFinancial(section map[string]interface{}) models.Financial {
	income := numberField(section, "income")
	assets := numberField(section, "assets")
	bankStatements, _ := boolField(section, "bankStatements")

	support, supportSet := boolField(section, "financialSupport")
	if !supportSet {
		support = (income != nil && *income > 0) || (assets != nil && *assets > 0) || bankStatements
	}

	return models.Financial{
		Income:           income,
		Assets:           assets,
		FinancialSupport: support,
		BankStatements:   bankStatements,
	}
}

// EducationLevelFromDegrees returns the highest canonical level named in the
// combined degrees list, or empty when none match.
func EducationLevelFromDegrees(degrees []string) string {
	if len(degrees) == 0 {
		return ""
	}
	combined := strings.ToLower(strings.Join(degrees, " "))
	for _, entry := range degreeLevels {
		for _, keyword := range entry.keywords {
			if strings.Contains(combined, keyword) {
				return entry.level
			}
		}
	}
	return ""
}

// ParseAmount strips currency symbols and separators from a monetary value
// and parses what remains as a float. Nil means unparsable or absent.
func ParseAmount(value interface{}) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		cleaned := nonNumericPattern.ReplaceAllString(v, "")
		if cleaned == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

func sectionMaps(fragments []models.ProfileFragment, pick func(models.ProfileFragment) map[string]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(fragments))
	for _, fragment := range fragments {
		if section := pick(fragment); section != nil {
			out = append(out, section)
		}
	}
	return out
}

func mergeMaps(sections []map[string]interface{}) map[string]interface{} {
	if len(sections) == 0 {
		return nil
	}
	merged := make(map[string]interface{})
	for _, section := range sections {
		for k, v := range section {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// concatStrings joins a string-array field across fragment sections in
// fragment order, preserving duplicates.
func concatStrings(sections []map[string]interface{}, key string) []string {
	var out []string
	for _, section := range sections {
		raw, ok := section[key]
		if !ok {
			continue
		}
		switch items := raw.(type) {
		case []string:
			out = append(out, items...)
		case []interface{}:
			for _, item := range items {
				switch v := item.(type) {
				case string:
					out = append(out, v)
				case float64:
					out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
				case int:
					out = append(out, strconv.Itoa(v))
				}
			}
		}
	}
	return out
}

// concatNumbers joins a numeric-array field across fragment sections,
// coercing string entries where possible.
func concatNumbers(sections []map[string]interface{}, key string) []float64 {
	var out []float64
	for _, section := range sections {
		raw, ok := section[key]
		if !ok {
			continue
		}
		switch items := raw.(type) {
		case []float64:
			out = append(out, items...)
		case []interface{}:
			for _, item := range items {
				if parsed := ParseAmount(item); parsed != nil {
					out = append(out, *parsed)
				}
			}
		}
	}
	return out
}

func stringField(section map[string]interface{}, key string) string {
	if section == nil {
		return ""
	}
	if v, ok := section[key].(string); ok {
		return v
	}
	return ""
}

func numberField(section map[string]interface{}, key string) *float64 {
	if section == nil {
		return nil
	}
	raw, ok := section[key]
	if !ok {
		return nil
	}
	return ParseAmount(raw)
}

// boolField returns the value and whether the key was present as a bool.
func boolField(section map[string]interface{}, key string) (bool, bool) {
	if section == nil {
		return false, false
	}
	v, ok := section[key].(bool)
	return v, ok
}
