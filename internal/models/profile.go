// internal/models/profile.go
package models

import (
	"encoding/json"
	"strings"
)

// Education levels in ascending order of attainment.
const (
	EducationNone     = "none"
	EducationDiploma  = "diploma"
	EducationBachelor = "bachelor"
	EducationMaster   = "master"
	EducationPhD      = "phd"
)

// EducationRank maps an education level to its ordinal for >= / <=
// comparisons. Unknown levels rank as none.
func EducationRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case EducationPhD:
		return 4
	case EducationMaster:
		return 3
	case EducationBachelor:
		return 2
	case EducationDiploma:
		return 1
	default:
		return 0
	}
}

// PersonalInfo holds identity fields from the applicant's submission.
type PersonalInfo struct {
	Name           string `json:"name,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	PassportNumber string `json:"passportNumber,omitempty"`
	HasPassport    bool   `json:"hasPassport"`
}

// Education aggregates all degree information across fragments.
type Education struct {
	Degrees        []string  `json:"degrees,omitempty"`
	Institutions   []string  `json:"institutions,omitempty"`
	Years          []float64 `json:"years,omitempty"`
	EducationLevel string    `json:"educationLevel,omitempty"`
	HighestDegree  string    `json:"highestDegree,omitempty"`
}

// Employment aggregates work history and job-offer status.
type Employment struct {
	Companies         []string `json:"companies,omitempty"`
	Positions         []string `json:"positions,omitempty"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	HasJobOffer       bool     `json:"hasJobOffer"`
	CurrentSalary     *float64 `json:"currentSalary,omitempty"`
}

// Financial aggregates declared income, assets and supporting documents.
type Financial struct {
	Income           *float64 `json:"income,omitempty"`
	Assets           *float64 `json:"assets,omitempty"`
	FinancialSupport bool     `json:"financialSupport"`
	BankStatements   bool     `json:"bankStatements"`
}

// ApplicantProfile is the normalized, evaluation-ready view of an applicant.
// Fields not covered by the typed sections survive in Other.
type ApplicantProfile struct {
	PersonalInfo PersonalInfo           `json:"personalInfo"`
	Education    Education              `json:"education"`
	Employment   Employment             `json:"employment"`
	Financial    Financial              `json:"financial"`
	Other        map[string]interface{} `json:"other,omitempty"`
}

// ProfileFragment is one raw input document (form submission, resume parse,
// bank upload). Sections are loose maps because fragment shapes vary by
// source.
type ProfileFragment struct {
	PersonalInfo map[string]interface{} `json:"personalInfo,omitempty"`
	Education    map[string]interface{} `json:"education,omitempty"`
	Employment   map[string]interface{} `json:"employment,omitempty"`
	Financial    map[string]interface{} `json:"financial,omitempty"`
	Other        map[string]interface{} `json:"other,omitempty"`
}

// AsFragment converts a normalized profile back into fragment form so that
// re-normalization is possible (and idempotent). Conversion goes through JSON
// so the section maps match the wire shape exactly.
func (p ApplicantProfile) AsFragment() ProfileFragment {
	var fragment ProfileFragment
	raw, err := json.Marshal(p)
	if err != nil {
		return fragment
	}
	var sections struct {
		PersonalInfo map[string]interface{} `json:"personalInfo"`
		Education    map[string]interface{} `json:"education"`
		Employment   map[string]interface{} `json:"employment"`
		Financial    map[string]interface{} `json:"financial"`
		Other        map[string]interface{} `json:"other"`
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return fragment
	}
	fragment.PersonalInfo = sections.PersonalInfo
	fragment.Education = sections.Education
	fragment.Employment = sections.Employment
	fragment.Financial = sections.Financial
	fragment.Other = sections.Other
	return fragment
}

// fieldAliases maps bare requirement field names to their section paths.
// Requirement authors (and the field mapper) use the short names; resolution
// happens against the typed sections.
var fieldAliases = map[string]string{
	"educationLevel":    "education.educationLevel",
	"highestDegree":     "education.highestDegree",
	"degrees":           "education.degrees",
	"institutions":      "education.institutions",
	"yearsOfExperience": "employment.yearsOfExperience",
	"hasJobOffer":       "employment.hasJobOffer",
	"companies":         "employment.companies",
	"positions":         "employment.positions",
	"salary":            "employment.currentSalary",
	"currentSalary":     "employment.currentSalary",
	"wage":              "employment.currentSalary",
	"financialSupport":  "financial.financialSupport",
	"income":            "financial.income",
	"assets":            "financial.assets",
	"funds":             "financial.assets",
	"bankStatements":    "financial.bankStatements",
	"hasPassport":       "personalInfo.hasPassport",
	"passportNumber":    "personalInfo.passportNumber",
	"name":              "personalInfo.name",
	"nationality":       "personalInfo.nationality",
}

// Resolve looks up a requirement field against the profile. Bare field names
// go through the alias table first; dot-paths address sections directly.
// The second return is false when the path does not resolve or the value is
// absent (nil pointer, empty string, zero int that was never populated is
// still considered present; absence means the path itself is unknown).
func (p ApplicantProfile) Resolve(field string) (interface{}, bool) {
	path := field
	if alias, ok := fieldAliases[field]; ok {
		path = alias
	}

	parts := strings.SplitN(path, ".", 2)
	if len(parts) == 1 {
		// Unaliased bare name. Fall back to the Other bag.
		if v, ok := p.Other[field]; ok {
			return v, true
		}
		return nil, false
	}

	section, rest := parts[0], parts[1]
	switch section {
	case "personalInfo":
		return resolvePersonal(p.PersonalInfo, rest)
	case "education":
		return resolveEducation(p.Education, rest)
	case "employment":
		return resolveEmployment(p.Employment, rest)
	case "financial":
		return resolveFinancial(p.Financial, rest)
	case "other":
		if v, ok := p.Other[rest]; ok {
			return v, true
		}
		return nil, false
	}
	return nil, false
}

func resolvePersonal(info PersonalInfo, field string) (interface{}, bool) {
	switch field {
	case "name":
		return info.Name, info.Name != ""
	case "dateOfBirth":
		return info.DateOfBirth, info.DateOfBirth != ""
	case "nationality":
		return info.Nationality, info.Nationality != ""
	case "passportNumber":
		return info.PassportNumber, info.PassportNumber != ""
	case "hasPassport":
		return info.HasPassport, true
	}
	return nil, false
}

func resolveEducation(edu Education, field string) (interface{}, bool) {
	switch field {
	case "degrees":
		return edu.Degrees, len(edu.Degrees) > 0
	case "institutions":
		return edu.Institutions, len(edu.Institutions) > 0
	case "years":
		return edu.Years, len(edu.Years) > 0
	case "educationLevel":
		return edu.EducationLevel, edu.EducationLevel != ""
	case "highestDegree":
		return edu.HighestDegree, edu.HighestDegree != ""
	}
	return nil, false
}

func resolveEmployment(emp Employment, field string) (interface{}, bool) {
	switch field {
	case "companies":
		return emp.Companies, len(emp.Companies) > 0
	case "positions":
		return emp.Positions, len(emp.Positions) > 0
	case "yearsOfExperience":
		return emp.YearsOfExperience, true
	case "hasJobOffer":
		return emp.HasJobOffer, true
	case "currentSalary":
		if emp.CurrentSalary == nil {
			return nil, false
		}
		return *emp.CurrentSalary, true
	}
	return nil, false
}

func resolveFinancial(fin Financial, field string) (interface{}, bool) {
	switch field {
	case "income":
		if fin.Income == nil {
			return nil, false
		}
		return *fin.Income, true
	case "assets":
		if fin.Assets == nil {
			return nil, false
		}
		return *fin.Assets, true
	case "financialSupport":
		return fin.FinancialSupport, true
	case "bankStatements":
		return fin.BankStatements, true
	}
	return nil, false
}
