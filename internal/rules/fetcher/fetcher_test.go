// internal/rules/fetcher/fetcher_test.go
package fetcher

import (
	"strings"
	"testing"

	"visa-eligibility-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

const sectionedPage = `
<html>
<head><title>H-1B Specialty Occupations</title></head>
<body>
<nav><ul><li>This navigation item is long enough to be collected by accident</li></ul></nav>
<h1>H-1B Specialty Occupations</h1>
<p>General information about the H-1B program and how petitions are filed.</p>
<h2>Eligibility Requirements</h2>
<ul>
  <li>You must hold a <strong>bachelor's degree</strong> or higher in a related field</li>
  <li>You must have a job offer from a US employer for a specialty occupation</li>
</ul>
<p>The offered salary must meet the prevailing wage for the occupation.</p>
<h2>Filing Fees</h2>
<p>Fee information changes periodically and is listed on the forms page.</p>
<footer><p>An official website of the United States government agencies</p></footer>
</body>
</html>`

const flatPage = `
<html>
<body>
<p>Applicants need a valid passport to travel to the United States.</p>
<ul>
  <li>Proof of sufficient funds for the duration of the stay</li>
  <li>short item</li>
</ul>
</body>
</html>`

func TestParse_CollectsRequirementSections(t *testing.T) {
	candidates, err := Parse(strings.NewReader(sectionedPage))

	assert.NoError(t, err)
	descriptions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		descriptions = append(descriptions, c.Description)
	}

	assert.Contains(t, descriptions, "You must hold a bachelor's degree or higher in a related field")
	assert.Contains(t, descriptions, "You must have a job offer from a US employer for a specialty occupation")
	assert.Contains(t, descriptions, "The offered salary must meet the prevailing wage for the occupation.")

	// Content outside the requirements section is not collected.
	assert.NotContains(t, descriptions, "General information about the H-1B program and how petitions are filed.")
	assert.NotContains(t, descriptions, "Fee information changes periodically and is listed on the forms page.")
	for _, d := range descriptions {
		assert.NotContains(t, d, "navigation item")
		assert.NotContains(t, d, "official website")
	}
}

func TestParse_FallsBackToAllText(t *testing.T) {
	candidates, err := Parse(strings.NewReader(flatPage))

	assert.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Equal(t, "Applicants need a valid passport to travel to the United States.", candidates[0].Description)
	assert.Equal(t, "Proof of sufficient funds for the duration of the stay", candidates[1].Description)
}

func TestParse_AssignsCategories(t *testing.T) {
	candidates, err := Parse(strings.NewReader(sectionedPage))

	assert.NoError(t, err)
	byDescription := make(map[string]string, len(candidates))
	for _, c := range candidates {
		byDescription[c.Description] = c.Category
	}

	assert.Equal(t, models.CategoryEducation,
		byDescription["You must hold a bachelor's degree or higher in a related field"])
	assert.Equal(t, models.CategoryEmployment,
		byDescription["You must have a job offer from a US employer for a specialty occupation"])
}

func TestParse_Dedupes(t *testing.T) {
	page := `<html><body>
<h2>Requirements</h2>
<ul>
  <li>You must hold a bachelor's degree or higher in a related field</li>
  <li>You must hold a bachelor's degree or higher in a related field</li>
</ul>
</body></html>`

	candidates, err := Parse(strings.NewReader(page))

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestParse_CapsCandidates(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body><h2>Requirements</h2><ul>")
	for i := 0; i < 80; i++ {
		sb.WriteString("<li>Requirement number ")
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString(" must be satisfied before filing</li>")
	}
	sb.WriteString("</ul></body></html>")

	candidates, err := Parse(strings.NewReader(sb.String()))

	assert.NoError(t, err)
	assert.LessOrEqual(t, len(candidates), 50)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"A bachelor's degree in a related field", models.CategoryEducation},
		{"A job offer from a US employer", models.CategoryEmployment},
		{"Proof of sufficient funds", models.CategoryFinancial},
		{"A valid passport for travel", models.CategoryDocumentation},
		{"At least 3 years in the field", models.CategoryExperience},
		{"Completed medical examination", models.CategoryGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.text), tt.text)
	}
}
