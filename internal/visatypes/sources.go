// internal/visatypes/sources.go
package visatypes

import "strings"

// Canonical visa type codes with a configured source page.
const (
	H1B = "H-1B"
	L1  = "L-1"
	F1  = "F-1"
	B2  = "B-2"
	EB1 = "EB-1"
)

// sourceURLs maps each supported visa type to the USCIS page its
// requirements are extracted from.
var sourceURLs = map[string]string{
	H1B: "https://www.uscis.gov/working-in-the-united-states/h-1b-specialty-occupations",
	L1:  "https://www.uscis.gov/working-in-the-united-states/temporary-workers/l-1a-intracompany-transferee-executive-or-manager",
	F1:  "https://www.uscis.gov/working-in-the-united-states/students-and-exchange-visitors/students-and-employment",
	B2:  "https://www.uscis.gov/visit-the-united-states/visitors-b-1-and-b-2",
	EB1: "https://www.uscis.gov/working-in-the-united-states/permanent-workers/employment-based-immigration-first-preference-eb-1",
}

// PolicyManualURLs are supplemental reference pages kept alongside the
// primary sources. Not fetched by default.
var PolicyManualURLs = map[string]string{
	H1B: "https://www.uscis.gov/policy-manual/volume-2-part-h",
	L1:  "https://www.uscis.gov/policy-manual/volume-2-part-l",
	F1:  "https://www.uscis.gov/policy-manual/volume-2-part-f",
	EB1: "https://www.uscis.gov/policy-manual/volume-6-part-f",
}

// Normalize upper-cases and trims a visa type code.
func Normalize(visaType string) string {
	return strings.ToUpper(strings.TrimSpace(visaType))
}

// Supported reports whether a visa type has a configured source page.
func Supported(visaType string) bool {
	_, ok := sourceURLs[Normalize(visaType)]
	return ok
}

// All returns the supported visa type codes in a stable order.
func All() []string {
	return []string{H1B, L1, F1, B2, EB1}
}

// SourceURL returns the extraction source for a visa type. Unknown codes
// fall back to the H-1B page so an extraction run always has a target.
func SourceURL(visaType string) string {
	if url, ok := sourceURLs[Normalize(visaType)]; ok {
		return url
	}
	return sourceURLs[H1B]
}
