// internal/workers/rules/extract-visa-rules/models.go
package extractvisarules

import "time"

type Input struct {
	VisaType  string `json:"visaType"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

type Output struct {
	VisaType         string         `json:"visaType"`
	RequirementCount int            `json:"requirementCount"`
	SectionCounts    map[string]int `json:"sectionCounts"`
	SourceURL        string         `json:"sourceUrl"`
	Version          string         `json:"version"`
	LastUpdated      time.Time      `json:"lastUpdated"`
}
