// internal/rules/cleaner/cleaner.go
package cleaner

import (
	"regexp"
	"sort"
	"strings"

	"visa-eligibility-workers/internal/models"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
)

// Cleaner turns raw scraped candidate strings into a filtered, deduplicated,
// weight-ranked requirement list. It performs no I/O; identical input always
// produces identical output.
type Cleaner struct {
	tables Tables
}

// New creates a Cleaner driven by the given keyword tables.
func New(tables Tables) *Cleaner {
	return &Cleaner{tables: tables}
}

// NewDefault creates a Cleaner with the built-in USCIS tables.
func NewDefault() *Cleaner {
	return New(DefaultTables())
}

// Clean runs the full pipeline: scrub each candidate, drop noise, dedupe by
// normalized description, then rank by weight descending (stable, so upstream
// order breaks ties).
func (c *Cleaner) Clean(candidates []models.Candidate) []models.Requirement {
	cleaned := make([]models.Requirement, 0, len(candidates))
	for _, candidate := range candidates {
		req, ok := c.cleanCandidate(candidate)
		if !ok {
			continue
		}
		cleaned = append(cleaned, req)
	}

	cleaned = c.dedupe(cleaned)

	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].Weight > cleaned[j].Weight
	})
	return cleaned
}

// cleanCandidate scrubs one candidate and decides whether it survives.
func (c *Cleaner) cleanCandidate(candidate models.Candidate) (models.Requirement, bool) {
	description := candidate.Description
	if description == "" {
		return models.Requirement{}, false
	}

	description = htmlTagPattern.ReplaceAllString(description, "")
	description = strings.TrimSpace(whitespacePattern.ReplaceAllString(description, " "))

	if len(description) < c.tables.MinLength || len(description) > c.tables.MaxLength {
		return models.Requirement{}, false
	}
	if len(strings.Fields(description)) > c.tables.MaxWords {
		return models.Requirement{}, false
	}

	lower := strings.ToLower(description)
	if containsAny(lower, c.tables.NavigationPhrases) {
		return models.Requirement{}, false
	}
	if containsAny(lower, c.tables.ExcludePhrases) {
		return models.Requirement{}, false
	}
	if !containsAny(lower, c.tables.EligibilityKeywords) {
		return models.Requirement{}, false
	}

	weight := c.weightFor(lower)

	required := weight >= models.RequiredWeightThreshold
	if candidate.Required != nil {
		required = *candidate.Required
	}

	category := candidate.Category
	if category == "" {
		category = models.CategoryGeneral
	}

	return models.Requirement{
		Category:    category,
		Description: description,
		Required:    required,
		Weight:      weight,
	}, true
}

// weightFor ranks a description by how imperative its language is.
func (c *Cleaner) weightFor(lowerDescription string) int {
	if containsAny(lowerDescription, c.tables.CriticalKeywords) {
		return models.CriticalWeight
	}
	if containsAny(lowerDescription, c.tables.PreferredKeywords) {
		return models.PreferredWeight
	}
	return models.DefaultWeight
}

// dedupe keeps the first requirement for each normalized description key.
func (c *Cleaner) dedupe(requirements []models.Requirement) []models.Requirement {
	seen := make(map[string]bool, len(requirements))
	out := make([]models.Requirement, 0, len(requirements))
	for _, req := range requirements {
		key := NormalizedKey(req.Description)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, req)
	}
	return out
}

// NormalizedKey reduces a description to its comparison form: lowercase,
// punctuation stripped, whitespace collapsed, truncated to 100 characters.
// The same key is used for dedupe here and for the content-hash merge in the
// extraction service, so both see the same notion of "same requirement".
func NormalizedKey(description string) string {
	key := strings.ToLower(description)
	key = nonWordPattern.ReplaceAllString(key, "")
	key = strings.TrimSpace(whitespacePattern.ReplaceAllString(key, " "))
	if len(key) > 100 {
		key = key[:100]
	}
	return key
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
