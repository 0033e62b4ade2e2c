// internal/rules/cleaner/tables.go
package cleaner

// Tables holds the keyword lists that drive cleaning and weighting. They are
// plain data so deployments can tune them without touching the pipeline.
type Tables struct {
	// NavigationPhrases reject a candidate outright; these are page chrome
	// that leaks into scraped text.
	NavigationPhrases []string `json:"navigationPhrases" yaml:"navigation_phrases"`

	// ExcludePhrases reject candidates that passed the navigation check but
	// are link boilerplate rather than requirements.
	ExcludePhrases []string `json:"excludePhrases" yaml:"exclude_phrases"`

	// EligibilityKeywords gate acceptance; a candidate must contain at
	// least one to survive.
	EligibilityKeywords []string `json:"eligibilityKeywords" yaml:"eligibility_keywords"`

	// CriticalKeywords raise a requirement's weight to critical;
	// PreferredKeywords raise it to preferred.
	CriticalKeywords  []string `json:"criticalKeywords" yaml:"critical_keywords"`
	PreferredKeywords []string `json:"preferredKeywords" yaml:"preferred_keywords"`

	// MinLength and MaxLength bound the description size in characters;
	// MaxWords bounds the word count.
	MinLength int `json:"minLength" yaml:"min_length"`
	MaxLength int `json:"maxLength" yaml:"max_length"`
	MaxWords  int `json:"maxWords" yaml:"max_words"`
}

// DefaultTables returns the keyword tables tuned for USCIS pages.
func DefaultTables() Tables {
	return Tables{
		NavigationPhrases: []string{
			"skip to main content",
			"sign in",
			"create account",
			"menu",
			"topics",
			"forms",
			"newsroom",
			"citizenship",
			"green card",
			"laws",
			"tools",
			"contact us",
			"multilingual resources",
			"breadcrumb",
			"return to top",
			"was this page helpful",
			"official website",
			"privacy policy",
			"site map",
			"a-z index",
		},
		ExcludePhrases: []string{
			"click here",
			"learn more",
			"read more",
			"see also",
			"related links",
			"additional information",
			"for more",
			"this page",
			"last reviewed",
			"was this helpful",
		},
		EligibilityKeywords: []string{
			"require", "must", "need", "qualify", "eligible", "criteria",
			"degree", "education", "experience", "employment", "job",
			"employer", "salary", "wage", "financial", "fund",
			"passport", "visa", "document", "application", "petition",
			"bachelor", "master", "phd", "diploma", "certificate",
			"year", "month", "minimum", "maximum", "at least",
		},
		CriticalKeywords:  []string{"must", "required", "mandatory"},
		PreferredKeywords: []string{"should", "preferred"},
		MinLength:         20,
		MaxLength:         500,
		MaxWords:          50,
	}
}
