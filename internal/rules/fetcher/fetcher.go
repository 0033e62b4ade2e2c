// internal/rules/fetcher/fetcher.go

// Package fetcher pulls candidate requirement strings out of visa source
// pages. It extracts list items and paragraphs from requirement-looking
// sections and attaches a category guess; all real filtering happens
// downstream in the cleaner.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	commonhttp "visa-eligibility-workers/internal/common/http"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// maxCandidates bounds one page's contribution so a link farm cannot
	// flood the pipeline.
	maxCandidates = 50

	minTextLength = 20
	maxTextLength = 500
)

// sectionKeywords mark headings and list items that look like eligibility
// content.
var sectionKeywords = []string{
	"requirement", "eligibility", "qualification", "criteria",
	"must have", "must be", "must provide", "must demonstrate",
}

// Fetcher retrieves and parses source pages over HTTP.
type Fetcher struct {
	client *commonhttp.Client
	log    logger.Logger
}

// New creates a Fetcher using the shared HTTP client.
func New(client *commonhttp.Client, log logger.Logger) *Fetcher {
	return &Fetcher{client: client, log: log}
}

// Fetch downloads url and returns candidate requirement strings.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]models.Candidate, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	candidates, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	f.log.Info("fetched source page", map[string]interface{}{
		"url":        url,
		"candidates": len(candidates),
	})
	return candidates, nil
}

// Parse walks the HTML and collects candidate text. Two passes over one
// parse tree: first list items and paragraphs under requirement-looking
// headings, then (if that found nothing) any reasonable-length paragraph or
// list item, so sparse pages still yield something for the cleaner to sift.
func Parse(r io.Reader) ([]models.Candidate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	collected := collectFromSections(doc)
	if len(collected) == 0 {
		collected = collectAll(doc)
	}

	seen := make(map[string]bool, len(collected))
	candidates := make([]models.Candidate, 0, len(collected))
	for _, text := range collected {
		if seen[text] {
			continue
		}
		seen[text] = true
		candidates = append(candidates, models.Candidate{
			Description: text,
			Category:    Categorize(text),
		})
		if len(candidates) >= maxCandidates {
			break
		}
	}
	return candidates, nil
}

// collectFromSections gathers li and p text that follows a heading whose
// text mentions a section keyword, up to the next heading.
func collectFromSections(doc *html.Node) []string {
	var out []string
	inSection := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4":
				heading := strings.ToLower(nodeText(n))
				inSection = containsAny(heading, sectionKeywords)
			case "li", "p":
				if inSection {
					if text := strings.TrimSpace(nodeText(n)); len(text) >= minTextLength {
						out = append(out, text)
					}
				}
			case "nav", "header", "footer", "script", "style":
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return out
}

// collectAll gathers every li and p of plausible length, used when no
// requirement section was recognized.
func collectAll(doc *html.Node) []string {
	var out []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "li", "p":
				text := strings.TrimSpace(nodeText(n))
				if len(text) >= minTextLength && len(text) <= maxTextLength {
					out = append(out, text)
				}
				return
			case "nav", "header", "footer", "script", "style":
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return out
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Categorize assigns a section from keyword cues in the text.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, []string{"education", "degree", "diploma"}):
		return models.CategoryEducation
	case containsAny(lower, []string{"employ", "job", "work"}):
		return models.CategoryEmployment
	case containsAny(lower, []string{"financial", "income", "salary", "fund"}):
		return models.CategoryFinancial
	case containsAny(lower, []string{"passport", "travel", "visa"}):
		return models.CategoryDocumentation
	case containsAny(lower, []string{"experience", "year"}):
		return models.CategoryExperience
	default:
		return models.CategoryGeneral
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
