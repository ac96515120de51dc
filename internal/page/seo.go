package page

import (
	"strings"
	"unicode/utf8"

	"github.com/localnerve/jam-build-landing/internal/documents"
)

// SEOCheck is one scored rule
type SEOCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Points int    `json:"points"`
}

// SEOReport totals the checks out of 100
type SEOReport struct {
	Score  int        `json:"score"`
	Rating string     `json:"rating"`
	Checks []SEOCheck `json:"checks"`
}

// SEOScore grades the SEO document
func SEOScore(cfg documents.SEOConfig) SEOReport {
	title := utf8.RuneCountInString(cfg.Title)
	desc := utf8.RuneCountInString(cfg.Description)

	checks := []SEOCheck{
		{Name: "title", Passed: title >= 30 && title <= 60, Points: 20},
		{Name: "description", Passed: desc >= 120 && desc <= 160, Points: 20},
		{Name: "keywords", Passed: len(Keywords(cfg.Keywords)) >= 3, Points: 15},
		{Name: "author", Passed: cfg.Author != "", Points: 10},
		{Name: "url", Passed: cfg.URL != "", Points: 10},
		{Name: "googleAnalytics", Passed: cfg.GoogleAnalytics != "", Points: 15},
		{Name: "googleTagManager", Passed: cfg.GoogleTagManager != "", Points: 10},
	}

	r := SEOReport{Checks: checks}
	for _, c := range checks {
		if c.Passed {
			r.Score += c.Points
		}
	}

	switch {
	case r.Score >= 80:
		r.Rating = "Excelente"
	case r.Score >= 60:
		r.Rating = "Bom"
	default:
		r.Rating = "Precisa melhorar"
	}
	return r
}

// Keywords splits a comma list, dropping blanks
func Keywords(list string) []string {
	var out []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
