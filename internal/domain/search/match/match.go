// Package match implements the free-text predicate over catalog projects:
// every query term must be contained (case-insensitively) in at least one
// searchable field.
package match

import (
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

// Terms splits a query into lower-cased whitespace-separated terms.
func Terms(query string) []string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// Matches reports whether the project satisfies the query.
// The empty query matches everything.
func Matches(query string, p *catalog.Project) bool {
	return MatchesTerms(Terms(query), p)
}

// MatchesTerms is Matches for pre-split terms.
func MatchesTerms(terms []string, p *catalog.Project) bool {
	if len(terms) == 0 {
		return true
	}
	if p == nil {
		return false
	}
	fields := Fields(p)
	for _, term := range terms {
		if !anyContains(fields, term) {
			return false
		}
	}
	return true
}

// Fields returns the lower-cased searchable values of a project: name,
// feature names, tech stack names, client name, team name.
func Fields(p *catalog.Project) []string {
	out := make([]string, 0, 3+len(p.Features)+len(p.TechStack))
	add := func(s string) {
		if s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	add(p.Name)
	for _, f := range p.Features {
		add(f.Name)
	}
	for _, t := range p.TechStack {
		add(t.Name)
	}
	add(p.ClientName())
	add(p.TeamName())
	return out
}

// Contains is a case-insensitive substring test.
func Contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyContains(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}
