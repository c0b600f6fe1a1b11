// Package filter combines the free-text matcher with the selected facet tags.
package filter

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/search/match"
)

// LegacyPolicy decides when a selected tag may match by display-name
// substring instead of identity.
type LegacyPolicy string

const (
	// LegacyOnly enables the substring fallback for legacy (name-only) tags.
	LegacyOnly LegacyPolicy = "legacy-only"
	// Always enables the substring fallback for every tag. A tag with an
	// identity may then match projects that merely share a word with it.
	Always LegacyPolicy = "always"
)

// ParseLegacyPolicy validates a policy name. The empty string means LegacyOnly.
func ParseLegacyPolicy(s string) (LegacyPolicy, error) {
	switch LegacyPolicy(s) {
	case "", LegacyOnly:
		return LegacyOnly, nil
	case Always:
		return Always, nil
	default:
		return "", fmt.Errorf("unknown legacy match policy %q", s)
	}
}

// Apply returns the projects accepted by the query and by every selected
// tag, preserving catalog order.
func Apply(projects []catalog.Project, sel *Selection, policy LegacyPolicy) []catalog.Project {
	terms := match.Terms(sel.Query())
	tags := sel.Tags()

	out := make([]catalog.Project, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		if !match.MatchesTerms(terms, p) {
			continue
		}
		if !matchesAll(p, tags, policy) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func matchesAll(p *catalog.Project, tags []facet.Tag, policy LegacyPolicy) bool {
	for _, t := range tags {
		if !TagMatches(p, t, policy) {
			return false
		}
	}
	return true
}

// TagMatches reports whether a project satisfies one selected tag: by
// identity on the facet's references, or by the substring fallback on the
// project name and reference display names when the policy allows it.
func TagMatches(p *catalog.Project, t facet.Tag, policy LegacyPolicy) bool {
	if t.Kind().Carries(p, t) {
		return true
	}
	if policy != Always && !t.Legacy() {
		return false
	}
	if t.Name() == "" {
		return false
	}
	if match.Contains(p.Name, t.Name()) {
		return true
	}
	for _, r := range p.Refs() {
		if match.Contains(r.Name, t.Name()) {
			return true
		}
	}
	return false
}
