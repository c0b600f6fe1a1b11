// Package facet derives tag collections from the catalog.
package facet

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

// Kind is a facet dimension.
type Kind string

const (
	// TechStack is the multi-valued tech stack facet.
	TechStack Kind = "techStack"
	// Client is the single-valued client facet.
	Client Kind = "client"
	// Team is the single-valued team facet.
	Team Kind = "team"
	// Features is the multi-valued feature facet.
	Features Kind = "features"
)

// descriptor binds a facet kind to the catalog field it reads.
type descriptor struct {
	field   string
	extract func(p *catalog.Project) []catalog.Ref
}

var kinds = map[Kind]descriptor{
	TechStack: {field: "techStack", extract: func(p *catalog.Project) []catalog.Ref { return p.TechStack }},
	Features:  {field: "features", extract: func(p *catalog.Project) []catalog.Ref { return p.Features }},
	Client:    {field: "client", extract: func(p *catalog.Project) []catalog.Ref { return single(p.Client) }},
	Team:      {field: "team", extract: func(p *catalog.Project) []catalog.Ref { return single(p.Team) }},
}

// All lists the facet kinds in display order.
func All() []Kind {
	return []Kind{TechStack, Client, Team, Features}
}

// ParseKind validates a facet kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownFacet, s)
	}
	return k, nil
}

// Field returns the catalog field backing the facet.
func (k Kind) Field() string { return kinds[k].field }

// Refs returns the non-empty references of a project for this facet.
func (k Kind) Refs(p *catalog.Project) []catalog.Ref {
	d, ok := kinds[k]
	if !ok || p == nil {
		return nil
	}
	refs := d.extract(p)
	out := refs[:0:0]
	for _, r := range refs {
		if !r.IsZero() {
			out = append(out, r)
		}
	}
	return out
}

// Carries reports whether the project references the tag under this facet.
func (k Kind) Carries(p *catalog.Project, t Tag) bool {
	for _, r := range k.Refs(p) {
		if KeyOf(k, r) == t.Key() {
			return true
		}
	}
	return false
}

func single(r *catalog.Ref) []catalog.Ref {
	if r == nil {
		return nil
	}
	return []catalog.Ref{*r}
}
