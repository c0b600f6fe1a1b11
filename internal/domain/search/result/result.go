// Package result holds typeahead suggestions resolved from search records.
package result

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
)

// Kind is the entity type of a suggestion.
type Kind string

const (
	// Project navigates to a project.
	Project Kind = "project"
	// Client navigates to a client.
	Client Kind = "client"
	// Team navigates to a team.
	Team Kind = "team"
	// TechStack narrows the listing to projects using the tech stack.
	TechStack Kind = "techstack"
	// Feature narrows the listing to projects with the feature.
	Feature Kind = "feature"
)

// Kinds lists suggestion kinds in bucket order.
func Kinds() []Kind {
	return []Kind{Project, Client, Team, TechStack, Feature}
}

// ParseKind validates a suggestion kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown result kind %q", domain.ErrInvalidQuery, s)
}

// Navigates reports whether selecting this kind opens a detail view.
func (k Kind) Navigates() bool {
	return k == Project || k == Client || k == Team
}

// Facet returns the facet a tag-like kind narrows by.
func (k Kind) Facet() (facet.Kind, bool) {
	switch k {
	case TechStack:
		return facet.TechStack, true
	case Feature:
		return facet.Features, true
	case Client:
		return facet.Client, true
	case Team:
		return facet.Team, true
	default:
		return "", false
	}
}

// Key is the composite identity of a suggestion.
type Key struct {
	Kind Kind
	ID   string
}

// String renders the key as "kind:id".
func (k Key) String() string { return string(k.Kind) + ":" + k.ID }

// ParseKey parses "kind:id".
func ParseKey(s string) (Key, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return Key{}, fmt.Errorf("%w: expected kind:id, got %q", domain.ErrInvalidQuery, s)
	}
	k, err := ParseKind(kind)
	if err != nil {
		return Key{}, err
	}
	return Key{Kind: k, ID: id}, nil
}

// Result is one typeahead suggestion.
type Result struct {
	kind Kind
	id   string
	name string
}

// New creates a suggestion.
func New(kind Kind, id, name string) Result {
	return Result{kind: kind, id: id, name: name}
}

// Kind returns the entity type.
func (r Result) Kind() Kind { return r.kind }

// ID returns the entity identity.
func (r Result) ID() string { return r.id }

// Name returns the display name.
func (r Result) Name() string { return r.name }

// Key returns the composite identity.
func (r Result) Key() Key { return Key{Kind: r.kind, ID: r.id} }

// Dedup removes entries whose composite key was already seen, keeping the
// first occurrence and the original order.
func Dedup(in []Result) []Result {
	seen := make(map[Key]struct{}, len(in))
	out := make([]Result, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}
