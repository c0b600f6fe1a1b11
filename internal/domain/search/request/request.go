// Package request validates catalog view parameters coming from outer
// surfaces (HTTP, CLI) before they reach the engine.
package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
)

// View parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length.
	MaxQueryLength = 512
	// MaxTags bounds the number of selected tags in one request.
	MaxTags = 32
	// MaxPerPage bounds an explicit page size.
	MaxPerPage = 100
)

// TagRef names a facet tag by kind and identity ("techStack:t-react").
type TagRef struct {
	Kind facet.Kind
	ID   string
}

// String renders the reference as "kind:id".
func (t TagRef) String() string { return string(t.Kind) + ":" + t.ID }

// ParseTagRef parses "kind:id". The id may itself contain colons.
func ParseTagRef(s string) (TagRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(id) == "" {
		return TagRef{}, fmt.Errorf("%w: tag must be kind:id, got %q", domain.ErrInvalidQuery, s)
	}
	k, err := facet.ParseKind(kind)
	if err != nil {
		return TagRef{}, err
	}
	return TagRef{Kind: k, ID: id}, nil
}

// Request is a validated catalog view request.
type Request struct {
	query   string
	tags    []TagRef
	sort    catalog.SortKey
	page    int
	perPage int
}

// New validates and normalizes view parameters. page < 1 becomes 1;
// perPage 0 means "derive from the viewport".
func New(query string, tags []string, sort string, page, perPage int) (Request, error) {
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if len(tags) > MaxTags {
		return Request{}, fmt.Errorf("%w: too many tags (max %d)", domain.ErrInvalidQuery, MaxTags)
	}
	refs := make([]TagRef, 0, len(tags))
	for _, t := range tags {
		ref, err := ParseTagRef(t)
		if err != nil {
			return Request{}, err
		}
		refs = append(refs, ref)
	}
	key, err := catalog.ParseSortKey(sort)
	if err != nil {
		return Request{}, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 0 || perPage > MaxPerPage {
		return Request{}, fmt.Errorf("%w: per_page must be between 0 and %d", domain.ErrInvalidQuery, MaxPerPage)
	}

	return Request{query: query, tags: refs, sort: key, page: page, perPage: perPage}, nil
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// Tags returns the selected tag references.
func (r *Request) Tags() []TagRef { return r.tags }

// Sort returns the sort key.
func (r *Request) Sort() catalog.SortKey { return r.sort }

// Page returns the requested page.
func (r *Request) Page() int { return r.page }

// PerPage returns the explicit page size, 0 when unset.
func (r *Request) PerPage() int { return r.perPage }
