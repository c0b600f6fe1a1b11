package chi

import (
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
)

// ErrorCode is the machine-readable error code of an API error.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeInvalidSort        ErrorCode = "invalid_sort"
	ErrorCodeUnknownFacet       ErrorCode = "unknown_facet"
	ErrorCodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	ErrorCodeSearchFailed       ErrorCode = "search_failed"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Data []domcat.Project `json:"data"`
}

// Tag is a facet tag on the wire. Ref is the "kind:id" form accepted by
// the tag query parameter.
type Tag struct {
	Kind     facet.Kind `json:"kind"`
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Ref      string     `json:"ref"`
	Legacy   bool       `json:"legacy,omitempty"`
	Count    *int       `json:"count,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// FacetPreview is the short tag list shown next to the results.
type FacetPreview struct {
	Kind  facet.Kind `json:"kind"`
	Tags  []Tag      `json:"tags"`
	More  int        `json:"more"`
	Total int        `json:"total"`
}

// CatalogResponse is the body of GET /catalog.
type CatalogResponse struct {
	Items      []domcat.Project `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	PerPage    int              `json:"per_page"`
	Query      string           `json:"query,omitempty"`
	Sort       domcat.SortKey   `json:"sort"`
	Selected   []Tag            `json:"selected"`
	Facets     []FacetPreview   `json:"facets"`
}

// LetterGroup is one letter section of the facet browser.
type LetterGroup struct {
	Letter string `json:"letter"`
	Tags   []Tag  `json:"tags"`
}

// FacetBrowseResponse is the body of GET /facets/{kind}.
type FacetBrowseResponse struct {
	Kind    facet.Kind    `json:"kind"`
	Letters []string      `json:"letters"`
	Groups  []LetterGroup `json:"groups"`
}

// Suggestion is one typeahead result.
type Suggestion struct {
	Kind result.Kind `json:"kind"`
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Key  string      `json:"key"`
}

// TypeaheadResponse is the body of GET /typeahead.
type TypeaheadResponse struct {
	Query    string       `json:"query"`
	Narrowed string       `json:"narrowed,omitempty"`
	Results  []Suggestion `json:"results"`
}

// ImportRequest is the body of PUT /projects.
type ImportRequest struct {
	Projects []domcat.Project `json:"projects"`
}

// ImportResponse is the body returned after a bulk import.
type ImportResponse struct {
	Imported int              `json:"imported"`
	Projects []domcat.Project `json:"projects"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func tagToAPI(t facet.Tag) Tag {
	return Tag{
		Kind:   t.Kind(),
		ID:     t.ID(),
		Name:   t.Name(),
		Ref:    string(t.Kind()) + ":" + t.ID(),
		Legacy: t.Legacy(),
	}
}

func tagsToAPI(tags []facet.Tag) []Tag {
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = tagToAPI(t)
	}
	return out
}

func snapshotToAPI(s cataloguc.Snapshot) CatalogResponse {
	facets := make([]FacetPreview, len(s.Facets))
	for i, p := range s.Facets {
		facets[i] = FacetPreview{Kind: p.Kind, Tags: tagsToAPI(p.Tags), More: p.More, Total: p.Total}
	}
	items := s.Items
	if items == nil {
		items = []domcat.Project{}
	}
	return CatalogResponse{
		Items:      items,
		Total:      s.Total,
		Page:       s.Page,
		TotalPages: s.TotalPages,
		PerPage:    s.PerPage,
		Query:      s.Query,
		Sort:       s.Sort,
		Selected:   tagsToAPI(s.Selected),
		Facets:     facets,
	}
}

func browseToAPI(b cataloguc.BrowseResult) FacetBrowseResponse {
	groups := make([]LetterGroup, len(b.Groups))
	for i, g := range b.Groups {
		groups[i] = LetterGroup{Letter: g.Letter, Tags: entriesToAPI(g.Entries)}
	}
	letters := b.Letters
	if letters == nil {
		letters = []string{}
	}
	return FacetBrowseResponse{Kind: b.Kind, Letters: letters, Groups: groups}
}

func entriesToAPI(entries []browse.Entry) []Tag {
	out := make([]Tag, len(entries))
	for i, e := range entries {
		t := tagToAPI(e.Tag)
		count := e.Count
		t.Count = &count
		t.Selected = e.Selected
		out[i] = t
	}
	return out
}

func suggestionsToAPI(rs []result.Result) []Suggestion {
	out := make([]Suggestion, len(rs))
	for i, r := range rs {
		out[i] = Suggestion{Kind: r.Kind(), ID: r.ID(), Name: r.Name(), Key: r.Key().String()}
	}
	return out
}

func healthToAPI(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}
