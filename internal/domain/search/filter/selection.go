package filter

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/page"
)

// Selection is the user-driven filter state: query, selected tags, sort
// key and pagination position. Changing the query, tags or sort key
// resets the page to 1.
type Selection struct {
	query   string
	tags    map[string]facet.Tag
	sort    catalog.SortKey
	page    int
	perPage int
}

// NewSelection creates an empty selection.
func NewSelection(perPage int) *Selection {
	if perPage <= 0 {
		perPage = page.DefaultPerPage
	}
	return &Selection{
		tags:    make(map[string]facet.Tag),
		sort:    catalog.SortDefault,
		page:    1,
		perPage: perPage,
	}
}

// Query returns the free-text query.
func (s *Selection) Query() string { return s.query }

// SetQuery replaces the query and resets the page.
func (s *Selection) SetQuery(q string) {
	s.query = strings.TrimSpace(q)
	s.page = 1
}

// Tags returns the selected tags ordered by canonical key.
func (s *Selection) Tags() []facet.Tag {
	keys := make([]string, 0, len(s.tags))
	for k := range s.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]facet.Tag, len(keys))
	for i, k := range keys {
		out[i] = s.tags[k]
	}
	return out
}

// IsSelected reports whether the tag is selected.
func (s *Selection) IsSelected(t facet.Tag) bool {
	_, ok := s.tags[t.Key()]
	return ok
}

// Toggle flips the tag and reports whether it is now selected.
func (s *Selection) Toggle(t facet.Tag) bool {
	s.page = 1
	if _, ok := s.tags[t.Key()]; ok {
		delete(s.tags, t.Key())
		return false
	}
	s.tags[t.Key()] = t
	return true
}

// Select adds the tag if it is not selected yet.
func (s *Selection) Select(t facet.Tag) {
	if !s.IsSelected(t) {
		s.Toggle(t)
	}
}

// ClearTags deselects every tag.
func (s *Selection) ClearTags() {
	if len(s.tags) == 0 {
		return
	}
	s.tags = make(map[string]facet.Tag)
	s.page = 1
}

// Sort returns the sort key.
func (s *Selection) Sort() catalog.SortKey { return s.sort }

// SetSort changes the sort key and resets the page.
func (s *Selection) SetSort(k catalog.SortKey) {
	s.sort = k
	s.page = 1
}

// PerPage returns the page size.
func (s *Selection) PerPage() int { return s.perPage }

// SetPerPage changes the page size and resets the page.
func (s *Selection) SetPerPage(n int) {
	if n <= 0 {
		n = page.DefaultPerPage
	}
	s.perPage = n
	s.page = 1
}

// Page returns the current 1-based page.
func (s *Selection) Page() int { return s.page }

// GoTo moves to page p clamped to [1, max(1,totalPages)].
func (s *Selection) GoTo(p, totalPages int) {
	s.page = page.Clamp(p, totalPages)
}

// Next advances one page; a no-op on the last page.
func (s *Selection) Next(totalPages int) {
	s.page = page.Next(s.page, totalPages)
}

// Prev goes back one page; a no-op on the first page.
func (s *Selection) Prev() {
	s.page = page.Prev(s.page)
}
