package search

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/search/match"
	"github.com/kailas-cloud/facetdex/internal/metrics"
)

// catalog is the consumer interface for the catalog source (ISP).
type catalog interface {
	ListProjects(ctx context.Context, sort domcat.SortKey) (domcat.ListResponse, error)
}

// Repo implements usecase/typeahead.Searcher over the catalog with an
// expiring LRU of recent queries.
type Repo struct {
	catalog catalog
	cache   *lru.LRU[string, []domcat.Project]
}

// New creates a search repository. size <= 0 disables caching.
func New(c catalog, size int, ttl time.Duration) *Repo {
	r := &Repo{catalog: c}
	if size > 0 {
		r.cache = lru.NewLRU[string, []domcat.Project](size, nil, ttl)
	}
	return r
}

// SearchAllFields returns the projects having the query as a
// case-insensitive substring of any searchable field.
func (r *Repo) SearchAllFields(ctx context.Context, query string) ([]domcat.Project, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, nil
	}

	if r.cache != nil {
		if hit, ok := r.cache.Get(key); ok {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			return slices.Clone(hit), nil
		}
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	resp, err := r.catalog.ListProjects(ctx, domcat.SortDefault)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("search %q: %w", query, domain.ErrCatalogLoad)
	}

	var out []domcat.Project
	for i := range resp.Projects {
		if anyFieldContains(&resp.Projects[i], key) {
			out = append(out, resp.Projects[i])
		}
	}

	if r.cache != nil {
		r.cache.Add(key, out)
	}
	return slices.Clone(out), nil
}

// Invalidate drops every cached response, e.g. after an import.
func (r *Repo) Invalidate() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

func anyFieldContains(p *domcat.Project, q string) bool {
	for _, f := range match.Fields(p) {
		if strings.Contains(f, q) {
			return true
		}
	}
	return false
}
