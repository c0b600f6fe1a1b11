// Package catalog owns the client-held catalog view: the loaded projects,
// their facet index and the user's selection.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/page"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/metrics"
	"github.com/kailas-cloud/facetdex/internal/usecase/browse"
)

// Options configures a View.
type Options struct {
	PerPage     int
	PreviewSize int
	Legacy      filter.LegacyPolicy
	OnLoadError LoadErrorPolicy
	Logger      *zap.Logger
}

// Snapshot is a consistent read of the view.
type Snapshot struct {
	Items      []domcat.Project
	Total      int
	Page       int
	TotalPages int
	PerPage    int
	Query      string
	Sort       domcat.SortKey
	Selected   []facet.Tag
	Facets     []facet.Preview
	Loaded     bool
	LoadErr    error
}

// View is safe for concurrent use. Reloads capture a generation number;
// a response is applied only if no newer reload, deactivation or close
// happened in the meantime.
type View struct {
	provider Provider
	opts     Options
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	projects    []domcat.Project
	index       facet.Index
	sel         *filter.Selection
	gen         uint64
	loaded      bool
	loadErr     error
	closed      bool
	unsubscribe func()
}

// NewView creates an empty view. Call Reload to fetch the catalog.
func NewView(p Provider, opts Options) *View {
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = facet.DefaultPreviewSize
	}
	if opts.Legacy == "" {
		opts.Legacy = filter.LegacyOnly
	}
	if opts.OnLoadError == "" {
		opts.OnLoadError = KeepOnError
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		provider: p,
		opts:     opts,
		log:      log.Named("catalog"),
		ctx:      ctx,
		cancel:   cancel,
		index:    facet.Build(nil),
		sel:      filter.NewSelection(opts.PerPage),
	}
}

// Reload fetches the catalog for the current sort key. A response that
// became stale while in flight is dropped and Reload returns nil.
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrClosed
	}
	v.gen++
	gen := v.gen
	sortKey := v.sel.Sort()
	v.mu.Unlock()

	resp, err := v.provider.ListProjects(ctx, sortKey)
	failed := err != nil || !resp.Success

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || gen != v.gen {
		metrics.CatalogLoadsTotal.WithLabelValues(string(sortKey), "stale").Inc()
		v.log.Debug("stale catalog response dropped", zap.Uint64("generation", gen))
		return nil
	}

	if failed {
		loadErr := domain.NewLoadError(string(sortKey), err)
		metrics.CatalogLoadsTotal.WithLabelValues(string(sortKey), "error").Inc()
		v.log.Error("catalog load failed",
			zap.String("sort", string(sortKey)),
			zap.String("policy", string(v.opts.OnLoadError)),
			zap.Error(err),
		)
		v.loadErr = loadErr
		if v.opts.OnLoadError == ClearOnError {
			v.setCatalogLocked(nil)
		}
		return loadErr
	}

	metrics.CatalogLoadsTotal.WithLabelValues(string(sortKey), "ok").Inc()
	metrics.CatalogSize.Set(float64(len(resp.Projects)))
	v.loadErr = nil
	v.loaded = true
	v.setCatalogLocked(resp.Projects)
	return nil
}

func (v *View) setCatalogLocked(projects []domcat.Project) {
	v.projects = append([]domcat.Project(nil), projects...)
	v.index = facet.Build(v.projects)
	v.sel.GoTo(1, v.totalPagesLocked())
}

func (v *View) filteredLocked() []domcat.Project {
	return filter.Apply(v.projects, v.sel, v.opts.Legacy)
}

func (v *View) totalPagesLocked() int {
	return page.TotalPages(len(v.filteredLocked()), v.sel.PerPage())
}

// SetQuery replaces the free-text query and returns to page 1.
func (v *View) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.SetQuery(q)
}

// ToggleTag flips a tag in the selection and reports whether it is now selected.
func (v *View) ToggleTag(t facet.Tag) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.Toggle(t)
}

// SelectTag selects the tag of a facet with the given identity.
func (v *View) SelectTag(k facet.Kind, id string) (facet.Tag, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	t, ok := v.index.Find(k, id)
	if !ok {
		return facet.Tag{}, fmt.Errorf("%s %q: %w", k, id, domain.ErrNotFound)
	}
	v.sel.Select(t)
	return t, nil
}

// ClearTags deselects every tag.
func (v *View) ClearTags() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.ClearTags()
}

// IsSelected reports whether a tag is selected.
func (v *View) IsSelected(t facet.Tag) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.IsSelected(t)
}

// Projects returns the full loaded catalog.
func (v *View) Projects() []domcat.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domcat.Project(nil), v.projects...)
}

// Index returns the facet index of the loaded catalog.
func (v *View) Index() facet.Index {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.index
}

// SetSort changes the sort key and reloads the catalog.
func (v *View) SetSort(ctx context.Context, k domcat.SortKey) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrClosed
	}
	v.sel.SetSort(k)
	v.mu.Unlock()
	return v.Reload(ctx)
}

// SetPerPage changes the page size and reloads the catalog.
// An unchanged page size is a no-op.
func (v *View) SetPerPage(ctx context.Context, n int) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrClosed
	}
	if n == v.sel.PerPage() {
		v.mu.Unlock()
		return nil
	}
	v.sel.SetPerPage(n)
	v.mu.Unlock()
	return v.Reload(ctx)
}

// GoTo moves to page p, clamped to the available pages.
func (v *View) GoTo(p int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.GoTo(p, v.totalPagesLocked())
}

// Next advances one page.
func (v *View) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.Next(v.totalPagesLocked())
}

// Prev goes back one page.
func (v *View) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.Prev()
}

// Snapshot returns the current page of the filtered catalog with facet previews.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := v.filteredLocked()
	total := page.TotalPages(len(filtered), v.sel.PerPage())
	v.sel.GoTo(v.sel.Page(), total)

	facets := make([]facet.Preview, 0, len(facet.All()))
	for _, k := range facet.All() {
		facets = append(facets, v.index.Preview(k, v.opts.PreviewSize))
	}

	return Snapshot{
		Items:      page.Slice(filtered, v.sel.Page(), v.sel.PerPage()),
		Total:      len(filtered),
		Page:       v.sel.Page(),
		TotalPages: total,
		PerPage:    v.sel.PerPage(),
		Query:      v.sel.Query(),
		Sort:       v.sel.Sort(),
		Selected:   v.sel.Tags(),
		Facets:     facets,
		Loaded:     v.loaded,
		LoadErr:    v.loadErr,
	}
}

// Browser opens the "see more" browser for a facet. It shares the view's selection.
func (v *View) Browser(k facet.Kind) *browse.Browser {
	return browse.New(k, v)
}

// Activate adopts the viewport's current page size and subscribes to its
// changes; a new page size reloads the catalog. Activating again replaces
// the previous subscription.
func (v *View) Activate(vp Viewport) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	prev := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if prev != nil {
		prev()
	}
	unsubscribe := vp.Subscribe(func(perPage int) {
		if err := v.SetPerPage(v.ctx, perPage); err != nil && !errors.Is(err, domain.ErrClosed) {
			v.log.Warn("reload after viewport change failed", zap.Int("per_page", perPage), zap.Error(err))
		}
	})

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		unsubscribe()
		return
	}
	v.unsubscribe = unsubscribe
	v.mu.Unlock()

	if n := vp.PerPage(); n > 0 {
		if err := v.SetPerPage(v.ctx, n); err != nil && !errors.Is(err, domain.ErrClosed) {
			v.log.Warn("reload on activate failed", zap.Int("per_page", n), zap.Error(err))
		}
	}
}

// Deactivate drops the viewport subscription and invalidates in-flight reloads.
func (v *View) Deactivate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deactivateLocked()
}

func (v *View) deactivateLocked() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.gen++
}

// Close tears the view down. Later calls that load return ErrClosed.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.deactivateLocked()
	v.closed = true
	v.cancel()
}
