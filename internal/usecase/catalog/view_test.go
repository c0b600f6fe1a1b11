package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog/catalogtest"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/page"
)

// --- Mocks ---

type mockProvider struct {
	mu    sync.Mutex
	calls []domcat.SortKey
	fn    func(ctx context.Context, key domcat.SortKey) (domcat.ListResponse, error)
}

func (m *mockProvider) ListProjects(ctx context.Context, key domcat.SortKey) (domcat.ListResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, key)
	fn := m.fn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, key)
	}
	return fixture(key), nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func fixture(key domcat.SortKey) domcat.ListResponse {
	ps := catalogtest.Projects()
	domcat.Sort(ps, key)
	return domcat.ListResponse{Success: true, Projects: ps}
}

func loadedView(t *testing.T, perPage int) (*View, *mockProvider) {
	t.Helper()
	p := &mockProvider{}
	v := NewView(p, Options{PerPage: perPage})
	t.Cleanup(v.Close)
	if err := v.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return v, p
}

func mustTag(t *testing.T, v *View, k facet.Kind, id string) facet.Tag {
	t.Helper()
	tag, ok := v.Index().Find(k, id)
	if !ok {
		t.Fatalf("tag %s/%s not indexed", k, id)
	}
	return tag
}

func ids(s Snapshot) []string { return catalogtest.IDs(s.Items) }

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Tests ---

func TestView_ReloadAndPaginate(t *testing.T) {
	v, _ := loadedView(t, 3)

	s := v.Snapshot()
	if !s.Loaded || s.Total != 7 || s.TotalPages != 3 || s.Page != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
	if !sameIDs(ids(s), []string{"p1", "p2", "p3"}) {
		t.Errorf("page 1 = %v", ids(s))
	}

	v.GoTo(3)
	if got := ids(v.Snapshot()); !sameIDs(got, []string{"p7"}) {
		t.Errorf("page 3 = %v", got)
	}
	v.Next()
	if v.Snapshot().Page != 3 {
		t.Error("Next on last page must be a no-op")
	}
	v.GoTo(99)
	if v.Snapshot().Page != 3 {
		t.Error("GoTo must clamp to the last page")
	}
	v.GoTo(1)
	v.Prev()
	if v.Snapshot().Page != 1 {
		t.Error("Prev on first page must be a no-op")
	}
}

func TestView_ReactAndAcmeYieldsStorefront(t *testing.T) {
	v, _ := loadedView(t, 9)

	v.ToggleTag(mustTag(t, v, facet.TechStack, catalogtest.React))
	v.ToggleTag(mustTag(t, v, facet.Client, catalogtest.Acme))

	s := v.Snapshot()
	if !sameIDs(ids(s), []string{"p1"}) {
		t.Fatalf("items = %v, want [p1]", ids(s))
	}
	if s.TotalPages != 1 || len(s.Selected) != 2 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestView_FilterChangeResetsPage(t *testing.T) {
	v, _ := loadedView(t, 2)

	v.GoTo(3)
	v.SetQuery("a")
	if v.Snapshot().Page != 1 {
		t.Error("SetQuery must reset the page")
	}

	v.GoTo(2)
	v.ToggleTag(mustTag(t, v, facet.TechStack, catalogtest.Golang))
	if v.Snapshot().Page != 1 {
		t.Error("ToggleTag must reset the page")
	}
}

func TestView_EmptyResultClampsToFirstPage(t *testing.T) {
	v, _ := loadedView(t, 3)
	v.SetQuery("nothing-matches-this")

	s := v.Snapshot()
	if s.Total != 0 || s.TotalPages != 0 || s.Page != 1 || len(s.Items) != 0 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestView_SetSortReloads(t *testing.T) {
	v, p := loadedView(t, 9)

	if err := v.SetSort(context.Background(), domcat.SortMostRecent); err != nil {
		t.Fatalf("SetSort: %v", err)
	}
	if p.callCount() != 2 || p.calls[1] != domcat.SortMostRecent {
		t.Fatalf("calls = %v", p.calls)
	}
	if got := ids(v.Snapshot()); got[0] != "p7" {
		t.Errorf("first item = %s, want p7", got[0])
	}
}

func TestView_SetPerPageReloadsOnlyOnChange(t *testing.T) {
	v, p := loadedView(t, 9)

	if err := v.SetPerPage(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if p.callCount() != 1 {
		t.Errorf("unchanged per-page reloaded: calls = %d", p.callCount())
	}
	if err := v.SetPerPage(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	if p.callCount() != 2 || v.Snapshot().TotalPages != 2 {
		t.Errorf("calls = %d, pages = %d", p.callCount(), v.Snapshot().TotalPages)
	}
}

func TestView_LoadErrorPolicy(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name      string
		policy    LoadErrorPolicy
		resp      domcat.ListResponse
		err       error
		wantTotal int
	}{
		{"keep on transport error", KeepOnError, domcat.ListResponse{}, boom, 7},
		{"clear on transport error", ClearOnError, domcat.ListResponse{}, boom, 0},
		{"keep on unsuccessful response", KeepOnError, domcat.ListResponse{Success: false}, nil, 7},
		{"clear on unsuccessful response", ClearOnError, domcat.ListResponse{Success: false}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{}
			v := NewView(p, Options{OnLoadError: tt.policy})
			defer v.Close()
			if err := v.Reload(context.Background()); err != nil {
				t.Fatal(err)
			}

			p.fn = func(context.Context, domcat.SortKey) (domcat.ListResponse, error) {
				return tt.resp, tt.err
			}
			err := v.Reload(context.Background())
			if !errors.Is(err, domain.ErrCatalogLoad) {
				t.Fatalf("err = %v, want ErrCatalogLoad", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want wrapped %v", err, tt.err)
			}
			var le *domain.LoadError
			if !errors.As(err, &le) || le.Sort != string(domcat.SortDefault) {
				t.Errorf("LoadError sort = %+v", le)
			}

			s := v.Snapshot()
			if s.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", s.Total, tt.wantTotal)
			}
			if s.LoadErr == nil {
				t.Error("snapshot should carry the load error")
			}
		})
	}
}

// blockingFirst makes the first ListProjects call wait for release.
func blockingFirst(p *mockProvider) (started, release chan struct{}) {
	started = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	p.fn = func(_ context.Context, key domcat.SortKey) (domcat.ListResponse, error) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(started)
			<-release
			return domcat.ListResponse{Success: true, Projects: catalogtest.Projects()[:1]}, nil
		}
		return fixture(key), nil
	}
	return started, release
}

func TestView_StaleReloadDiscarded(t *testing.T) {
	p := &mockProvider{}
	started, release := blockingFirst(p)
	v := NewView(p, Options{})
	defer v.Close()

	done := make(chan error, 1)
	go func() { done <- v.Reload(context.Background()) }()
	<-started

	if err := v.SetSort(context.Background(), domcat.SortMostRecent); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale reload returned %v", err)
	}

	s := v.Snapshot()
	if s.Total != 7 || s.Items[0].ID != "p7" {
		t.Errorf("stale response applied: total=%d first=%s", s.Total, s.Items[0].ID)
	}
}

func TestView_DeactivateInvalidatesInFlight(t *testing.T) {
	p := &mockProvider{}
	started, release := blockingFirst(p)
	v := NewView(p, Options{})
	defer v.Close()

	done := make(chan error, 1)
	go func() { done <- v.Reload(context.Background()) }()
	<-started

	v.Deactivate()
	close(release)
	<-done

	if s := v.Snapshot(); s.Loaded || s.Total != 0 {
		t.Errorf("response applied after deactivate: %+v", s)
	}
}

func TestView_ActivateFollowsViewport(t *testing.T) {
	v, p := loadedView(t, page.DefaultPerPage)
	vp := NewWidthSignal(page.DefaultBreakpoints(), 1600)

	v.Activate(vp)
	vp.Resize(500)
	if s := v.Snapshot(); s.PerPage != 4 || s.TotalPages != 2 {
		t.Fatalf("per-page = %d, pages = %d", s.PerPage, s.TotalPages)
	}
	if p.callCount() != 2 {
		t.Errorf("calls = %d, want reload on breakpoint change", p.callCount())
	}

	vp.Resize(600)
	if p.callCount() != 2 {
		t.Error("resize within a breakpoint must not reload")
	}

	v.Deactivate()
	vp.Resize(1000)
	if p.callCount() != 2 || v.Snapshot().PerPage != 4 {
		t.Error("deactivated view must ignore the viewport")
	}
}

func TestView_ActivateAdoptsCurrentPageSize(t *testing.T) {
	v, p := loadedView(t, page.DefaultPerPage)

	v.Activate(NewWidthSignal(page.DefaultBreakpoints(), 400))
	if s := v.Snapshot(); s.PerPage != 4 || s.TotalPages != 2 {
		t.Fatalf("per-page = %d, pages = %d, want 4 and 2", s.PerPage, s.TotalPages)
	}
	if p.callCount() != 2 {
		t.Errorf("calls = %d, want one reload on activate", p.callCount())
	}

	v.Activate(NewWidthSignal(page.DefaultBreakpoints(), 500))
	if p.callCount() != 2 {
		t.Error("activating at the same page size must not reload")
	}
}

func TestView_ReloadResetsPage(t *testing.T) {
	v, p := loadedView(t, 2)

	v.GoTo(3)
	if v.Snapshot().Page != 3 {
		t.Fatal("GoTo(3) did not move")
	}
	if err := v.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := v.Snapshot().Page; got != 1 {
		t.Errorf("page after reload = %d, want 1", got)
	}
	if p.callCount() != 2 {
		t.Errorf("calls = %d", p.callCount())
	}
}

func TestView_Close(t *testing.T) {
	v, _ := loadedView(t, 9)
	v.Close()
	v.Close()

	if err := v.Reload(context.Background()); !errors.Is(err, domain.ErrClosed) {
		t.Errorf("Reload after Close = %v", err)
	}
	if err := v.SetSort(context.Background(), domcat.SortMostRecent); !errors.Is(err, domain.ErrClosed) {
		t.Errorf("SetSort after Close = %v", err)
	}
}

func TestView_SelectTag(t *testing.T) {
	v, _ := loadedView(t, 9)

	if _, err := v.SelectTag(facet.Team, catalogtest.Atlas); err != nil {
		t.Fatal(err)
	}
	if got := ids(v.Snapshot()); !sameIDs(got, []string{"p2", "p4"}) {
		t.Errorf("items = %v", got)
	}
	if _, err := v.SelectTag(facet.Team, "tm-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	v.ClearTags()
	if v.Snapshot().Total != 7 {
		t.Error("ClearTags should restore the full catalog")
	}
}

func TestView_BrowserSharesSelection(t *testing.T) {
	v, _ := loadedView(t, 9)
	b := v.Browser(facet.Client)

	acme := mustTag(t, v, facet.Client, catalogtest.Acme)
	if !b.Toggle(acme) {
		t.Fatal("toggle should select")
	}
	if !v.IsSelected(acme) {
		t.Error("browser toggle not visible in view")
	}
	if got := ids(v.Snapshot()); !sameIDs(got, []string{"p1", "p3"}) {
		t.Errorf("items = %v", got)
	}
}

func TestView_FacetPreviews(t *testing.T) {
	v := NewView(&mockProvider{}, Options{PreviewSize: 3})
	defer v.Close()
	if err := v.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, p := range v.Snapshot().Facets {
		if p.Kind == facet.TechStack {
			if len(p.Tags) != 3 || p.More != 5 || p.Total != 8 {
				t.Errorf("tech preview = %d tags, +%d of %d", len(p.Tags), p.More, p.Total)
			}
		}
	}
}
