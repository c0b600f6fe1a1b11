package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog/catalogtest"
)

// memory backs the mock store with a map.
func memory(ms *mockStore) map[string][]byte {
	data := map[string][]byte{}
	ms.setMultiFn = func(_ context.Context, items []db.KVSetItem) error {
		for _, it := range items {
			data[it.Key] = it.Value
		}
		return nil
	}
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		prefix := strings.TrimSuffix(pattern, "*")
		var keys []string
		for k := range data {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
		return keys, nil
	}
	ms.getMultiFn = func(_ context.Context, keys []string) ([][]byte, error) {
		out := make([][]byte, len(keys))
		for i, k := range keys {
			out[i] = data[k]
		}
		return out, nil
	}
	return data
}

// --- ListProjects ---

func TestListProjects_Sorted(t *testing.T) {
	repo, ms := newTestRepo(t)
	memory(ms)
	ctx := context.Background()

	if _, err := repo.Import(ctx, catalogtest.Projects()); err != nil {
		t.Fatalf("Import: %v", err)
	}

	tests := []struct {
		sort domcat.SortKey
		want []string
	}{
		{domcat.SortDefault, []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}},
		{domcat.SortMostRecent, []string{"p7", "p6", "p5", "p4", "p3", "p2", "p1"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			resp, err := repo.ListProjects(ctx, tt.sort)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !resp.Success {
				t.Fatal("expected success")
			}
			got := catalogtest.IDs(resp.Projects)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListProjects_RoundTripsLegacyRefs(t *testing.T) {
	repo, ms := newTestRepo(t)
	memory(ms)
	ctx := context.Background()

	if _, err := repo.Import(ctx, catalogtest.Projects()[5:6]); err != nil {
		t.Fatal(err)
	}
	resp, err := repo.ListProjects(ctx, domcat.SortDefault)
	if err != nil {
		t.Fatal(err)
	}
	p := resp.Projects[0]
	if len(p.TechStack) != 2 || !p.TechStack[0].Legacy() || p.TechStack[0].Name != "PHP" {
		t.Errorf("tech stack = %+v", p.TechStack)
	}
	if p.Client != nil {
		t.Errorf("client = %+v, want nil", p.Client)
	}
	if p.TeamName() != "Orion" {
		t.Errorf("team = %q", p.TeamName())
	}
}

func TestListProjects_SkipsMalformed(t *testing.T) {
	repo, ms := newTestRepo(t)
	data := memory(ms)

	data["facetdex:project:ok"] = []byte(`{"name":"Fine","techStack":["Go"]}`)
	data["facetdex:project:bad"] = []byte(`{"name":`)
	data["facetdex:project:wrong"] = []byte(`{"name":"X","techStack":42}`)

	resp, err := repo.ListProjects(context.Background(), domcat.SortDefault)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Projects) != 1 {
		t.Fatalf("projects = %+v, want one", resp.Projects)
	}
	if resp.Projects[0].ID != "ok" {
		t.Errorf("id = %q, want it derived from the key", resp.Projects[0].ID)
	}
}

func TestListProjects_SkipsVanishedKeys(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"facetdex:project:a", "facetdex:project:b"}, nil
	}
	ms.getMultiFn = func(_ context.Context, keys []string) ([][]byte, error) {
		if keys[0] != "facetdex:project:a" {
			t.Errorf("keys not sorted: %v", keys)
		}
		return [][]byte{nil, []byte(`{"id":"b","name":"B"}`)}, nil
	}

	resp, err := repo.ListProjects(context.Background(), domcat.SortDefault)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Projects) != 1 || resp.Projects[0].ID != "b" {
		t.Errorf("projects = %+v", resp.Projects)
	}
}

func TestListProjects_ScanPattern(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "tenant-a:", nil)
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "tenant-a:project:*" {
			t.Errorf("pattern = %q", pattern)
		}
		return nil, nil
	}
	resp, err := repo.ListProjects(context.Background(), domcat.SortDefault)
	if err != nil || !resp.Success || len(resp.Projects) != 0 {
		t.Errorf("resp = %+v, err = %v", resp, err)
	}
}

func TestListProjects_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := &db.Error{Op: db.OpScan, Err: errors.New("LOADING")}
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return nil, storeErr
	}

	resp, err := repo.ListProjects(context.Background(), domcat.SortDefault)
	if err == nil {
		t.Fatal("expected error")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpScan {
		t.Errorf("err = %v, want wrapped db.Error", err)
	}
	if resp.Success {
		t.Error("failed load must not report success")
	}
	if repo.HealthCheck(context.Background()) == nil {
		t.Error("HealthCheck should fail")
	}
}

func TestListProjects_CallerCancelDoesNotFailSharedLoad(t *testing.T) {
	repo, ms := newTestRepo(t)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	ms.scanFn = func(ctx context.Context, _ string) ([]string, error) {
		started <- struct{}{}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []string{"facetdex:project:a"}, nil
	}
	ms.getMultiFn = func(context.Context, []string) ([][]byte, error) {
		return [][]byte{[]byte(`{"id":"a","name":"A"}`)}, nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := repo.ListProjects(firstCtx, domcat.SortDefault)
		firstErr <- err
	}()
	<-started

	type listResult struct {
		resp domcat.ListResponse
		err  error
	}
	second := make(chan listResult, 1)
	go func() {
		resp, err := repo.ListProjects(context.Background(), domcat.SortDefault)
		second <- listResult{resp, err}
	}()
	time.Sleep(50 * time.Millisecond) // let the second caller join the load

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller error = %v, want context.Canceled", err)
	}
	close(release)

	got := <-second
	if got.err != nil {
		t.Fatalf("second caller failed: %v", got.err)
	}
	if len(got.resp.Projects) != 1 || got.resp.Projects[0].ID != "a" {
		t.Errorf("projects = %+v", got.resp.Projects)
	}
	ms.mu.Lock()
	scans := ms.scans
	ms.mu.Unlock()
	if scans != 1 {
		t.Errorf("scans = %d, want one shared load", scans)
	}
}

func TestListProjects_ReturnsIndependentSlices(t *testing.T) {
	repo, ms := newTestRepo(t)
	memory(ms)
	ctx := context.Background()
	if _, err := repo.Import(ctx, catalogtest.Projects()); err != nil {
		t.Fatal(err)
	}

	a, _ := repo.ListProjects(ctx, domcat.SortDefault)
	a.Projects[0].Name = "mutated"
	b, _ := repo.ListProjects(ctx, domcat.SortDefault)
	if b.Projects[0].Name == "mutated" {
		t.Error("callers share the result slice")
	}
}

// --- Import ---

func TestImport_FillsIDAndCreatedAt(t *testing.T) {
	repo, ms := newTestRepo(t)
	data := memory(ms)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	repo.newID = func() string { return "generated" }

	stored, err := repo.Import(context.Background(), []domcat.Project{{Name: "Fresh"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored[0].ID != "generated" || !stored[0].CreatedAt.Equal(fixed) {
		t.Errorf("stored = %+v", stored[0])
	}

	raw, ok := data["facetdex:project:generated"]
	if !ok {
		t.Fatalf("key not written: %v", data)
	}
	var p domcat.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "Fresh" || p.ID != "generated" {
		t.Errorf("decoded = %+v", p)
	}
}

func TestImport_RejectsNameless(t *testing.T) {
	repo, ms := newTestRepo(t)
	called := false
	ms.setMultiFn = func(context.Context, []db.KVSetItem) error {
		called = true
		return nil
	}

	_, err := repo.Import(context.Background(), []domcat.Project{{ID: "x", Name: "  "}})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("err = %v, want ErrInvalidQuery", err)
	}
	if called {
		t.Error("nothing should be written when validation fails")
	}
}

func TestImport_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.setMultiFn = func(context.Context, []db.KVSetItem) error {
		return &db.Error{Op: db.OpSet, Err: errors.New("READONLY")}
	}

	if _, err := repo.Import(context.Background(), catalogtest.Projects()); err == nil {
		t.Fatal("expected error")
	}
}

func TestImport_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	stored, err := repo.Import(context.Background(), nil)
	if err != nil || stored != nil {
		t.Errorf("stored = %v, err = %v", stored, err)
	}
}
