package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog/catalogtest"
	"github.com/kailas-cloud/facetdex/internal/domain/page"
	searchrepo "github.com/kailas-cloud/facetdex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	"github.com/kailas-cloud/facetdex/internal/usecase/typeahead"
)

type memStore struct {
	mu       sync.Mutex
	projects []domcat.Project
}

func (m *memStore) ListProjects(_ context.Context, sort domcat.SortKey) (domcat.ListResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := append([]domcat.Project(nil), m.projects...)
	domcat.Sort(ps, sort)
	return domcat.ListResponse{Success: true, Projects: ps}, nil
}

func (m *memStore) Import(_ context.Context, ps []domcat.Project) ([]domcat.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domcat.Project, len(ps))
	for i, p := range ps {
		if p.ID == "" {
			p.ID = "imported-" + strings.ToLower(p.Name)
		}
		out[i] = p
	}
	m.projects = append(m.projects, out...)
	return out, nil
}

func (m *memStore) Ping(_ context.Context) error { return nil }

func startServer(t *testing.T, store *memStore) string {
	t.Helper()
	search := searchrepo.New(store, 0, 0)
	resolver := typeahead.New(search, typeahead.Options{})
	t.Cleanup(resolver.Close)
	srv := chiTransport.NewServer(
		store, search,
		cataloguc.NewService(store, page.DefaultBreakpoints(), cataloguc.Options{}),
		resolver,
		healthuc.New(store, nil),
		[]string{"ops-key"},
		zap.NewNop(),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"facetctl"}, args...))
	return out.String(), err
}

func TestImport_YAML(t *testing.T) {
	store := &memStore{}
	url := startServer(t, store)

	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  - name: Billing
    techStack:
      - id: t-go
        name: Go
      - PHP
    client: {id: c-acme, name: Acme}
`), 0o600))

	out, err := run(t, "", "--server", url, "--api-key", "ops-key", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 projects")
	require.Len(t, store.projects, 1)
	assert.Equal(t, "imported-billing", store.projects[0].ID)
	require.Len(t, store.projects[0].TechStack, 2)
	assert.True(t, store.projects[0].TechStack[1].Legacy())
}

func TestImport_JSONList(t *testing.T) {
	store := &memStore{}
	url := startServer(t, store)

	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x1","name":"One"},{"id":"x2","name":"Two"}]`), 0o600))

	out, err := run(t, "", "--server", url, "--api-key", "ops-key", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 projects")
}

func TestImport_Unauthorized(t *testing.T) {
	url := startServer(t, &memStore{})

	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"projects":[{"name":"One"}]}`), 0o600))

	_, err := run(t, "", "--server", url, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestImport_MissingFile(t *testing.T) {
	_, err := run(t, "", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import file is required")
}

func TestList(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "", "--server", url, "list", "--sort", "most-recent")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[1], "p7"), "first row: %q", lines[1])
}

func TestList_InvalidSort(t *testing.T) {
	_, err := run(t, "", "list", "--sort", "oldest")
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "", "--server", url, "search", "kotlin")
	require.NoError(t, err)
	assert.Contains(t, out, "Mobile Banking")
	assert.NotContains(t, out, "Storefront")
}

func TestCatalog(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "", "--server", url, "catalog", "--tag", "techStack:t-react", "--width", "375")
	require.NoError(t, err)
	assert.Contains(t, out, "page 1/1, 3 matching projects, 4 per page")
	assert.Contains(t, out, "selected: techStack:React")
	assert.Contains(t, out, "Design System")
	assert.NotContains(t, out, "Data Pipeline")
}

func TestCatalog_UnknownTag(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	_, err := run(t, "", "--server", url, "catalog", "--tag", "techStack:t-cobol")
	require.Error(t, err)
}

func TestFacets(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "", "--server", url, "facets", "--tag", "client:c-globex", "client")
	require.NoError(t, err)
	assert.Contains(t, out, "letters: A G I U")
	assert.Contains(t, out, "[x] Globex (2)")
	assert.Contains(t, out, "[ ] Acme (2)")
}

func TestFacets_UnknownKind(t *testing.T) {
	_, err := run(t, "", "facets", "colour")
	require.Error(t, err)
}

func TestTypeahead(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "", "--server", url, "typeahead", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "1. client")
	assert.Contains(t, out, "Acme")

	out, err = run(t, "", "--server", url, "typeahead", "--narrow", "techStack:t-react", "react")
	require.NoError(t, err)
	assert.Contains(t, out, "Storefront")
	assert.Contains(t, out, "Admin Console")
	assert.Contains(t, out, "Design System")
}

func TestTypeahead_Interactive(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "sto\nstorefront\n#1\n", "--server", url, "typeahead", "-i", "--debounce", "1h")
	require.NoError(t, err)
	// "sto" is replaced before its debounce expires; only "storefront" resolves.
	assert.Equal(t, 1, strings.Count(out, "--"))
	assert.Contains(t, out, "1. project   Storefront")
	assert.Contains(t, out, "open project p1")
}

func TestTypeahead_InteractiveDismiss(t *testing.T) {
	url := startServer(t, &memStore{projects: catalogtest.Projects()})

	out, err := run(t, "storefront\n!\n#1\n", "--server", url, "typeahead", "-i", "--debounce", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "dismissed")
	assert.Contains(t, out, "no suggestions open")
	assert.NotContains(t, out, "open project")
}

func TestHealth(t *testing.T) {
	url := startServer(t, &memStore{})

	out, err := run(t, "", "--server", url, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "status: ok")
	assert.Contains(t, out, "database: ok")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "", "--log-level", "loud", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
