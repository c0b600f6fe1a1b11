package facetdex

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog/catalogtest"
	"github.com/kailas-cloud/facetdex/internal/domain/search/match"
	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
)

// fakeServer answers the catalog API from the shared fixture.
type fakeServer struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	handler  func(w http.ResponseWriter, r *http.Request) bool
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, string(body))
	h := f.handler
	f.mu.Unlock()
	if h != nil && h(w, r) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/projects":
		ps := catalogtest.Projects()
		if r.URL.Query().Get("sort") == string(SortMostRecent) {
			for i, j := 0, len(ps)-1; i < j; i, j = i+1, j-1 {
				ps[i], ps[j] = ps[j], ps[i]
			}
		}
		_ = json.NewEncoder(w).Encode(ListResponse{Success: true, Projects: ps})
	case r.Method == http.MethodGet && r.URL.Path == "/search":
		q := strings.ToLower(r.URL.Query().Get("q"))
		out := []Project{}
		for _, p := range catalogtest.Projects() {
			for _, field := range match.Fields(&p) {
				if strings.Contains(field, q) {
					out = append(out, p)
					break
				}
			}
		}
		_ = json.NewEncoder(w).Encode(chiTransport.SearchResponse{Data: out})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{Code: chiTransport.ErrorCodeNotFound, Message: "not found"})
	}
}

func (f *fakeServer) lastRequest() (*http.Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil, ""
	}
	return f.requests[len(f.requests)-1], f.bodies[len(f.bodies)-1]
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, fake
}

type recordingNavigator struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNavigator) Navigate(kind ResultKind, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, string(kind)+":"+id)
}
