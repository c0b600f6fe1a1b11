package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	"github.com/kailas-cloud/facetdex/internal/usecase/typeahead"
)

const (
	maxImportSize  = 1000
	maxImportBytes = 8 << 20
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// ProjectStore lists and imports catalog projects.
type ProjectStore interface {
	ListProjects(ctx context.Context, sort domcat.SortKey) (domcat.ListResponse, error)
	Import(ctx context.Context, projects []domcat.Project) ([]domcat.Project, error)
}

// Searcher runs the all-fields search.
type Searcher interface {
	SearchAllFields(ctx context.Context, query string) ([]domcat.Project, error)
}

// cacheInvalidator is implemented by searchers that cache results.
type cacheInvalidator interface {
	Invalidate()
}

// Server serves the catalog browsing API.
type Server struct {
	projects      ProjectStore
	search        Searcher
	views         *cataloguc.Service
	typeahead     *typeahead.Resolver
	health        *healthuc.Service
	apiKeys       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. apiKeys guard the write routes;
// an empty list disables auth.
func NewServer(
	projects ProjectStore,
	search Searcher,
	views *cataloguc.Service,
	resolver *typeahead.Resolver,
	health *healthuc.Service,
	apiKeys []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		projects:  projects,
		search:    search,
		views:     views,
		typeahead: resolver,
		health:    health,
		apiKeys:   apiKeys,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidSort, http.StatusBadRequest, ErrorCodeInvalidSort),
		sentinelHandler(domain.ErrUnknownFacet, http.StatusBadRequest, ErrorCodeUnknownFacet),
		sentinelHandler(domain.ErrSearchFailed, http.StatusBadGateway, ErrorCodeSearchFailed),
		sentinelHandler(domain.ErrCatalogLoad, http.StatusServiceUnavailable, ErrorCodeCatalogUnavailable),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/projects", s.ListProjects)
	r.Get("/search", s.Search)
	r.Get("/catalog", s.Catalog)
	r.Get("/facets/{kind}", s.BrowseFacet)
	r.Get("/typeahead", s.Typeahead)

	r.With(RequireAPIKey(s.apiKeys)).Put("/projects", s.ImportProjects)
}

// Handler returns a router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

// ListProjects returns the whole catalog in the requested order.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	params, err := bindListProjectsParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	sort, err := domcat.ParseSortKey(derefString(params.Sort))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.projects.ListProjects(r.Context(), sort)
	if err != nil {
		s.handleDomainError(w, domain.NewLoadError(string(sort), err))
		return
	}
	if resp.Projects == nil {
		resp.Projects = []domcat.Project{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search returns every project with any field containing q.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	q := derefString(params.Q)
	if len(q) > request.MaxQueryLength {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("query too long (max %d chars)", request.MaxQueryLength))
		return
	}

	data, err := s.search.SearchAllFields(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err))
		return
	}
	if data == nil {
		data = []domcat.Project{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Data: data})
}

// Catalog renders one page of the filtered catalog with facet previews.
func (s *Server) Catalog(w http.ResponseWriter, r *http.Request) {
	params, err := bindCatalogParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	width := derefInt(params.Width)
	if width < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "width must be non-negative")
		return
	}

	req, err := request.New(
		derefString(params.Q), derefStrings(params.Tag), derefString(params.Sort),
		derefInt(params.Page), derefInt(params.PerPage),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	snap, err := s.views.Render(r.Context(), req, width)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(snap))
}

// BrowseFacet lists the tags of one facet grouped by first letter.
func (s *Server) BrowseFacet(w http.ResponseWriter, r *http.Request) {
	name, err := kindParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	kind, err := facet.ParseKind(name)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrorCodeUnknownFacet, err.Error())
		return
	}
	params, err := bindFacetParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	req, err := request.New("", derefStrings(params.Tag), derefString(params.Sort), 1, 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.views.Browse(r.Context(), kind, derefString(params.Q), derefString(params.Letter), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, browseToAPI(res))
}

// Typeahead resolves a query into deduplicated suggestions. narrow, when
// set, restricts the result to projects carrying the given tech stack or
// feature.
func (s *Server) Typeahead(w http.ResponseWriter, r *http.Request) {
	params, err := bindTypeaheadParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	q := derefString(params.Q)
	if len(q) > request.MaxQueryLength {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("query too long (max %d chars)", request.MaxQueryLength))
		return
	}

	var (
		res    []result.Result
		narrow string
	)
	if params.Narrow != nil && *params.Narrow != "" {
		key, perr := result.ParseKey(*params.Narrow)
		if perr != nil {
			s.handleDomainError(w, perr)
			return
		}
		narrow = key.String()
		res, err = s.typeahead.ResolveNarrowed(r.Context(), q, key)
	} else {
		res, err = s.typeahead.Resolve(r.Context(), q)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TypeaheadResponse{
		Query:    q,
		Narrowed: narrow,
		Results:  suggestionsToAPI(res),
	})
}

// ImportProjects stores a batch of projects. Projects without an id get one.
func (s *Server) ImportProjects(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Projects) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "projects must not be empty")
		return
	}
	if len(req.Projects) > maxImportSize {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("import exceeds maximum of %d projects", maxImportSize))
		return
	}

	stored, err := s.projects.Import(r.Context(), req.Projects)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if c, ok := s.search.(cacheInvalidator); ok {
		c.Invalidate()
	}

	writeJSON(w, http.StatusOK, ImportResponse{Imported: len(stored), Projects: stored})
}

// HealthCheck reports storage and catalog health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToAPI(report))
}

// Metrics serves Prometheus metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation errors carry caller input only and are returned in full.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrInvalidQuery, domain.ErrInvalidSort, domain.ErrUnknownFacet} {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrSearchFailed,
		domain.ErrCatalogLoad,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
