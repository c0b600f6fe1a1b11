package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ListProjectsParams are the query parameters of GET /projects.
type ListProjectsParams struct {
	Sort *string
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q *string
}

// CatalogParams are the query parameters of GET /catalog.
type CatalogParams struct {
	Q       *string
	Tag     *[]string
	Sort    *string
	Page    *int
	PerPage *int
	Width   *int
}

// FacetParams are the query parameters of GET /facets/{kind}.
type FacetParams struct {
	Q      *string
	Letter *string
	Tag    *[]string
	Sort   *string
}

// TypeaheadParams are the query parameters of GET /typeahead.
type TypeaheadParams struct {
	Q      *string
	Narrow *string
}

// queryParam binds one optional form-style query parameter.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

func bindListProjectsParams(r *http.Request) (ListProjectsParams, error) {
	var p ListProjectsParams
	err := queryParam(r, "sort", &p.Sort)
	return p, err
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	err := queryParam(r, "q", &p.Q)
	return p, err
}

func bindCatalogParams(r *http.Request) (CatalogParams, error) {
	var p CatalogParams
	for name, dest := range map[string]any{
		"q":        &p.Q,
		"tag":      &p.Tag,
		"sort":     &p.Sort,
		"page":     &p.Page,
		"per_page": &p.PerPage,
		"width":    &p.Width,
	} {
		if err := queryParam(r, name, dest); err != nil {
			return CatalogParams{}, err
		}
	}
	return p, nil
}

func bindFacetParams(r *http.Request) (FacetParams, error) {
	var p FacetParams
	for name, dest := range map[string]any{
		"q":      &p.Q,
		"letter": &p.Letter,
		"tag":    &p.Tag,
		"sort":   &p.Sort,
	} {
		if err := queryParam(r, name, dest); err != nil {
			return FacetParams{}, err
		}
	}
	return p, nil
}

func bindTypeaheadParams(r *http.Request) (TypeaheadParams, error) {
	var p TypeaheadParams
	if err := queryParam(r, "q", &p.Q); err != nil {
		return TypeaheadParams{}, err
	}
	if err := queryParam(r, "narrow", &p.Narrow); err != nil {
		return TypeaheadParams{}, err
	}
	return p, nil
}

// kindParam binds the {kind} path segment.
func kindParam(r *http.Request) (string, error) {
	var kind string
	err := runtime.BindStyledParameterWithOptions("simple", "kind", chi.URLParam(r, "kind"), &kind,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter kind: %w", err)
	}
	return kind, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefStrings(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
