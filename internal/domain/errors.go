package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrCatalogLoad signals that the catalog service could not produce a catalog.
	ErrCatalogLoad = errors.New("catalog load failed")
	// ErrInvalidResponse signals a collaborator response with an unexpected shape.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrUnknownFacet signals a facet kind outside techStack, client, team, features.
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrInvalidSort signals an unsupported sort key.
	ErrInvalidSort = errors.New("invalid sort key")
	// ErrInvalidQuery signals a malformed request parameter.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSearchFailed signals a search service failure.
	ErrSearchFailed = errors.New("search failed")
	// ErrClosed signals use of a view or resolver after teardown.
	ErrClosed = errors.New("closed")
)

// LoadError wraps ErrCatalogLoad with the sort key that was being loaded.
type LoadError struct {
	Sort string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (sort=%s)", ErrCatalogLoad.Error(), e.Sort)
	}
	return fmt.Sprintf("%s (sort=%s): %s", ErrCatalogLoad.Error(), e.Sort, e.Err.Error())
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCatalogLoad}
	}
	return []error{ErrCatalogLoad, e.Err}
}

// NewLoadError creates a catalog load error for the given sort key.
func NewLoadError(sort string, err error) error {
	return &LoadError{Sort: sort, Err: err}
}
