package facetdex

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain"
	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrCatalogLoad     = domain.ErrCatalogLoad
	ErrInvalidResponse = domain.ErrInvalidResponse
	ErrUnknownFacet    = domain.ErrUnknownFacet
	ErrInvalidSort     = domain.ErrInvalidSort
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrSearchFailed    = domain.ErrSearchFailed
	ErrUnauthorized    = errors.New("unauthorized")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("facetdex: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the error code to a sentinel.
func (e *APIError) Unwrap() error {
	switch chiTransport.ErrorCode(e.Code) {
	case chiTransport.ErrorCodeNotFound:
		return ErrNotFound
	case chiTransport.ErrorCodeValidationFailed, chiTransport.ErrorCodeBadRequest:
		return ErrInvalidQuery
	case chiTransport.ErrorCodeInvalidSort:
		return ErrInvalidSort
	case chiTransport.ErrorCodeUnknownFacet:
		return ErrUnknownFacet
	case chiTransport.ErrorCodeCatalogUnavailable:
		return ErrCatalogLoad
	case chiTransport.ErrorCodeSearchFailed:
		return ErrSearchFailed
	case chiTransport.ErrorCodeUnauthorized:
		return ErrUnauthorized
	default:
		return nil
	}
}
