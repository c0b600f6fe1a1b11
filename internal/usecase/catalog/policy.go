package catalog

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain"
)

// LoadErrorPolicy decides what happens to the displayed catalog when a reload fails.
type LoadErrorPolicy string

const (
	// KeepOnError keeps the previous catalog.
	KeepOnError LoadErrorPolicy = "keep"
	// ClearOnError empties the catalog.
	ClearOnError LoadErrorPolicy = "clear"
)

// ParseLoadErrorPolicy parses a policy name; empty means keep.
func ParseLoadErrorPolicy(s string) (LoadErrorPolicy, error) {
	switch LoadErrorPolicy(s) {
	case "", KeepOnError:
		return KeepOnError, nil
	case ClearOnError:
		return ClearOnError, nil
	default:
		return "", fmt.Errorf("%w: load error policy %q", domain.ErrInvalidQuery, s)
	}
}
