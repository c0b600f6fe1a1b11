package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain"
)

// SortKey orders the catalog returned by the catalog service.
type SortKey string

const (
	// SortDefault keeps creation order (oldest first).
	SortDefault SortKey = "default"
	// SortMostRecent puts the newest projects first.
	SortMostRecent SortKey = "most-recent"
)

// ParseSortKey validates a sort key. The empty string means SortDefault.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.TrimSpace(s)) {
	case "", SortDefault:
		return SortDefault, nil
	case SortMostRecent:
		return SortMostRecent, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSort, s)
	}
}

// Sort orders projects in place according to the key. Ties fall back to ID
// so the order is deterministic.
func Sort(projects []Project, key SortKey) {
	slices.SortStableFunc(projects, func(a, b Project) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if key == SortMostRecent {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ListResponse is the catalog service payload.
type ListResponse struct {
	Success  bool      `json:"success"`
	Projects []Project `json:"projects"`
}
