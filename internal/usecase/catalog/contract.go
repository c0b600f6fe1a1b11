package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

// Provider is the catalog service: it returns the whole catalog in the
// requested order.
type Provider interface {
	ListProjects(ctx context.Context, sort domcat.SortKey) (domcat.ListResponse, error)
}

// Viewport publishes the page size for the current viewport width.
type Viewport interface {
	PerPage() int
	Subscribe(fn func(perPage int)) (unsubscribe func())
}
