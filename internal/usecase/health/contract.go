package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker checks that the catalog can be read.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}
