package facetdex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
)

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health reports the server's health. A degraded server answers 503 with
// a report; that is returned without error.
func (c *Client) Health(ctx context.Context) (_ HealthStatus, err error) {
	ctx, done := c.obs.start(ctx, "health")
	defer func() { done(err) }()

	u := *c.base
	u.Path += "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("GET /health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthStatus{}, decodeError(resp)
	}
	var body chiTransport.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return HealthStatus{}, fmt.Errorf("%w: decode health: %w", ErrInvalidResponse, err)
	}
	return HealthStatus{Status: body.Status, Checks: body.Checks}, nil
}
