package facetdex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration

	breakpoints Breakpoints
	legacy      LegacyPolicy
	debounce    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithAPIKey sets the bearer token sent with write requests.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped for tracing.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout bounds every request. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithBreakpoints sets the width to page size table used by NewWidthSignal.
func WithBreakpoints(bps Breakpoints) Option {
	return optionFunc(func(c *clientConfig) {
		c.breakpoints = bps
	})
}

// WithLegacyPolicy selects when the name substring fallback applies to
// selected tags. Default: LegacyOnly.
func WithLegacyPolicy(p LegacyPolicy) Option {
	return optionFunc(func(c *clientConfig) {
		c.legacy = p
	})
}

// WithDebounce sets the typeahead quiet period. Default: 300ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.debounce = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
