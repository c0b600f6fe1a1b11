package facetdex

import (
	"github.com/kailas-cloud/facetdex/internal/domain/page"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	"github.com/kailas-cloud/facetdex/internal/usecase/typeahead"
)

// ViewOption configures a View created by the client.
type ViewOption func(*cataloguc.Options)

// WithViewPerPage sets the initial page size. Default: 9.
func WithViewPerPage(n int) ViewOption {
	return func(o *cataloguc.Options) { o.PerPage = n }
}

// WithViewPreviewSize sets how many tags each facet preview shows.
func WithViewPreviewSize(n int) ViewOption {
	return func(o *cataloguc.Options) { o.PreviewSize = n }
}

// WithViewClearOnError drops the loaded catalog when a reload fails
// instead of keeping the last good one.
func WithViewClearOnError() ViewOption {
	return func(o *cataloguc.Options) { o.OnLoadError = cataloguc.ClearOnError }
}

// NewView creates a client-held view backed by this client. Call Reload
// to fetch the catalog and Close when done.
func (c *Client) NewView(opts ...ViewOption) *View {
	o := cataloguc.Options{Legacy: c.cfg.legacy}
	for _, fn := range opts {
		fn(&o)
	}
	return cataloguc.NewView(c, o)
}

// NewWidthSignal returns a viewport source for View.Activate, using the
// client's breakpoints.
func (c *Client) NewWidthSignal(width int) *WidthSignal {
	bps := c.cfg.breakpoints
	if len(bps) == 0 {
		bps = page.DefaultBreakpoints()
	}
	return cataloguc.NewWidthSignal(bps, width)
}

// NewResolver creates a debounced typeahead resolver backed by this
// client. publish receives every committed result list; nav opens detail
// views and may be nil.
func (c *Client) NewResolver(publish func([]Result), nav Navigator) *Resolver {
	return typeahead.New(c, typeahead.Options{
		Debounce:  c.cfg.debounce,
		Navigator: nav,
		Publish:   publish,
	})
}
