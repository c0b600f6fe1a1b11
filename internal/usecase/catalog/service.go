package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/page"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/usecase/browse"
)

// Service renders one-shot views for stateless callers such as HTTP handlers.
// Each call loads the catalog into a fresh View.
type Service struct {
	provider Provider
	bps      page.Breakpoints
	opts     Options
}

// NewService creates a Service.
func NewService(p Provider, bps page.Breakpoints, opts Options) *Service {
	if len(bps) == 0 {
		bps = page.DefaultBreakpoints()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{provider: p, bps: bps, opts: opts}
}

// BrowseResult is the content of a facet browser.
type BrowseResult struct {
	Kind    facet.Kind
	Letters []string
	Groups  []browse.Group
}

// Render applies a request to the catalog. A zero width selects the
// default page size; an explicit per-page wins over the width.
func (s *Service) Render(ctx context.Context, req request.Request, width int) (Snapshot, error) {
	perPage := req.PerPage()
	if perPage == 0 {
		perPage = page.DefaultPerPage
		if width > 0 {
			perPage = s.bps.PerPage(width)
		}
	}

	v, err := s.open(ctx, req, perPage)
	if err != nil {
		return Snapshot{}, err
	}
	defer v.Close()

	v.GoTo(req.Page())
	return v.Snapshot(), nil
}

// Browse returns the letter groups of a facet. text and letter are
// exclusive; text wins when both are set.
func (s *Service) Browse(ctx context.Context, k facet.Kind, text, letter string, req request.Request) (BrowseResult, error) {
	v, err := s.open(ctx, req, 0)
	if err != nil {
		return BrowseResult{}, err
	}
	defer v.Close()

	b := v.Browser(k)
	b.SetLetter(letter)
	if text != "" {
		b.SetText(text)
	}
	return BrowseResult{Kind: k, Letters: b.Letters(), Groups: b.Groups()}, nil
}

func (s *Service) open(ctx context.Context, req request.Request, perPage int) (*View, error) {
	opts := s.opts
	opts.PerPage = perPage
	v := NewView(s.provider, opts)

	if err := v.SetSort(ctx, req.Sort()); err != nil {
		v.Close()
		return nil, err
	}
	v.SetQuery(req.Query())
	for _, ref := range req.Tags() {
		if _, err := v.SelectTag(ref.Kind, ref.ID); err != nil {
			v.Close()
			return nil, fmt.Errorf("tag %s: %w", ref, domain.ErrInvalidQuery)
		}
	}
	return v, nil
}
