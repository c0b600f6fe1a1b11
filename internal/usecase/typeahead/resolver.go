// Package typeahead resolves keystrokes into classified, deduplicated
// suggestions with debounce and stale-response suppression.
package typeahead

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/metrics"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultTimeout bounds one search call.
	DefaultTimeout = 5 * time.Second
)

// Options configures a Resolver.
type Options struct {
	Debounce  time.Duration
	Timeout   time.Duration
	Clock     Clock
	Navigator Navigator
	Publish   Publisher
	Logger    *zap.Logger
}

// Resolver is safe for concurrent use. Each search captures a generation
// number when issued; its response is published only if it is still the
// latest search and the resolver is open.
type Resolver struct {
	search   Searcher
	nav      Navigator
	publish  Publisher
	clock    Clock
	debounce time.Duration
	timeout  time.Duration
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	keys     uint64
	timer    Timer
	inflight context.CancelFunc
	query    string
	records  []domcat.Project
	results  []result.Result
	narrowed *result.Key
	open     bool
	closed   bool
}

// New creates a Resolver.
func New(s Searcher, opts Options) *Resolver {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Publish == nil {
		opts.Publish = func([]result.Result) {}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		search:   s,
		nav:      opts.Navigator,
		publish:  opts.Publish,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		timeout:  opts.Timeout,
		log:      log.Named("typeahead"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Type records a keystroke. The pending search, if any, is replaced and
// fires after the debounce period.
func (r *Resolver) Type(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.keys++
	key := r.keys
	r.query = query
	r.timer = r.clock.AfterFunc(r.debounce, func() { r.fire(key, query) })
}

// Flush fires the pending search immediately, as on pressing enter.
func (r *Resolver) Flush() {
	r.mu.Lock()
	if r.closed || r.timer == nil || !r.timer.Stop() {
		r.mu.Unlock()
		return
	}
	key, q := r.keys, r.query
	r.mu.Unlock()
	r.fire(key, q)
}

// fire runs the search for keystroke number key unless a later keystroke
// replaced it.
func (r *Resolver) fire(key uint64, query string) {
	q := strings.TrimSpace(query)

	r.mu.Lock()
	if r.closed || r.timer == nil || key != r.keys {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.gen++
	gen := r.gen
	if r.inflight != nil {
		r.inflight()
		r.inflight = nil
	}
	if q == "" {
		metrics.TypeaheadResolutionsTotal.WithLabelValues("empty").Inc()
		r.records = nil
		r.narrowed = nil
		r.open = false
		r.commitLocked(nil)
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	r.inflight = cancel
	r.mu.Unlock()

	records, err := r.search.SearchAllFields(ctx, q)
	cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen {
		metrics.TypeaheadResolutionsTotal.WithLabelValues("stale").Inc()
		r.log.Debug("stale typeahead response dropped", zap.String("query", q), zap.Uint64("generation", gen))
		return
	}
	r.inflight = nil
	r.narrowed = nil

	if err != nil {
		metrics.TypeaheadResolutionsTotal.WithLabelValues("error").Inc()
		r.log.Error("typeahead search failed", zap.String("query", q), zap.Error(err))
		r.records = nil
		r.open = false
		r.commitLocked(nil)
		return
	}

	res := result.Resolve(q, records)
	metrics.TypeaheadResolutionsTotal.WithLabelValues("published").Inc()
	metrics.TypeaheadResults.Observe(float64(len(res)))
	r.records = records
	r.open = true
	r.commitLocked(res)
}

func (r *Resolver) commitLocked(res []result.Result) {
	r.results = res
	r.publish(append([]result.Result(nil), res...))
}

// Select acts on a suggestion. Projects, clients and teams navigate and
// close the dropdown. Tech stacks and features narrow the suggestions to
// the projects of the last response carrying them; the dropdown stays open.
func (r *Resolver) Select(res result.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	if res.Kind().Navigates() {
		r.open = false
		if r.nav != nil {
			r.nav.Navigate(res.Kind(), res.ID())
		}
		return
	}

	key := res.Key()
	r.narrowed = &key
	r.open = true
	r.commitLocked(result.Carrying(key, r.records))
}

// Narrowed returns the tag selected by the last narrowing Select.
func (r *Resolver) Narrowed() (result.Key, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.narrowed == nil {
		return result.Key{}, false
	}
	return *r.narrowed, true
}

// Results returns the last committed suggestions.
func (r *Resolver) Results() []result.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]result.Result(nil), r.results...)
}

// Open reports whether the dropdown is shown.
func (r *Resolver) Open() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// Dismiss hides the dropdown without touching the results.
func (r *Resolver) Dismiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = false
}

// Close stops pending work. Responses still in flight are discarded.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.cancel()
}

// Resolve runs one search synchronously without debounce or state.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]result.Result, error) {
	_, res, err := r.resolve(ctx, query)
	return res, err
}

// ResolveNarrowed resolves the query and narrows to the projects carrying key.
func (r *Resolver) ResolveNarrowed(ctx context.Context, query string, key result.Key) ([]result.Result, error) {
	if key.Kind == result.Project {
		return nil, fmt.Errorf("%w: cannot narrow by %s", domain.ErrInvalidQuery, key.Kind)
	}
	records, _, err := r.resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	return result.Carrying(key, records), nil
}

func (r *Resolver) resolve(ctx context.Context, query string) ([]domcat.Project, []result.Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		metrics.TypeaheadResolutionsTotal.WithLabelValues("empty").Inc()
		return nil, nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.search.SearchAllFields(ctx, q)
	if err != nil {
		metrics.TypeaheadResolutionsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	res := result.Resolve(q, records)
	metrics.TypeaheadResolutionsTotal.WithLabelValues("published").Inc()
	metrics.TypeaheadResults.Observe(float64(len(res)))
	return records, res, nil
}
