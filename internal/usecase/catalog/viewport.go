package catalog

import (
	"sync"

	"github.com/kailas-cloud/facetdex/internal/domain/page"
)

// WidthSignal turns viewport widths into page-size notifications.
// Subscribers hear only about changes that cross a breakpoint.
type WidthSignal struct {
	bps page.Breakpoints

	mu      sync.Mutex
	perPage int
	nextID  int
	subs    map[int]func(int)
}

// NewWidthSignal starts at the given width.
func NewWidthSignal(bps page.Breakpoints, width int) *WidthSignal {
	return &WidthSignal{
		bps:     bps,
		perPage: bps.PerPage(width),
		subs:    make(map[int]func(int)),
	}
}

// PerPage returns the page size for the last width.
func (w *WidthSignal) PerPage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.perPage
}

// Subscribe registers fn. It is not called with the current value.
func (w *WidthSignal) Subscribe(fn func(perPage int)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
		})
	}
}

// Resize records a new width and notifies subscribers if the page size changed.
// Callbacks run on the caller's goroutine.
func (w *WidthSignal) Resize(width int) {
	w.mu.Lock()
	n := w.bps.PerPage(width)
	if n == w.perPage {
		w.mu.Unlock()
		return
	}
	w.perPage = n
	fns := make([]func(int), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}
