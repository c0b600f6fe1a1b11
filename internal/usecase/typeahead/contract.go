package typeahead

import (
	"context"
	"time"

	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
)

// Searcher is the search service: it returns every record with any field
// containing the query.
type Searcher interface {
	SearchAllFields(ctx context.Context, query string) ([]domcat.Project, error)
}

// Navigator opens the detail view of a project, client or team.
type Navigator interface {
	Navigate(kind result.Kind, id string)
}

// Publisher receives every result list the resolver commits. It is called
// with the resolver's lock held and must not call back into the Resolver.
type Publisher func(results []result.Result)

// Clock schedules debounce timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a stoppable scheduled call.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
