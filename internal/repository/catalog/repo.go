package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain"
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "facetdex:"

// DefaultLoadTimeout bounds a shared catalog load.
const DefaultLoadTimeout = 30 * time.Second

// store is the consumer interface for the catalog (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	SetMulti(ctx context.Context, items []db.KVSetItem) error
}

// Repo implements usecase/catalog.Provider on top of a key-value store.
// Every project is one JSON value under <prefix>project:<id>.
type Repo struct {
	store       store
	prefix      string
	log         *zap.Logger
	loads       singleflight.Group
	loadTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

// New creates a catalog repository.
func New(s store, prefix string, log *zap.Logger) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{
		store:       s,
		prefix:      prefix,
		log:         log.Named("catalog_repo"),
		loadTimeout: DefaultLoadTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (r *Repo) projectKey(id string) string {
	return r.prefix + "project:" + id
}

// ListProjects returns the whole catalog ordered by the sort key.
// Concurrent calls for the same key share one store round-trip. A caller
// that gives up only stops waiting; the shared load keeps running for the
// others.
func (r *Repo) ListProjects(ctx context.Context, sort domcat.SortKey) (domcat.ListResponse, error) {
	ch := r.loads.DoChan(string(sort), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
		defer cancel()
		return r.load(loadCtx, sort)
	})
	select {
	case <-ctx.Done():
		return domcat.ListResponse{}, fmt.Errorf("list projects: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domcat.ListResponse{}, res.Err
		}
		shared := res.Val.([]domcat.Project)
		return domcat.ListResponse{Success: true, Projects: slices.Clone(shared)}, nil
	}
}

func (r *Repo) load(ctx context.Context, sort domcat.SortKey) ([]domcat.Project, error) {
	keys, err := r.store.Scan(ctx, r.projectKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan projects: %w", err)
	}
	slices.Sort(keys)

	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get projects: %w", err)
	}

	projects := make([]domcat.Project, 0, len(values))
	for i, raw := range values {
		if raw == nil {
			continue // deleted between SCAN and GET
		}
		var p domcat.Project
		if err := json.Unmarshal(raw, &p); err != nil {
			r.log.Warn("skipping malformed project", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		if p.ID == "" {
			p.ID = strings.TrimPrefix(keys[i], r.projectKey(""))
		}
		projects = append(projects, p)
	}

	domcat.Sort(projects, sort)
	return projects, nil
}

// Import upserts projects. Projects without an id get a generated one and
// projects without a creation time are stamped with the current time.
// It returns the stored projects.
func (r *Repo) Import(ctx context.Context, projects []domcat.Project) ([]domcat.Project, error) {
	if len(projects) == 0 {
		return nil, nil
	}

	now := r.now().UTC()
	stored := make([]domcat.Project, len(projects))
	items := make([]db.KVSetItem, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: project %d has no name", domain.ErrInvalidQuery, i)
		}
		if p.ID == "" {
			p.ID = r.newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal project %s: %w", p.ID, err)
		}
		stored[i] = p
		items[i] = db.KVSetItem{Key: r.projectKey(p.ID), Value: data}
	}

	if err := r.store.SetMulti(ctx, items); err != nil {
		return nil, fmt.Errorf("store projects: %w", err)
	}
	r.log.Info("projects imported", zap.Int("count", len(stored)))
	return stored, nil
}

// HealthCheck verifies that the catalog can be read and decoded.
func (r *Repo) HealthCheck(ctx context.Context) error {
	_, err := r.ListProjects(ctx, domcat.SortDefault)
	return err
}
