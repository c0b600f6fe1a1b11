package db

import (
	"context"
	"time"
)

// Store is the database facade. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVSetItem holds a single key+value pair for pipelined SET.
type KVSetItem struct {
	Key   string
	Value []byte
}

// KVStore provides the batched key-value operations the catalog needs.
type KVStore interface {
	// GetMulti returns one entry per key; missing keys yield nil.
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	SetMulti(ctx context.Context, items []KVSetItem) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}
