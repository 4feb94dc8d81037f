// Package store persists ledger snapshots with optimistic versioning.
package store

import (
	"context"
	"fmt"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// Snapshot is a serialized ledger state and the version it was saved at.
// Version 0 means nothing has been saved yet.
type Snapshot struct {
	Data    []byte
	Version uint64
}

// Snapshots loads and saves ledger snapshots. Save fails with
// types.ErrVersionConflict unless expectedVersion is the latest version.
type Snapshots interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, data []byte, expectedVersion uint64) (uint64, error)
	Close() error
}

const defaultKey = "token-bridge-relayer:ledger"

// New builds the backend named in cfg.
func New(cfg types.StoreConfig) (Snapshots, error) {
	switch cfg.Backend {
	case "", types.StoreBackendMemory:
		return NewMemory(), nil
	case types.StoreBackendRedis:
		key := cfg.Key
		if key == "" {
			key = defaultKey
		}
		return NewRedis(cfg.RedisURL, key)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
