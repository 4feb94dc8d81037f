package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

const (
	fieldData    = "data"
	fieldVersion = "version"
)

// Redis keeps the snapshot in a hash and guards writes with WATCH/MULTI so
// that concurrent writers detect each other.
type Redis struct {
	client *redis.Client
	key    string
}

var _ Snapshots = (*Redis)(nil)

func NewRedis(redisURL, key string) (*Redis, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client, key: key}, nil
}

func (r *Redis) Load(ctx context.Context) (Snapshot, error) {
	return load(ctx, r.client, r.key)
}

type hashGetter interface {
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

func load(ctx context.Context, c hashGetter, key string) (Snapshot, error) {
	var raw struct {
		Data    string `redis:"data"`
		Version uint64 `redis:"version"`
	}
	if err := c.HMGet(ctx, key, fieldData, fieldVersion).Scan(&raw); err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return Snapshot{Data: []byte(raw.Data), Version: raw.Version}, nil
}

func (r *Redis) Save(ctx context.Context, data []byte, expectedVersion uint64) (uint64, error) {
	next := expectedVersion + 1
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		latest, err := load(ctx, tx, r.key)
		if err != nil {
			return err
		}
		if latest.Version != expectedVersion {
			return fmt.Errorf("%w: expected %d, latest %d", types.ErrVersionConflict, expectedVersion, latest.Version)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.key, fieldData, data, fieldVersion, next)
			return nil
		})
		return err
	}, r.key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return 0, fmt.Errorf("%w: snapshot changed during save", types.ErrVersionConflict)
	case err != nil:
		return 0, err
	}
	return next, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
