package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SergeyParamoshkin/forum/internal/store"
)

// Redis keeps the JSON encoded snapshot under a single key.
type Redis struct {
	rdb *redis.Client
	key string
}

func OpenRedis(ctx context.Context, url, key string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()

		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{rdb: rdb, key: key}, nil
}

func (r *Redis) Load(ctx context.Context) (*store.Snapshot, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}

	return &snap, nil
}

func (r *Redis) Save(ctx context.Context, snap *store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
