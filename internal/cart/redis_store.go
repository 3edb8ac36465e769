package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-retail-pos/pkg/redis"
)

// RedisSnapshotStore keeps cart state as a JSON string in Redis so carts
// survive restarts and session hops.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore builds a snapshot store. A zero TTL keeps carts until
// they are explicitly cleared.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func (r *RedisSnapshotStore) Save(ctx context.Context, key string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, payload, r.ttl)
}

// Load returns the stored state, or (nil, nil) on a miss or on a blob written
// under a different schema version.
func (r *RedisSnapshotStore) Load(ctx context.Context, key string) (*State, error) {
	raw, err := r.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, err
	}
	if state.Version != SchemaVersion {
		return nil, nil
	}
	return &state, nil
}
