package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores has_role answers as one hash per subject so a role change
// can drop every answer for that subject with a single DEL. A counter key
// per subject carries the invalidation epoch.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "authz:roles:"}
}

func (r *Redis) Get(ctx context.Context, subjectID string, roleName string) (bool, bool, error) {
	value, err := r.client.HGet(ctx, r.key(subjectID), roleName).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return value == "1", true, nil
}

func (r *Redis) Epoch(ctx context.Context, subjectID string) (uint64, error) {
	return readEpoch(ctx, r.client, r.epochKey(subjectID))
}

// Set watches the epoch key, so an Invalidate landing between the check and
// the write aborts the transaction instead of caching a stale answer.
func (r *Redis) Set(ctx context.Context, subjectID string, roleName string, hasRole bool, epoch uint64, ttl time.Duration) (bool, error) {
	value := "0"
	if hasRole {
		value = "1"
	}
	key := r.key(subjectID)
	epochKey := r.epochKey(subjectID)
	stored := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readEpoch(ctx, tx, epochKey)
		if err != nil {
			return err
		}
		if current != epoch {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, roleName, value)
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, epochKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored, nil
}

func (r *Redis) Invalidate(ctx context.Context, subjectID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.epochKey(subjectID))
		pipe.Del(ctx, r.key(subjectID))
		return nil
	})
	return err
}

func (r *Redis) key(subjectID string) string {
	return r.prefix + subjectID
}

func (r *Redis) epochKey(subjectID string) string {
	return r.prefix + "epoch:" + subjectID
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readEpoch(ctx context.Context, client stringGetter, key string) (uint64, error) {
	raw, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}
