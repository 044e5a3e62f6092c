package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// KV persists JSON documents in Redis. Offers, tags and saved filters are
// small whole-document blobs; readers fall back to their seed value when the
// key is missing, the payload is corrupt, or Redis is unreachable.
type KV struct {
	client *redis.Client
	logger *slog.Logger
}

// NewKV instantiates the document store.
func NewKV(client *redis.Client, logger *slog.Logger) *KV {
	return &KV{client: client, logger: logger}
}

// Load unmarshals the document at key into dest, reporting whether a usable
// document was found. A missing key or corrupt payload is not an error and the
// caller keeps its default; a non-nil error means Redis was unreachable and
// the load should be retried before the default is treated as authoritative.
func (k *KV) Load(ctx context.Context, key string, dest any) (bool, error) {
	if k == nil || k.client == nil {
		return false, nil
	}
	raw, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		if k.logger != nil {
			k.logger.Warn("kv load", slog.String("key", key), slog.Any("error", err))
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if k.logger != nil {
			k.logger.Warn("kv corrupt payload, using defaults", slog.String("key", key), slog.Any("error", err))
		}
		return false, nil
	}
	return true, nil
}

// Save marshals value and writes it at key without expiry.
func (k *KV) Save(ctx context.Context, key string, value any) error {
	if k == nil || k.client == nil {
		return errors.New("shared: kv not configured")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return k.client.Set(ctx, key, raw, 0).Err()
}
