package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or expired. Callers cannot
// distinguish the two cases.
var ErrMiss = errors.New("cache: key not found")

// Cache is the shared key-value store with per-key TTLs. Handlers and the
// verification code store receive it as an injected dependency so tests can
// substitute the in-memory implementation.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
