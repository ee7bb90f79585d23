package port

import (
	"context"
	"time"
)

// CacheRepository is an optional collaborator probed at startup; when the
// backend is unreachable the service runs against a no-op implementation.
type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if
	// already set.
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency drops a key set by SetIdempotency (rollback when
	// the guarded write did not go through).
	ReleaseIdempotency(ctx context.Context, key string) error

	// SetChainCount remembers the last good on-chain count for a collection.
	SetChainCount(ctx context.Context, collection string, count int64) error

	// GetChainCount returns the remembered count, or found=false when the
	// key is missing or expired.
	GetChainCount(ctx context.Context, collection string) (count int64, found bool, err error)

	// SetActivity caches a serialized explorer response for an address.
	SetActivity(ctx context.Context, address string, payload []byte, ttl time.Duration) error

	// GetActivity returns the cached explorer response, or found=false.
	GetActivity(ctx context.Context, address string) (payload []byte, found bool, err error)
}
