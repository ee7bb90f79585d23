package storage

import (
	"context"
	"time"
)

// NopCache stands in when no cache backend is reachable. Idempotency checks
// always pass, so the ledger store's uniqueness constraint is the only
// duplicate guard in that configuration.
type NopCache struct{}

func NewNopCache() NopCache { return NopCache{} }

func (NopCache) SetIdempotency(ctx context.Context, key string) (bool, error) { return true, nil }

func (NopCache) ReleaseIdempotency(ctx context.Context, key string) error { return nil }

func (NopCache) SetChainCount(ctx context.Context, collection string, count int64) error { return nil }

func (NopCache) GetChainCount(ctx context.Context, collection string) (int64, bool, error) {
	return 0, false, nil
}

func (NopCache) SetActivity(ctx context.Context, address string, payload []byte, ttl time.Duration) error {
	return nil
}

func (NopCache) GetActivity(ctx context.Context, address string) ([]byte, bool, error) {
	return nil, false, nil
}
