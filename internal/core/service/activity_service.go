package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/port"
)

// ActivityService serves per-address NFT transfer history from a
// block-explorer API, with a short-lived cache in front of it.
type ActivityService struct {
	explorer port.ExplorerClient
	cache    port.CacheRepository
	cacheTTL time.Duration
	logger   log.Logger
}

func NewActivityService(explorer port.ExplorerClient, cache port.CacheRepository, cacheTTL time.Duration, logger log.Logger) *ActivityService {
	return &ActivityService{
		explorer: explorer,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Transfers returns the transfer history for an address, preferring a
// cached copy. An explorer failure with no cached copy is surfaced to the
// caller; a cache failure never is.
func (s *ActivityService) Transfers(ctx context.Context, address string) ([]domain.TokenTransfer, error) {
	if !domain.ValidAddress(address) {
		return nil, fmt.Errorf("%w: %q is not a valid address", domain.ErrValidation, address)
	}
	addr := domain.NormalizeAddress(address)

	if payload, found, err := s.cache.GetActivity(ctx, addr); err == nil && found {
		var transfers []domain.TokenTransfer
		if err := json.Unmarshal(payload, &transfers); err == nil {
			return transfers, nil
		}
		level.Warn(s.logger).Log("msg", "discarding corrupt cached activity", "address", addr)
	}

	transfers, err := s.explorer.TokenTransfers(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("explorer query for %s: %w", addr, err)
	}

	if payload, err := json.Marshal(transfers); err == nil {
		if err := s.cache.SetActivity(ctx, addr, payload, s.cacheTTL); err != nil {
			level.Debug(s.logger).Log("msg", "activity not cached", "err", err)
		}
	}
	return transfers, nil
}
