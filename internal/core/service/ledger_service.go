package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/port"
)

// LedgerService tracks which sequential token ids have been minted for the
// registered collections and answers next-token-id queries by reconciling
// the local ledger with the authoritative on-chain supply counter.
type LedgerService struct {
	registry domain.Registry
	store    port.LedgerStore
	chain    port.ChainReader
	cache    port.CacheRepository
	logger   log.Logger
}

func NewLedgerService(registry domain.Registry, store port.LedgerStore, chain port.ChainReader, cache port.CacheRepository, logger log.Logger) *LedgerService {
	return &LedgerService{
		registry: registry,
		store:    store,
		chain:    chain,
		cache:    cache,
		logger:   logger,
	}
}

// Collections lists the registered collections.
func (s *LedgerService) Collections() []*domain.Collection {
	return s.registry.List()
}

// RecordMint validates and durably appends one mint report. The record is
// persisted before the call returns; a second report for the same
// (collection, token id) is rejected with domain.ErrDuplicateToken.
func (s *LedgerService) RecordMint(ctx context.Context, collection, recipient string, tokenID int64, txHash string) (domain.MintRecord, error) {
	c := s.registry.Lookup(collection)
	if err := domain.ValidateMintInput(c, recipient, tokenID, txHash); err != nil {
		return domain.MintRecord{}, err
	}

	// Cheap front guard against double-submitted reports; the store's
	// uniqueness constraint is the real arbiter.
	idempotencyKey := fmt.Sprintf("mint:%s:%d", collection, tokenID)
	ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		level.Warn(s.logger).Log("msg", "idempotency check skipped", "err", err)
	} else if !ok {
		return domain.MintRecord{}, fmt.Errorf("%w: token id %d", domain.ErrDuplicateToken, tokenID)
	}

	rec := domain.MintRecord{
		ID:              uuid.NewString(),
		Collection:      collection,
		Recipient:       domain.NormalizeAddress(recipient),
		TokenID:         tokenID,
		TransactionHash: txHash,
		MintedAt:        time.Now().UTC(),
	}

	if err := s.store.Append(ctx, rec); err != nil {
		// Roll back the guard so a retry after a storage failure is not
		// mistaken for a duplicate report. A real duplicate keeps the key.
		// The release must run even when the caller already gave up.
		if !errors.Is(err, domain.ErrDuplicateToken) {
			if relErr := s.cache.ReleaseIdempotency(context.WithoutCancel(ctx), idempotencyKey); relErr != nil {
				level.Warn(s.logger).Log("msg", "idempotency key not released", "key", idempotencyKey, "err", relErr)
			}
		}
		return domain.MintRecord{}, err
	}
	return rec, nil
}

// GetMints returns all recorded mints for (collection, recipient) ordered
// by MintedAt ascending. An unknown recipient yields an empty slice.
func (s *LedgerService) GetMints(ctx context.Context, collection, recipient string) ([]domain.MintRecord, error) {
	if s.registry.Lookup(collection) == nil {
		return nil, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, collection)
	}
	if !domain.ValidAddress(recipient) {
		return nil, fmt.Errorf("%w: recipient %q is not a valid address", domain.ErrValidation, recipient)
	}
	return s.store.ByRecipient(ctx, collection, domain.NormalizeAddress(recipient))
}

// NextTokenID computes the next safe token id to offer for minting. The
// chain counter is authoritative when reachable; the ledger count is the
// fallback. The result is clamped at MaxSupply, which is the sold-out
// sentinel. The query never writes to the ledger.
func (s *LedgerService) NextTokenID(ctx context.Context, collection string) (domain.NextToken, error) {
	c := s.registry.Lookup(collection)
	if c == nil {
		return domain.NextToken{}, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, collection)
	}

	chainCount, chainErr := s.chain.TotalMinted(ctx, c)
	ledgerCount, storeErr := s.store.CountByCollection(ctx, collection)

	if chainErr != nil && storeErr != nil {
		return domain.NextToken{}, fmt.Errorf("%w: chain: %v; store: %v", domain.ErrUnavailable, chainErr, storeErr)
	}

	res := domain.NextToken{LedgerCount: ledgerCount}
	switch {
	case chainErr == nil:
		res.Source = domain.SourceChain
		res.TotalMintedOnChain = chainCount
		res.NextTokenID = chainCount
		if storeErr == nil && chainCount < ledgerCount {
			// The ledger cannot legitimately be ahead of the chain.
			res.ReconciliationWarning = true
			level.Warn(s.logger).Log("msg", "ledger ahead of chain", "collection", collection, "chain", chainCount, "ledger", ledgerCount)
		}
		if err := s.cache.SetChainCount(ctx, collection, chainCount); err != nil {
			level.Debug(s.logger).Log("msg", "chain count not cached", "err", err)
		}
	default:
		level.Warn(s.logger).Log("msg", "chain unreachable, serving from ledger", "collection", collection, "err", chainErr)
		res.Source = domain.SourceLedger
		res.NextTokenID = ledgerCount
	}

	if res.NextTokenID >= c.MaxSupply {
		res.NextTokenID = c.MaxSupply
		res.SoldOut = true
	}
	return res, nil
}

// Metadata builds the metadata document for one token of a collection.
func (s *LedgerService) Metadata(collection string, tokenID int64) (domain.TokenMetadata, error) {
	c := s.registry.Lookup(collection)
	if c == nil {
		return domain.TokenMetadata{}, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, collection)
	}
	if tokenID < 0 || tokenID >= c.MaxSupply {
		return domain.TokenMetadata{}, fmt.Errorf("%w: token id %d outside [0, %d)", domain.ErrValidation, tokenID, c.MaxSupply)
	}
	return domain.MetadataFor(c, tokenID), nil
}
