package port

import (
	"context"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

type LedgerStore interface {
	// Append persists one mint record durably before returning. The store
	// enforces uniqueness on (collection, tokenID) and rejects a second
	// record for the same id with domain.ErrDuplicateToken.
	Append(ctx context.Context, rec domain.MintRecord) error

	// ByRecipient returns all records for (collection, recipient) ordered
	// by MintedAt ascending. Empty slice when none exist.
	ByRecipient(ctx context.Context, collection, recipient string) ([]domain.MintRecord, error)

	// CountByCollection returns the collection-wide record count, since
	// token ids are globally sequential within a collection.
	CountByCollection(ctx context.Context, collection string) (int64, error)

	Close() error
}
