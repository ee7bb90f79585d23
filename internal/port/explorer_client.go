package port

import (
	"context"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

type ExplorerClient interface {
	// TokenTransfers returns the NFT transfer history for an address as
	// reported by a block-explorer API, newest first.
	TokenTransfers(ctx context.Context, address string) ([]domain.TokenTransfer, error)
}
