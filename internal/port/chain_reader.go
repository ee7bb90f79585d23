package port

import (
	"context"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

type ChainReader interface {
	// TotalMinted reads the collection's on-chain supply counter. Zero is a
	// valid count; implementations must surface timeouts and connection
	// failures as errors, never as zero.
	TotalMinted(ctx context.Context, c *domain.Collection) (int64, error)
}
