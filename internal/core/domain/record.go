package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MintRecord is one row of the mint ledger: a single (collection, token id,
// recipient) mint event reported after the transaction confirmed on-chain.
// Records are append-only; they are never mutated or deleted.
type MintRecord struct {
	ID              string    `json:"id"`
	Collection      string    `json:"collection"`
	Recipient       string    `json:"recipient"`
	TokenID         int64     `json:"tokenId"`
	TransactionHash string    `json:"transactionHash"`
	MintedAt        time.Time `json:"mintedAt"`
}

// NextTokenSource tells a caller which authority produced a next-token
// answer: the live chain counter, or the local ledger fallback.
type NextTokenSource string

const (
	SourceChain  NextTokenSource = "chain"
	SourceLedger NextTokenSource = "ledger"
)

// NextToken is the result of a next-token-id query. NextTokenID ==
// MaxSupply is the exhaustion sentinel: the collection is sold out and no
// further minting is possible.
type NextToken struct {
	NextTokenID           int64           `json:"nextTokenId"`
	Source                NextTokenSource `json:"source"`
	TotalMintedOnChain    int64           `json:"totalMintedOnChain"`
	LedgerCount           int64           `json:"ledgerCount"`
	ReconciliationWarning bool            `json:"reconciliationWarning,omitempty"`
	SoldOut               bool            `json:"soldOut"`
}

// NormalizeAddress lowercases a hex account address so ledger lookups are
// case-insensitive. The input must already have passed ValidAddress.
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

// ValidAddress reports whether addr has the fixed-length 0x-prefixed hex
// shape of an account address.
func ValidAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

// ValidateMintInput checks the caller-supplied fields of a mint report
// against a collection's bounds. It returns an ErrValidation-wrapped error
// naming the first offending field.
func ValidateMintInput(c *Collection, recipient string, tokenID int64, txHash string) error {
	if c == nil {
		return fmt.Errorf("%w: unknown collection", ErrValidation)
	}
	if !ValidAddress(recipient) {
		return fmt.Errorf("%w: recipient %q is not a valid address", ErrValidation, recipient)
	}
	if tokenID < 0 || tokenID >= c.MaxSupply {
		return fmt.Errorf("%w: token id %d outside [0, %d)", ErrValidation, tokenID, c.MaxSupply)
	}
	if strings.TrimSpace(txHash) == "" {
		return fmt.Errorf("%w: transaction hash is empty", ErrValidation)
	}
	return nil
}
