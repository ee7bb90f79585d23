package domain

import "time"

// TokenTransfer is one NFT transfer event as reported by a block-explorer
// API. The explorer is a black-box data source; fields are passed through
// after decoding, not verified against the chain.
type TokenTransfer struct {
	TransactionHash string    `json:"transactionHash"`
	ContractAddress string    `json:"contractAddress"`
	TokenID         string    `json:"tokenId"`
	TokenName       string    `json:"tokenName"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	BlockNumber     int64     `json:"blockNumber"`
	Timestamp       time.Time `json:"timestamp"`
}
