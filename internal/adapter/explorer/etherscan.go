package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/port"
)

// EtherscanClient fetches per-address NFT transfer history from an
// Etherscan-compatible API. The explorer is an external data source
// returning JSON; responses are decoded and passed through.
type EtherscanClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

var _ port.ExplorerClient = (*EtherscanClient)(nil)

func NewEtherscanClient(baseURL, apiKey string, timeout time.Duration) *EtherscanClient {
	return &EtherscanClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type etherscanEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"` // array on success, string on API errors
}

type etherscanTransfer struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	TokenID         string `json:"tokenID"`
	TokenName       string `json:"tokenName"`
}

func (c *EtherscanClient) TokenTransfers(ctx context.Context, address string) ([]domain.TokenTransfer, error) {
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "tokennfttx")
	q.Set("address", address)
	q.Set("sort", "desc")
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build explorer request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned status %d", resp.StatusCode)
	}

	var envelope etherscanEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode explorer response: %w", err)
	}

	// Etherscan reports "no transactions found" as status 0 with an empty
	// result array, which is not a failure; real API errors carry a string
	// result instead.
	var transfers []etherscanTransfer
	if err := json.Unmarshal(envelope.Result, &transfers); err != nil {
		return nil, fmt.Errorf("explorer error: %s", envelope.Message)
	}
	if envelope.Status != "1" && len(transfers) > 0 {
		return nil, fmt.Errorf("explorer error: %s", envelope.Message)
	}

	out := make([]domain.TokenTransfer, 0, len(transfers))
	for _, t := range transfers {
		block, _ := strconv.ParseInt(t.BlockNumber, 10, 64)
		unix, _ := strconv.ParseInt(t.TimeStamp, 10, 64)
		out = append(out, domain.TokenTransfer{
			TransactionHash: t.Hash,
			ContractAddress: t.ContractAddress,
			TokenID:         t.TokenID,
			TokenName:       t.TokenName,
			From:            t.From,
			To:              t.To,
			BlockNumber:     block,
			Timestamp:       time.Unix(unix, 0).UTC(),
		})
	}
	return out, nil
}
