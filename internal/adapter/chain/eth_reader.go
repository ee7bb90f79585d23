package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/port"
)

// Minimal slice of the ERC-721 enumerable ABI: the supply counter is the
// only on-chain read this service performs.
const erc721SupplyABI = `[{"inputs":[],"name":"totalSupply","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// ContractCaller is the one method of an RPC client this adapter needs;
// *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// EthReader reads a collection's totalSupply() from its deployed contract
// with a bounded timeout. A zero supply is a valid answer, never an error.
type EthReader struct {
	caller  ContractCaller
	abi     abi.ABI
	timeout time.Duration
}

var _ port.ChainReader = (*EthReader)(nil)

func NewEthReader(caller ContractCaller, timeout time.Duration) (*EthReader, error) {
	parsed, err := abi.JSON(strings.NewReader(erc721SupplyABI))
	if err != nil {
		return nil, fmt.Errorf("parse supply ABI: %w", err)
	}
	return &EthReader{caller: caller, abi: parsed, timeout: timeout}, nil
}

// Dial connects to an RPC endpoint. The caller owns the returned client.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

func (r *EthReader) TotalMinted(ctx context.Context, c *domain.Collection) (int64, error) {
	if !common.IsHexAddress(c.ContractAddress) {
		return 0, fmt.Errorf("collection %s has no valid contract address", c.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.abi.Pack("totalSupply")
	if err != nil {
		return 0, fmt.Errorf("pack totalSupply: %w", err)
	}

	contract := common.HexToAddress(c.ContractAddress)
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("totalSupply call for %s: %w", c.Name, err)
	}

	results, err := r.abi.Unpack("totalSupply", out)
	if err != nil {
		return 0, fmt.Errorf("unpack totalSupply for %s: %w", c.Name, err)
	}
	supply, ok := results[0].(*big.Int)
	if !ok || !supply.IsInt64() {
		return 0, fmt.Errorf("unexpected totalSupply result for %s", c.Name)
	}
	return supply.Int64(), nil
}
