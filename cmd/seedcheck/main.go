// Command seedcheck replays a ledger file and compares it against the live
// on-chain supply counter. Operators run it after a restart or a restore
// from backup to see whether the local ledger lags or leads the chain.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/blockchainintegration/nft-ledger/internal/adapter/chain"
	"github.com/blockchainintegration/nft-ledger/internal/adapter/storage"
	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

const rpcTimeout = 5 * time.Second

func main() {
	var (
		ledgerFile = flag.String("ledger", "data/mints.jsonl", "path to the ledger file")
		rpcURL     = flag.String("rpc", "https://ethereum-sepolia-rpc.publicnode.com", "RPC endpoint")
		contract   = flag.String("contract", "", "collection contract address")
		name       = flag.String("collection", "customnft2", "collection name")
		maxSupply  = flag.Int64("max-supply", 100, "collection max supply")
	)
	flag.Parse()

	if *contract == "" {
		log.Fatal("missing -contract")
	}

	ctx := context.Background()

	store, err := storage.NewFileAdapter(*ledgerFile)
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}
	defer store.Close()

	ledgerCount, err := store.CountByCollection(ctx, *name)
	if err != nil {
		log.Fatalf("count ledger records: %v", err)
	}

	client, err := chain.Dial(ctx, *rpcURL)
	if err != nil {
		log.Fatalf("dial rpc: %v", err)
	}
	defer client.Close()

	reader, err := chain.NewEthReader(client, rpcTimeout)
	if err != nil {
		log.Fatalf("build chain reader: %v", err)
	}

	collection := &domain.Collection{Name: *name, ContractAddress: *contract, MaxSupply: *maxSupply}
	chainCount, err := reader.TotalMinted(ctx, collection)
	if err != nil {
		log.Fatalf("read chain counter: %v", err)
	}

	fmt.Printf("collection:   %s\n", *name)
	fmt.Printf("ledger count: %d\n", ledgerCount)
	fmt.Printf("chain count:  %d\n", chainCount)

	switch {
	case chainCount < ledgerCount:
		fmt.Println("verdict: LEDGER AHEAD OF CHAIN — local records are duplicated or erroneous")
		os.Exit(1)
	case chainCount > ledgerCount:
		fmt.Printf("verdict: ledger lags chain by %d mint(s) — unreported mints exist\n", chainCount-ledgerCount)
	default:
		fmt.Println("verdict: ledger and chain agree")
	}
	if chainCount >= *maxSupply {
		fmt.Println("collection is exhausted (sold out)")
	}
}
