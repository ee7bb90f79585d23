package storage

import "github.com/blockchainintegration/nft-ledger/internal/port"

var (
	_ port.LedgerStore     = (*FileAdapter)(nil)
	_ port.LedgerStore     = (*MySQLAdapter)(nil)
	_ port.CacheRepository = (*RedisAdapter)(nil)
	_ port.CacheRepository = NopCache{}
)
