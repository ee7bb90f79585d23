package tests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-kit/kit/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/blockchainintegration/nft-ledger/internal/adapter/storage"
	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/core/service"
)

const testRecipient = "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"

type testEnv struct {
	redis *redis.Client
	mysql *sql.DB
	cache *storage.RedisAdapter
	store *storage.MySQLAdapter
}

type fixedChain struct{ count int64 }

func (c *fixedChain) TotalMinted(ctx context.Context, col *domain.Collection) (int64, error) {
	return c.count, nil
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/nftledger?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	t.Cleanup(func() {
		rdb.Close()
		db.Close()
	})

	return &testEnv{
		redis: rdb,
		mysql: db,
		cache: storage.NewRedisAdapter(rdb),
		store: storage.NewMySQLAdapter(db),
	}
}

func (e *testEnv) reset(t *testing.T, collection string) {
	ctx := context.Background()
	if _, err := e.mysql.ExecContext(ctx, `DELETE FROM mints WHERE collection = ?`, collection); err != nil {
		t.Fatalf("reset mysql: %v", err)
	}
	keys, _ := e.redis.Keys(ctx, "seen:mint:"+collection+":*").Result()
	for _, k := range keys {
		e.redis.Del(ctx, k)
	}
	e.redis.Del(ctx, "chaincount:"+collection)
}

func testService(env *testEnv, chainCount int64) *service.LedgerService {
	registry := domain.Registry{
		"itest-nft2": {
			Name:            "CustomNFT2",
			ContractAddress: "0x5fbdb2315678afecb367f032d93f642f64180aa3",
			MaxSupply:       100,
		},
	}
	return service.NewLedgerService(registry, env.store, &fixedChain{count: chainCount}, env.cache, log.NewNopLogger())
}

func TestEndToEndMintFlow(t *testing.T) {
	env := setupTestEnv(t)
	env.reset(t, "itest-nft2")

	svc := testService(env, 3)
	ctx := context.Background()

	for i := int64(0); i < 3; i++ {
		if _, err := svc.RecordMint(ctx, "itest-nft2", testRecipient, i, fmt.Sprintf("0xtx%d", i)); err != nil {
			t.Fatalf("RecordMint %d failed: %v", i, err)
		}
	}

	recs, err := svc.GetMints(ctx, "itest-nft2", testRecipient)
	if err != nil {
		t.Fatalf("GetMints failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	next, err := svc.NextTokenID(ctx, "itest-nft2")
	if err != nil {
		t.Fatalf("NextTokenID failed: %v", err)
	}
	if next.NextTokenID != 3 || next.Source != domain.SourceChain || next.LedgerCount != 3 {
		t.Errorf("unexpected next-token result: %+v", next)
	}

	env.reset(t, "itest-nft2")
}

func TestConcurrentDuplicateReports(t *testing.T) {
	env := setupTestEnv(t)
	env.reset(t, "itest-nft2")

	svc := testService(env, 1)
	ctx := context.Background()

	// many reporters race to record the same token id; exactly one wins
	var successes, duplicates int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.RecordMint(ctx, "itest-nft2", testRecipient, 0, fmt.Sprintf("0xtx-attempt-%d", n))
			switch {
			case err == nil:
				atomic.AddInt64(&successes, 1)
			case errors.Is(err, domain.ErrDuplicateToken):
				atomic.AddInt64(&duplicates, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful report, got %d", successes)
	}
	if duplicates != 19 {
		t.Errorf("expected 19 duplicate rejections, got %d", duplicates)
	}

	count, err := env.store.CountByCollection(ctx, "itest-nft2")
	if err != nil {
		t.Fatalf("CountByCollection failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one ledger row, got %d", count)
	}

	env.reset(t, "itest-nft2")
}
