package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/nftledger?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	return db
}

func cleanupMints(t *testing.T, db *sql.DB, collection string) {
	if _, err := db.ExecContext(context.Background(), `DELETE FROM mints WHERE collection = ?`, collection); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
}

func TestMySQLAppendAndRead(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	cleanupMints(t, db, "test-nft2")

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := int64(0); i < 3; i++ {
		rec := testRecord("test-nft2", i)
		rec.MintedAt = base.Add(time.Duration(i) * time.Second)
		if err := adapter.Append(ctx, rec); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	recs, err := adapter.ByRecipient(ctx, "test-nft2", "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984")
	if err != nil {
		t.Fatalf("ByRecipient failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.TokenID != int64(i) {
			t.Errorf("record %d out of order: token id %d", i, rec.TokenID)
		}
	}

	count, err := adapter.CountByCollection(ctx, "test-nft2")
	if err != nil {
		t.Fatalf("CountByCollection failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	cleanupMints(t, db, "test-nft2")
}

func TestMySQLDuplicateTokenID(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	cleanupMints(t, db, "test-nft2")

	if err := adapter.Append(ctx, testRecord("test-nft2", 5)); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}

	dup := testRecord("test-nft2", 5)
	dup.ID = "another-record-id"
	if err := adapter.Append(ctx, dup); !errors.Is(err, domain.ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}

	count, err := adapter.CountByCollection(ctx, "test-nft2")
	if err != nil {
		t.Fatalf("CountByCollection failed: %v", err)
	}
	if count != 1 {
		t.Errorf("duplicate must not add a row, count %d", count)
	}

	cleanupMints(t, db, "test-nft2")
}
