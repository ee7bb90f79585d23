package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

func testRecord(collection string, tokenID int64) domain.MintRecord {
	return domain.MintRecord{
		ID:              fmt.Sprintf("rec-%s-%d", collection, tokenID),
		Collection:      collection,
		Recipient:       "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984",
		TokenID:         tokenID,
		TransactionHash: fmt.Sprintf("0xtx%d", tokenID),
		MintedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestFileAdapter_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.jsonl")
	adapter, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer adapter.Close()

	ctx := context.Background()
	for i := int64(0); i < 3; i++ {
		if err := adapter.Append(ctx, testRecord("nft2", i)); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	recs, err := adapter.ByRecipient(ctx, "nft2", "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984")
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

	count, err := adapter.CountByCollection(ctx, "nft2")
	if err != nil {
		t.Fatalf("CountByCollection failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestFileAdapter_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.jsonl")
	ctx := context.Background()

	adapter, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	want := testRecord("nft2", 0)
	if err := adapter.Append(ctx, want); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	adapter.Close()

	reopened, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	recs, err := reopened.ByRecipient(ctx, "nft2", want.Recipient)
	if err != nil {
		t.Fatalf("ByRecipient failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(recs))
	}
	if recs[0].ID != want.ID || recs[0].TokenID != want.TokenID || recs[0].TransactionHash != want.TransactionHash {
		t.Errorf("record fields lost across reopen: %+v", recs[0])
	}
}

func TestFileAdapter_RejectsDuplicateTokenID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.jsonl")
	adapter, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer adapter.Close()

	ctx := context.Background()
	if err := adapter.Append(ctx, testRecord("nft2", 7)); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}

	dup := testRecord("nft2", 7)
	dup.ID = "another-record"
	if err := adapter.Append(ctx, dup); !errors.Is(err, domain.ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}

	// same token id in a different collection is allowed
	if err := adapter.Append(ctx, testRecord("other", 7)); err != nil {
		t.Fatalf("cross-collection Append failed: %v", err)
	}
}

func TestFileAdapter_SkipsTornTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.jsonl")
	ctx := context.Background()

	adapter, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	if err := adapter.Append(ctx, testRecord("nft2", 0)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	adapter.Close()

	// simulate a crash mid-append
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	f.WriteString(`{"id":"torn","collection":"nft2","tok`)
	f.Close()

	reopened, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("reopen after torn write failed: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.CountByCollection(ctx, "nft2")
	if err != nil {
		t.Fatalf("CountByCollection failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the torn line to be skipped, count %d", count)
	}
}

func TestFileAdapter_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.jsonl")
	adapter, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer adapter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := adapter.Append(ctx, testRecord("nft2", 0)); err == nil {
		t.Fatal("expected cancelled Append to fail")
	}

	// the rejected append left no partial state
	count, err := adapter.CountByCollection(context.Background(), "nft2")
	if err != nil {
		t.Fatalf("CountByCollection failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty ledger, count %d", count)
	}
}

func TestFileAdapter_EmptyRecipient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mints.jsonl")
	adapter, err := NewFileAdapter(path)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer adapter.Close()

	recs, err := adapter.ByRecipient(context.Background(), "nft2", "0x0000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("ByRecipient failed: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recs)
	}
}
