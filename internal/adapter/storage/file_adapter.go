package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

// FileAdapter is the default ledger store: one JSON object per line,
// loaded fully into memory on open, appended to disk and memory on every
// successful write. Appends are fsynced before returning, so a record is
// either fully durable or absent after a crash.
type FileAdapter struct {
	mu   sync.Mutex
	file *os.File

	// derived in-memory views, rebuilt on open
	byRecipient map[string][]domain.MintRecord // key: collection + "/" + recipient
	byToken     map[string]struct{}            // key: collection + "/" + tokenID
	counts      map[string]int64               // key: collection
}

// NewFileAdapter opens (creating if needed) the ledger file at path and
// replays it into memory. A torn trailing line from a crashed append is
// skipped rather than treated as corruption.
func NewFileAdapter(path string) (*FileAdapter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}

	a := &FileAdapter{
		file:        file,
		byRecipient: make(map[string][]domain.MintRecord),
		byToken:     make(map[string]struct{}),
		counts:      make(map[string]int64),
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec domain.MintRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		a.index(rec)
	}
	if err := scanner.Err(); err != nil {
		file.Close()
		return nil, fmt.Errorf("replay ledger file: %w", err)
	}
	return a, nil
}

func recipientKey(collection, recipient string) string {
	return collection + "/" + recipient
}

func tokenKey(collection string, tokenID int64) string {
	return fmt.Sprintf("%s/%d", collection, tokenID)
}

func (a *FileAdapter) index(rec domain.MintRecord) {
	k := recipientKey(rec.Collection, rec.Recipient)
	a.byRecipient[k] = append(a.byRecipient[k], rec)
	a.byToken[tokenKey(rec.Collection, rec.TokenID)] = struct{}{}
	a.counts[rec.Collection]++
}

func (a *FileAdapter) Append(ctx context.Context, rec domain.MintRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byToken[tokenKey(rec.Collection, rec.TokenID)]; exists {
		return fmt.Errorf("%w: token id %d in %s", domain.ErrDuplicateToken, rec.TokenID, rec.Collection)
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %w", domain.ErrStorage, err)
	}
	line = append(line, '\n')

	if _, err := a.file.Write(line); err != nil {
		return fmt.Errorf("%w: append record: %w", domain.ErrStorage, err)
	}
	if err := a.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync ledger file: %w", domain.ErrStorage, err)
	}

	a.index(rec)
	return nil
}

func (a *FileAdapter) ByRecipient(ctx context.Context, collection, recipient string) ([]domain.MintRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	recs := a.byRecipient[recipientKey(collection, recipient)]
	// snapshot; callers must not observe later appends through the slice
	out := make([]domain.MintRecord, len(recs))
	copy(out, recs)
	return out, nil
}

func (a *FileAdapter) CountByCollection(ctx context.Context, collection string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[collection], nil
}

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
