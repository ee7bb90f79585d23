package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

// MySQLAdapter is the optional row-store ledger backend. Expected schema:
//
//	CREATE TABLE mints (
//	    id               CHAR(36)     NOT NULL PRIMARY KEY,
//	    collection       VARCHAR(64)  NOT NULL,
//	    recipient        CHAR(42)     NOT NULL,
//	    token_id         BIGINT       NOT NULL,
//	    transaction_hash VARCHAR(128) NOT NULL,
//	    minted_at        DATETIME(6)  NOT NULL,
//	    UNIQUE KEY uniq_collection_token (collection, token_id),
//	    KEY idx_collection_recipient (collection, recipient)
//	);
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) Append(ctx context.Context, rec domain.MintRecord) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO mints (id, collection, recipient, token_id, transaction_hash, minted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Collection, rec.Recipient, rec.TokenID, rec.TransactionHash, rec.MintedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("%w: token id %d in %s", domain.ErrDuplicateToken, rec.TokenID, rec.Collection)
		}
		return fmt.Errorf("%w: insert mint: %w", domain.ErrStorage, err)
	}
	return nil
}

func (m *MySQLAdapter) ByRecipient(ctx context.Context, collection, recipient string) ([]domain.MintRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, collection, recipient, token_id, transaction_hash, minted_at
		FROM mints WHERE collection = ? AND recipient = ?
		ORDER BY minted_at ASC, token_id ASC`,
		collection, recipient,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query mints: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	out := []domain.MintRecord{}
	for rows.Next() {
		var rec domain.MintRecord
		if err := rows.Scan(&rec.ID, &rec.Collection, &rec.Recipient, &rec.TokenID, &rec.TransactionHash, &rec.MintedAt); err != nil {
			return nil, fmt.Errorf("%w: scan mint: %w", domain.ErrStorage, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate mints: %w", domain.ErrStorage, err)
	}
	return out, nil
}

func (m *MySQLAdapter) CountByCollection(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM mints WHERE collection = ?`, collection,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count mints: %w", domain.ErrStorage, err)
	}
	return count, nil
}

func (m *MySQLAdapter) Close() error {
	return m.db.Close()
}
