package domain

import "errors"

var (
	// ErrValidation covers malformed or missing caller input: bad address
	// shape, out-of-range token id, empty transaction hash, unknown
	// collection. Never retried automatically.
	ErrValidation = errors.New("validation failed")

	// ErrStorage means the ledger store was reachable but rejected the
	// write (disk full, constraint violation, connection dropped mid-write).
	ErrStorage = errors.New("ledger storage failed")

	// ErrDuplicateToken is a storage rejection caused by the uniqueness
	// constraint on (collection, token id). Callers can treat it as a
	// duplicate-mint signal rather than a transient fault.
	ErrDuplicateToken = errors.New("token id already recorded")

	// ErrUnavailable means both the chain and the ledger store failed to
	// answer within their timeouts. Retryable with backoff.
	ErrUnavailable = errors.New("chain and ledger storage unavailable")
)
