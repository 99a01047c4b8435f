package repositories

import (
	"context"
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// LineQuery narrows a ledger line query. A nil field means "no filter".
// Every query is additionally scoped by tenant id, which is a required
// parameter of the repository methods, never part of this struct.
type LineQuery struct {
	AccountID *string
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// EntryReader defines read operations for journal entries.
type EntryReader interface {
	// FindEntryByID retrieves an entry with its lines, scoped to the tenant.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIdempotencyKey retrieves the entry a key previously produced,
	// with its lines. Returns apperrors.ErrNotFound when the key is unused.
	FindEntryByIdempotencyKey(ctx context.Context, tenantID string, key string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a tenant using
	// token-based pagination, newest first.
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)

	// QueryLines retrieves journal lines ordered by posted timestamp
	// ascending. The query is finite and restartable: a fresh call
	// re-executes rather than resuming a server-side cursor.
	QueryLines(ctx context.Context, tenantID string, q LineQuery) ([]domain.JournalLine, *string, error)
}

// EntryWriter defines append operations for the ledger of record. There is
// deliberately no update or delete of entries or lines.
type EntryWriter interface {
	// AppendEntry durably writes an entry, its lines, its idempotency record,
	// and the account balance cache updates in a single database transaction.
	// A concurrent insert with the same (tenant, key) surfaces as
	// apperrors.ErrDuplicate so the caller can re-read the winner's entry.
	AppendEntry(ctx context.Context, entry domain.JournalEntry, record domain.IdempotencyRecord, balanceChanges map[string]int64) error

	// AppendReversal writes the reversing entry, its idempotency record, and
	// flips the original's status to REVERSED with back-links, atomically.
	// The original's lines are never touched. An already-reversed original
	// surfaces as apperrors.ErrConflict.
	AppendReversal(ctx context.Context, reversing domain.JournalEntry, record domain.IdempotencyRecord, balanceChanges map[string]int64, originalEntryID string) error
}

// IdempotencyReader defines lookups over the idempotency record table.
type IdempotencyReader interface {
	// FindIdempotencyRecord returns the record for a key, or apperrors.ErrNotFound.
	FindIdempotencyRecord(ctx context.Context, tenantID string, key string) (*domain.IdempotencyRecord, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	EntryReader
	EntryWriter
	IdempotencyReader
}
