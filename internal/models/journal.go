package models

import "time"

// EntryStatus indicates the state of a journal entry row.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry is the persisted row for a balanced financial event. Rows are
// insert-only; the sole permitted mutation is the status flip to REVERSED
// with its back-link.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	TenantID         string      `db:"tenant_id"`
	SourceType       string      `db:"source_type"`
	SourceDocumentID *string     `db:"source_document_id"` // Nullable
	EntryDate        time.Time   `db:"entry_date"`
	Description      string      `db:"description"`
	CurrencyCode     string      `db:"currency_code"`
	Status           EntryStatus `db:"status"`
	IdempotencyKey   string      `db:"idempotency_key"`
	OriginalEntryID  *string     `db:"original_entry_id"`  // Nullable
	ReversingEntryID *string     `db:"reversing_entry_id"` // Nullable
	AuditFields
}

// JournalLine is the persisted row for one side of an entry.
type JournalLine struct {
	LineID       string `db:"line_id"`
	EntryID      string `db:"entry_id"`
	TenantID     string `db:"tenant_id"` // Denormalized for tenant-scoped line queries
	AccountID    string `db:"account_id"`
	Side         string `db:"side"`
	AmountMinor  int64  `db:"amount_minor"` // Always > 0
	CurrencyCode string `db:"currency_code"`
	Description  string `db:"description"`
	AuditFields
}

// IdempotencyKey is the persisted record binding a client key to the entry
// it produced. The unique (tenant_id, key) constraint is what serializes
// concurrent replays.
type IdempotencyKey struct {
	TenantID    string    `db:"tenant_id"`
	Key         string    `db:"idempotency_key"`
	Fingerprint string    `db:"fingerprint"`
	EntryID     string    `db:"entry_id"`
	CreatedAt   time.Time `db:"created_at"`
}
