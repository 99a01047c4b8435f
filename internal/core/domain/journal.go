package domain

import "time"

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// SourceType identifies the business document a journal entry was posted from.
type SourceType string

const (
	SourceInvoice       SourceType = "INVOICE"
	SourceBill          SourceType = "BILL"
	SourcePayment       SourceType = "PAYMENT"
	SourceBillPayment   SourceType = "BILL_PAYMENT"
	SourceGoodsReceipt  SourceType = "GOODS_RECEIPT"
	SourceStockTransfer SourceType = "STOCK_TRANSFER"
	SourceManualJournal SourceType = "MANUAL_JOURNAL"
	SourceReversal      SourceType = "REVERSAL"
)

// EntrySide indicates whether a journal line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Opposite returns the reversing side.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalEntry represents a single, balanced financial event composed of
// multiple journal lines. Entries are immutable once created; corrections
// are made via reversing entries, never edits.
type JournalEntry struct {
	EntryID          string        `json:"entryID"` // Primary key (UUID)
	TenantID         string        `json:"tenantID"`
	SourceType       SourceType    `json:"sourceType"`
	SourceDocumentID *string       `json:"sourceDocumentID"` // Nullable reference to the originating document
	EntryDate        time.Time     `json:"entryDate"`        // Transaction date, governs period locking
	Description      string        `json:"description"`
	CurrencyCode     string        `json:"currencyCode"`
	Status           EntryStatus   `json:"status"`
	IdempotencyKey   string        `json:"idempotencyKey"` // Unique per tenant
	OriginalEntryID  *string       `json:"originalEntryID"`
	ReversingEntryID *string       `json:"reversingEntryID"`
	Lines            []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single line item within a journal entry, affecting one
// account. AmountMinor is a positive magnitude in currency minor units; the
// side determines its direction. Minor-unit integers keep balance checks
// exact with no epsilon comparison.
type JournalLine struct {
	LineID       string    `json:"lineID"` // Primary key (UUID)
	EntryID      string    `json:"entryID"`
	AccountID    string    `json:"accountID"`
	Side         EntrySide `json:"side"`
	AmountMinor  int64     `json:"amountMinor"` // Always > 0
	CurrencyCode string    `json:"currencyCode"`
	Description  string    `json:"description"`
	AuditFields
}

// SignedAmountMinor returns the line's effect on an account of the given
// type: positive when the line moves the account toward its normal side.
func (l JournalLine) SignedAmountMinor(accountType AccountType) int64 {
	if l.Side == accountType.NormalSide() {
		return l.AmountMinor
	}
	return -l.AmountMinor
}

// DraftLine is an unpersisted journal line produced by the document mapping,
// identified by account code rather than account id. The posting engine
// resolves codes against the tenant's chart of accounts before commit.
type DraftLine struct {
	AccountCode string
	Side        EntrySide
	AmountMinor int64
	Description string
}

// DraftEntry is the balanced set of lines a document maps to, ready for
// validation and atomic append.
type DraftEntry struct {
	SourceType       SourceType
	SourceDocumentID *string
	EntryDate        time.Time
	Description      string
	CurrencyCode     string
	Lines            []DraftLine
}

// DebitTotalMinor sums the debit lines in minor units.
func (d DraftEntry) DebitTotalMinor() int64 {
	var sum int64
	for _, l := range d.Lines {
		if l.Side == Debit {
			sum += l.AmountMinor
		}
	}
	return sum
}

// CreditTotalMinor sums the credit lines in minor units.
func (d DraftEntry) CreditTotalMinor() int64 {
	var sum int64
	for _, l := range d.Lines {
		if l.Side == Credit {
			sum += l.AmountMinor
		}
	}
	return sum
}

// IsBalanced reports whether debits equal credits, exactly.
func (d DraftEntry) IsBalanced() bool {
	return d.DebitTotalMinor() == d.CreditTotalMinor()
}
