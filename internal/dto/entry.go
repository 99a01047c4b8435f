package dto

import (
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	AmountMinor int64           `json:"amountMinor"`
	Description string          `json:"description,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	SourceType       string                `json:"sourceType"`
	SourceDocumentID *string               `json:"sourceDocumentID,omitempty"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	CurrencyCode     string                `json:"currencyCode"`
	Status           string                `json:"status"`
	IdempotencyKey   string                `json:"idempotencyKey"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	PostedAt         time.Time             `json:"postedAt"`
	PostedBy         string                `json:"postedBy"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		AccountID:   l.AccountID,
		Side:        string(l.Side),
		Amount:      money.FromMinorUnits(l.AmountMinor, l.CurrencyCode),
		AmountMinor: l.AmountMinor,
		Description: l.Description,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		SourceType:       string(e.SourceType),
		SourceDocumentID: e.SourceDocumentID,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		Status:           string(e.Status),
		IdempotencyKey:   e.IdempotencyKey,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		PostedAt:         e.CreatedAt,
		PostedBy:         e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// LedgerQueryParams holds parameters for the ledger line query.
type LedgerQueryParams struct {
	AccountID *string    `form:"accountID"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// LedgerQueryResponse is a page of journal lines in posted order.
type LedgerQueryResponse struct {
	Lines     []JournalLineResponse `json:"lines"`
	NextToken *string               `json:"nextToken,omitempty"`
}
