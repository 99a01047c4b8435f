package services

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

// LedgerSvcFacade defines read operations over the append-only ledger.
type LedgerSvcFacade interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries, newest first.
	ListEntries(ctx context.Context, tc domain.TenantContext, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// QueryLines retrieves journal lines filtered by account and date range,
	// in posted order with token pagination.
	QueryLines(ctx context.Context, tc domain.TenantContext, params dto.LedgerQueryParams) (*dto.LedgerQueryResponse, error)
}
