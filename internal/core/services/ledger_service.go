package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// ledgerService provides read access to the append-only ledger.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

// GetEntryByID retrieves an entry with its lines.
func (s *ledgerService) GetEntryByID(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, tc.TenantID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.LogError(ctx, err, "Failed to find entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	return entry, nil
}

// ListEntries retrieves a paginated list of entries, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, tc domain.TenantContext, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := clampLimit(params.Limit)

	entries, nextToken, err := s.ledgerRepo.ListEntries(ctx, tc.TenantID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return resp, nil
}

// QueryLines retrieves journal lines in posted order with token pagination.
func (s *ledgerService) QueryLines(ctx context.Context, tc domain.TenantContext, params dto.LedgerQueryParams) (*dto.LedgerQueryResponse, error) {
	q := portsrepo.LineQuery{
		AccountID: params.AccountID,
		From:      params.From,
		To:        params.To,
		Limit:     clampLimit(params.Limit),
		NextToken: params.NextToken,
	}

	lines, nextToken, err := s.ledgerRepo.QueryLines(ctx, tc.TenantID, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to query ledger lines", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to query ledger lines: %w", err)
	}

	resp := &dto.LedgerQueryResponse{
		Lines:     make([]dto.JournalLineResponse, len(lines)),
		NextToken: nextToken,
	}
	for i, line := range lines {
		resp.Lines[i] = dto.ToJournalLineResponse(line)
	}
	return resp, nil
}
