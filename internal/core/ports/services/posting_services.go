package services

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

// PostingSvcFacade is the single write path into the ledger. Every business
// document, whatever its type, lands here and either becomes exactly one
// balanced journal entry or is rejected whole.
type PostingSvcFacade interface {
	// PostDocument converts a document into a balanced journal entry and
	// appends it atomically. Replaying an idempotency key with the same
	// payload returns the original entry; the same key with a different
	// payload is apperrors.ErrConflict.
	PostDocument(ctx context.Context, tc domain.TenantContext, idempotencyKey string, doc dto.Document) (*domain.JournalEntry, error)

	// ReverseEntry appends a mirror-image reversing entry and marks the
	// original REVERSED. The reversal is itself an idempotent posting.
	ReverseEntry(ctx context.Context, tc domain.TenantContext, idempotencyKey string, entryID string, memo string) (*domain.JournalEntry, error)
}
