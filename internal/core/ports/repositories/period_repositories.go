package repositories

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// PeriodLockRepositoryFacade persists period locks. Locks are keyed by
// (tenant, period); saving an existing lock is a no-op.
type PeriodLockRepositoryFacade interface {
	// FindLock returns the lock for a period, or apperrors.ErrNotFound.
	FindLock(ctx context.Context, tenantID string, period domain.Period) (*domain.PeriodLock, error)

	// SaveLock upserts a lock; an already-locked period keeps its original
	// locked-by and locked-at.
	SaveLock(ctx context.Context, lock domain.PeriodLock) error

	// DeleteLock removes a lock. Deleting an unlocked period is a no-op.
	DeleteLock(ctx context.Context, tenantID string, period domain.Period) error

	// ListLocks returns all locks for a tenant ordered by period.
	ListLocks(ctx context.Context, tenantID string) ([]domain.PeriodLock, error)
}
