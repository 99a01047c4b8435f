package services

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// PeriodSvcFacade manages fiscal period locks.
type PeriodSvcFacade interface {
	// IsLocked reports whether the period containing the date is locked.
	IsLocked(ctx context.Context, tenantID string, period domain.Period) (bool, error)

	// LockPeriod closes a period to new postings. Locking an already-locked
	// period succeeds without changing who locked it.
	LockPeriod(ctx context.Context, tc domain.TenantContext, period domain.Period) (*domain.PeriodLock, error)

	// UnlockPeriod reopens a period. Admin only, enforced at the boundary.
	UnlockPeriod(ctx context.Context, tc domain.TenantContext, period domain.Period) error

	// ListLocks returns the tenant's locks ordered by period.
	ListLocks(ctx context.Context, tc domain.TenantContext) ([]domain.PeriodLock, error)
}
