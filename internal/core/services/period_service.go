package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
)

var ErrInvalidPeriod = errors.New("invalid period format")

// periodService manages fiscal period locks.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodLockRepositoryFacade
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodLockRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// IsLocked reports whether the period is locked for the tenant.
func (s *periodService) IsLocked(ctx context.Context, tenantID string, period domain.Period) (bool, error) {
	_, err := s.periodRepo.FindLock(ctx, tenantID, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check period lock: %w", err)
	}
	return true, nil
}

// LockPeriod closes a period to new postings. Locking an already-locked
// period succeeds and keeps the original locker and timestamp.
func (s *periodService) LockPeriod(ctx context.Context, tc domain.TenantContext, period domain.Period) (*domain.PeriodLock, error) {
	logger := s.GetLogger(ctx)

	if !period.Valid() {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("invalid period %q, want YYYY-MM", period), ErrInvalidPeriod)
	}

	lock := domain.PeriodLock{
		TenantID: tc.TenantID,
		Period:   period,
		LockedBy: tc.UserID,
		LockedAt: time.Now(),
	}

	if err := s.periodRepo.SaveLock(ctx, lock); err != nil {
		logger.Error("Failed to save period lock", slog.String("error", err.Error()), slog.String("period", string(period)))
		return nil, fmt.Errorf("failed to save period lock: %w", err)
	}

	// Re-read so an idempotent re-lock returns the original lock details.
	saved, err := s.periodRepo.FindLock(ctx, tc.TenantID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to read back period lock: %w", err)
	}

	logger.Info("Period locked", slog.String("period", string(period)))
	return saved, nil
}

// UnlockPeriod reopens a period. Unlocking an unlocked period is a no-op.
func (s *periodService) UnlockPeriod(ctx context.Context, tc domain.TenantContext, period domain.Period) error {
	logger := s.GetLogger(ctx)

	if !period.Valid() {
		return apperrors.NewAppError(400, fmt.Sprintf("invalid period %q, want YYYY-MM", period), ErrInvalidPeriod)
	}

	if err := s.periodRepo.DeleteLock(ctx, tc.TenantID, period); err != nil {
		logger.Error("Failed to delete period lock", slog.String("error", err.Error()), slog.String("period", string(period)))
		return fmt.Errorf("failed to delete period lock: %w", err)
	}

	logger.Info("Period unlocked", slog.String("period", string(period)))
	return nil
}

// ListLocks returns the tenant's locks ordered by period.
func (s *periodService) ListLocks(ctx context.Context, tc domain.TenantContext) ([]domain.PeriodLock, error) {
	locks, err := s.periodRepo.ListLocks(ctx, tc.TenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list period locks", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to list period locks: %w", err)
	}
	return locks, nil
}
