package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	"github.com/salesmatrix/accounting_backend/internal/models"
	"github.com/salesmatrix/accounting_backend/internal/utils/mapping"
)

type PgxPeriodLockRepository struct {
	BaseRepository
}

// newPgxPeriodLockRepository creates a new repository for period locks.
func newPgxPeriodLockRepository(pool *pgxpool.Pool) portsrepo.PeriodLockRepositoryFacade {
	return &PgxPeriodLockRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPeriodLockRepository implements portsrepo.PeriodLockRepositoryFacade
var _ portsrepo.PeriodLockRepositoryFacade = (*PgxPeriodLockRepository)(nil)

// FindLock returns the lock for a period, or apperrors.ErrNotFound.
func (r *PgxPeriodLockRepository) FindLock(ctx context.Context, tenantID string, period domain.Period) (*domain.PeriodLock, error) {
	query := `
		SELECT tenant_id, period, locked_by, locked_at
		FROM period_locks
		WHERE tenant_id = $1 AND period = $2;
	`
	var m models.PeriodLock
	err := r.Pool.QueryRow(ctx, query, tenantID, string(period)).Scan(
		&m.TenantID,
		&m.Period,
		&m.LockedBy,
		&m.LockedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find lock for period "+string(period), err)
	}

	lock := mapping.ToDomainPeriodLock(m)
	return &lock, nil
}

// SaveLock upserts a lock. ON CONFLICT DO NOTHING keeps the original locker
// and timestamp when the period is already closed.
func (r *PgxPeriodLockRepository) SaveLock(ctx context.Context, lock domain.PeriodLock) error {
	modelLock := mapping.ToModelPeriodLock(lock)
	query := `
		INSERT INTO period_locks (tenant_id, period, locked_by, locked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, period) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query,
		modelLock.TenantID,
		modelLock.Period,
		modelLock.LockedBy,
		modelLock.LockedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save lock for period "+modelLock.Period, err)
	}
	return nil
}

// DeleteLock removes a lock. Deleting an unlocked period is a no-op.
func (r *PgxPeriodLockRepository) DeleteLock(ctx context.Context, tenantID string, period domain.Period) error {
	query := `DELETE FROM period_locks WHERE tenant_id = $1 AND period = $2;`
	if _, err := r.Pool.Exec(ctx, query, tenantID, string(period)); err != nil {
		return apperrors.NewAppError(500, "failed to delete lock for period "+string(period), err)
	}
	return nil
}

// ListLocks returns all locks for a tenant ordered by period.
func (r *PgxPeriodLockRepository) ListLocks(ctx context.Context, tenantID string) ([]domain.PeriodLock, error) {
	query := `
		SELECT tenant_id, period, locked_by, locked_at
		FROM period_locks
		WHERE tenant_id = $1
		ORDER BY period;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list locks for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelLocks := []models.PeriodLock{}
	for rows.Next() {
		var m models.PeriodLock
		if err := rows.Scan(&m.TenantID, &m.Period, &m.LockedBy, &m.LockedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period lock row", err)
		}
		modelLocks = append(modelLocks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period lock rows", err)
	}
	return mapping.ToDomainPeriodLockSlice(modelLocks), nil
}
