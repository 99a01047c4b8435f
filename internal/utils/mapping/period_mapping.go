package mapping

import (
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/models"
)

// ToModelPeriodLock converts a domain PeriodLock to a model PeriodLock
func ToModelPeriodLock(d domain.PeriodLock) models.PeriodLock {
	return models.PeriodLock{
		TenantID: d.TenantID,
		Period:   string(d.Period),
		LockedBy: d.LockedBy,
		LockedAt: d.LockedAt,
	}
}

// ToDomainPeriodLock converts a model PeriodLock to a domain PeriodLock
func ToDomainPeriodLock(m models.PeriodLock) domain.PeriodLock {
	return domain.PeriodLock{
		TenantID: m.TenantID,
		Period:   domain.Period(m.Period),
		LockedBy: m.LockedBy,
		LockedAt: m.LockedAt,
	}
}

// ToDomainPeriodLockSlice converts a slice of model PeriodLocks to domain PeriodLocks
func ToDomainPeriodLockSlice(ms []models.PeriodLock) []domain.PeriodLock {
	ds := make([]domain.PeriodLock, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriodLock(m)
	}
	return ds
}
