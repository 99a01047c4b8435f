package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider creates all pgsql-backed repositories and bundles
// them for the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool),
		LedgerRepo:  newPgxLedgerRepository(dbPool),
		PeriodRepo:  newPgxPeriodLockRepository(dbPool),
		TenantRepo:  newPgxTenantRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
		ReportRepo:  newPgxReportingRepository(dbPool),
	}
}
