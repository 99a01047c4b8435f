package services

import (
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since tenant onboarding seeds the chart through it
	container.Account = NewAccountService(repos.AccountRepo)
	container.Tenant = NewTenantService(repos.TenantRepo, container.Account)

	container.Period = NewPeriodService(repos.PeriodRepo)
	container.Posting = NewPostingService(repos.LedgerRepo, repos.AccountRepo, container.Period)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Reporting = NewReportingService(repos.ReportRepo)

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, repos.UserRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TenantSvcFacade  = (*tenantService)(nil)
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.PostingSvcFacade = (*postingService)(nil)
)
