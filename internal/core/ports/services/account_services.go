package services

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a single account within the tenant.
	GetAccountByID(ctx context.Context, tc domain.TenantContext, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the tenant's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, tc domain.TenantContext) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data.
type AccountWriterSvc interface {
	// CreateAccount adds a custom account to the tenant's chart.
	CreateAccount(ctx context.Context, tc domain.TenantContext, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount changes mutable account fields. System accounts may be
	// renamed but never deactivated.
	UpdateAccount(ctx context.Context, tc domain.TenantContext, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account that is not a system account and has
	// no posted lines.
	DeleteAccount(ctx context.Context, tc domain.TenantContext, accountID string) error

	// SeedSystemAccounts creates the standard system chart for a new tenant.
	// Called once during onboarding.
	SeedSystemAccounts(ctx context.Context, tenantID string, creatorUserID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
