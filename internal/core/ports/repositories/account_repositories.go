package repositories

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a single account scoped to the tenant.
	FindAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves a single account by its per-tenant code.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves accounts for the given codes, keyed by
	// code. Missing codes are simply absent from the map.
	FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts for a tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)

	// HasPostedLines reports whether any journal line references the account.
	// Used to protect deletion of accounts with ledger history.
	HasPostedLines(ctx context.Context, tenantID string, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account. A duplicate (tenant, code) surfaces
	// as apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields (name, description,
	// active flag). Code, type, and tenant are immutable.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account row. Callers enforce the system and
	// balance protections before invoking this.
	DeleteAccount(ctx context.Context, tenantID string, accountID string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
