package repositories

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// TenantReader defines read operations for tenant and membership data.
type TenantReader interface {
	// FindTenantByID retrieves a tenant, or apperrors.ErrNotFound.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// FindMembership retrieves a user's membership in a tenant, or
	// apperrors.ErrNotFound when the user is not a member.
	FindMembership(ctx context.Context, userID string, tenantID string) (*domain.TenantMembership, error)

	// ListTenantsByUserID returns all tenants the user is a member of.
	ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error)

	// ListMemberships returns all memberships of a tenant.
	ListMemberships(ctx context.Context, tenantID string) ([]domain.TenantMembership, error)
}

// TenantWriter defines write operations for tenant and membership data.
type TenantWriter interface {
	// SaveTenant inserts a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error

	// UpdateTenantLocale replaces the tenant's locale configuration.
	UpdateTenantLocale(ctx context.Context, tenantID string, locale domain.TenantLocale, updatedBy string) error

	// SaveMembership inserts a membership. A duplicate (user, tenant)
	// surfaces as apperrors.ErrDuplicate.
	SaveMembership(ctx context.Context, membership domain.TenantMembership) error
}

// TenantRepositoryFacade combines all tenant repository interfaces.
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
}
