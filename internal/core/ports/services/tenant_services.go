package services

import (
	"context"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

// TenantReaderSvc defines read operations for tenant data.
type TenantReaderSvc interface {
	// Resolve builds the TenantContext for a user acting against a tenant.
	// A user who is not a member gets apperrors.ErrNotFound, deliberately
	// indistinguishable from the tenant not existing.
	Resolve(ctx context.Context, userID string, tenantID string) (*domain.TenantContext, error)

	// GetTenantByID retrieves a tenant the user is a member of.
	GetTenantByID(ctx context.Context, tc domain.TenantContext) (*domain.Tenant, error)

	// ListTenantsForUser retrieves all tenants the user belongs to.
	ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error)

	// ListMembers retrieves all memberships of the tenant.
	ListMembers(ctx context.Context, tc domain.TenantContext) ([]domain.TenantMembership, error)
}

// TenantWriterSvc defines write operations for tenant data.
type TenantWriterSvc interface {
	// CreateTenant onboards a new tenant: persists it, seeds the system
	// chart of accounts, and makes the creator an Admin member.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// UpdateLocale replaces the tenant's currency and tax configuration.
	UpdateLocale(ctx context.Context, tc domain.TenantContext, req dto.UpdateLocaleRequest) (*domain.Tenant, error)

	// AddMember grants a user a role in the tenant.
	AddMember(ctx context.Context, tc domain.TenantContext, req dto.AddMemberRequest) (*domain.TenantMembership, error)
}

// TenantSvcFacade combines all tenant-related service interfaces.
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
}
