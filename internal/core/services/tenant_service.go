package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

var (
	ErrTenantInactive = errors.New("tenant is inactive")
	ErrUnknownRole    = errors.New("unknown tenant role")
)

// tenantService provides tenant onboarding, membership, and context
// resolution operations.
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
	accountSvc portssvc.AccountWriterSvc
}

// NewTenantService creates a new TenantService. The account service is used
// to seed the system chart of accounts during onboarding.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, accountSvc portssvc.AccountWriterSvc) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo: tenantRepo,
		accountSvc: accountSvc,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// Resolve builds the TenantContext for a user acting against a tenant. Any
// failure to prove membership collapses to ErrNotFound so a non-member
// cannot distinguish "no such tenant" from "not yours".
func (s *tenantService) Resolve(ctx context.Context, userID string, tenantID string) (*domain.TenantContext, error) {
	logger := s.GetLogger(ctx)

	membership, err := s.tenantRepo.FindMembership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Membership lookup failed during tenant resolution", slog.String("tenant_id", tenantID))
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to find membership", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to find tenant", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	if !tenant.IsActive {
		logger.Warn("Resolution against inactive tenant", slog.String("tenant_id", tenantID))
		return nil, apperrors.NewAppError(403, "tenant is inactive", ErrTenantInactive)
	}

	return &domain.TenantContext{
		TenantID: tenant.TenantID,
		UserID:   userID,
		Role:     membership.Role,
		Locale:   tenant.Locale,
	}, nil
}

// CreateTenant onboards a new tenant: the tenant row, the system chart of
// accounts, and an Admin membership for the creator.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	logger := s.GetLogger(ctx)

	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, apperrors.NewAppError(400, "tax rate must be between 0 and 1", apperrors.ErrValidation)
	}

	now := time.Now()
	taxLabel := req.TaxLabel
	if taxLabel == "" {
		taxLabel = "VAT"
	}
	tenant := domain.Tenant{
		TenantID: uuid.NewString(),
		Name:     req.Name,
		Locale: domain.TenantLocale{
			CurrencyCode: req.CurrencyCode,
			TaxRate:      req.TaxRate,
			TaxLabel:     taxLabel,
		},
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		logger.Error("Failed to save tenant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	membership := domain.TenantMembership{
		UserID:   creatorUserID,
		TenantID: tenant.TenantID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}
	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		logger.Error("Failed to save creator membership", slog.String("error", err.Error()), slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to save creator membership: %w", err)
	}

	if err := s.accountSvc.SeedSystemAccounts(ctx, tenant.TenantID, creatorUserID); err != nil {
		logger.Error("Failed to seed system accounts", slog.String("error", err.Error()), slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to seed system accounts: %w", err)
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID), slog.String("currency", tenant.Locale.CurrencyCode))
	return &tenant, nil
}

// GetTenantByID retrieves the tenant behind an already-resolved context.
func (s *tenantService) GetTenantByID(ctx context.Context, tc domain.TenantContext) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tc.TenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

// ListTenantsForUser retrieves all tenants the user belongs to.
func (s *tenantService) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenantsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for user")
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// ListMembers retrieves all memberships of the tenant.
func (s *tenantService) ListMembers(ctx context.Context, tc domain.TenantContext) ([]domain.TenantMembership, error) {
	members, err := s.tenantRepo.ListMemberships(ctx, tc.TenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list memberships", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return members, nil
}

// UpdateLocale replaces the tenant's currency and tax configuration.
func (s *tenantService) UpdateLocale(ctx context.Context, tc domain.TenantContext, req dto.UpdateLocaleRequest) (*domain.Tenant, error) {
	logger := s.GetLogger(ctx)

	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, apperrors.NewAppError(400, "tax rate must be between 0 and 1", apperrors.ErrValidation)
	}

	locale := domain.TenantLocale{
		CurrencyCode: req.CurrencyCode,
		TaxRate:      req.TaxRate,
		TaxLabel:     req.TaxLabel,
	}
	if locale.TaxLabel == "" {
		locale.TaxLabel = "VAT"
	}

	if err := s.tenantRepo.UpdateTenantLocale(ctx, tc.TenantID, locale, tc.UserID); err != nil {
		logger.Error("Failed to update tenant locale", slog.String("error", err.Error()), slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to update locale: %w", err)
	}

	logger.Info("Tenant locale updated", slog.String("tenant_id", tc.TenantID), slog.String("currency", locale.CurrencyCode))
	return s.tenantRepo.FindTenantByID(ctx, tc.TenantID)
}

// AddMember grants a user a role in the tenant.
func (s *tenantService) AddMember(ctx context.Context, tc domain.TenantContext, req dto.AddMemberRequest) (*domain.TenantMembership, error) {
	logger := s.GetLogger(ctx)

	role := domain.TenantRole(req.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleAccountant, domain.RoleStaff, domain.RoleAuditor:
	default:
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown role %q", req.Role), ErrUnknownRole)
	}

	membership := domain.TenantMembership{
		UserID:   req.UserID,
		TenantID: tc.TenantID,
		Role:     role,
		JoinedAt: time.Now(),
	}

	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, "user is already a member of this tenant", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save membership", slog.String("error", err.Error()), slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}

	logger.Info("Member added to tenant", slog.String("tenant_id", tc.TenantID), slog.String("member_user_id", req.UserID), slog.String("role", req.Role))
	return &membership, nil
}
