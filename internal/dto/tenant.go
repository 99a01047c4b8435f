package dto

import (
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTenantRequest defines the payload for tenant onboarding.
type CreateTenantRequest struct {
	Name         string          `json:"name" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxLabel     string          `json:"taxLabel"`
}

// UpdateLocaleRequest defines the payload for updating tenant locale
// configuration. Admin only, enforced at the boundary.
type UpdateLocaleRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxLabel     string          `json:"taxLabel"`
}

// AddMemberRequest defines the payload for adding a user to a tenant.
type AddMemberRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,tenantrole"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID     string          `json:"tenantID"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxLabel     string          `json:"taxLabel"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// MembershipResponse defines the data returned for a tenant membership.
type MembershipResponse struct {
	UserID   string    `json:"userID"`
	TenantID string    `json:"tenantID"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ToTenantResponse converts a domain.Tenant to its response DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:     t.TenantID,
		Name:         t.Name,
		CurrencyCode: t.Locale.CurrencyCode,
		TaxRate:      t.Locale.TaxRate,
		TaxLabel:     t.Locale.TaxLabel,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
	}
}

// ToMembershipResponse converts a domain.TenantMembership to its response DTO.
func ToMembershipResponse(m domain.TenantMembership) MembershipResponse {
	return MembershipResponse{
		UserID:   m.UserID,
		TenantID: m.TenantID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}
