package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantLocale holds the per-tenant money and tax configuration.
// The currency code fixes the minor-unit exponent for every amount the
// tenant posts; the tax rate drives the document-to-lines mapping.
type TenantLocale struct {
	CurrencyCode string          `json:"currencyCode"` // ISO 4217, e.g. "GBP"
	TaxRate      decimal.Decimal `json:"taxRate"`      // e.g. 0.20 for UK standard rate
	TaxLabel     string          `json:"taxLabel"`     // e.g. "VAT"
}

// Tenant represents an isolated accounting environment containing its own
// chart of accounts, ledger, and period locks.
type Tenant struct {
	TenantID    string       `json:"tenantID"` // Primary key (UUID), immutable
	Name        string       `json:"name"`
	Locale      TenantLocale `json:"locale"` // Mutable by an Admin member only
	IsActive    bool         `json:"isActive"`
	AuditFields              // Embed common audit fields
}

// TenantRole defines the possible roles a user can have within a tenant.
type TenantRole string

const (
	RoleAdmin      TenantRole = "ADMIN"      // Full control including period unlock and member management
	RoleAccountant TenantRole = "ACCOUNTANT" // Financials and posting
	RoleStaff      TenantRole = "STAFF"      // Draft documents, no posting
	RoleAuditor    TenantRole = "AUDITOR"    // Read-only access
)

// TenantMembership represents the membership of a User in a Tenant.
type TenantMembership struct {
	UserID   string     `json:"userID"`
	TenantID string     `json:"tenantID"`
	Role     TenantRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// TenantContext carries the resolved tenant and acting principal for a
// single request. It is passed explicitly as a parameter to every core
// operation; the core never reads tenant identity from ambient state.
type TenantContext struct {
	TenantID string
	UserID   string
	Role     TenantRole
	Locale   TenantLocale
}
