package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is the persisted row for an isolated accounting environment.
type Tenant struct {
	TenantID     string          `db:"tenant_id"`
	Name         string          `db:"name"`
	CurrencyCode string          `db:"currency_code"`
	TaxRate      decimal.Decimal `db:"tax_rate"`
	TaxLabel     string          `db:"tax_label"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}

// TenantMembership is the persisted row linking a user to a tenant with a role.
type TenantMembership struct {
	UserID   string    `db:"user_id"`
	TenantID string    `db:"tenant_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}
