package mapping

import (
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/models"
)

// ToModelTenant converts a domain Tenant to a model Tenant
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:     d.TenantID,
		Name:         d.Name,
		CurrencyCode: d.Locale.CurrencyCode,
		TaxRate:      d.Locale.TaxRate,
		TaxLabel:     d.Locale.TaxLabel,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to a domain Tenant
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID: m.TenantID,
		Name:     m.Name,
		Locale: domain.TenantLocale{
			CurrencyCode: m.CurrencyCode,
			TaxRate:      m.TaxRate,
			TaxLabel:     m.TaxLabel,
		},
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTenantSlice converts a slice of model Tenants to a slice of domain Tenants
func ToDomainTenantSlice(ms []models.Tenant) []domain.Tenant {
	ds := make([]domain.Tenant, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTenant(m)
	}
	return ds
}

// ToModelTenantMembership converts a domain TenantMembership to a model TenantMembership
func ToModelTenantMembership(d domain.TenantMembership) models.TenantMembership {
	return models.TenantMembership{
		UserID:   d.UserID,
		TenantID: d.TenantID,
		Role:     string(d.Role),
		JoinedAt: d.JoinedAt,
	}
}

// ToDomainTenantMembership converts a model TenantMembership to a domain TenantMembership
func ToDomainTenantMembership(m models.TenantMembership) domain.TenantMembership {
	return domain.TenantMembership{
		UserID:   m.UserID,
		TenantID: m.TenantID,
		Role:     domain.TenantRole(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

// ToDomainTenantMembershipSlice converts a slice of model memberships to domain memberships
func ToDomainTenantMembershipSlice(ms []models.TenantMembership) []domain.TenantMembership {
	ds := make([]domain.TenantMembership, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTenantMembership(m)
	}
	return ds
}
