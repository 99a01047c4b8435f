package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// registerCustomValidators installs domain-aware binding tags on gin's
// validator engine. Safe to call more than once.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		switch domain.AccountType(fl.Field().String()) {
		case domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("decimalnonneg", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !d.IsNegative()
	})

	_ = v.RegisterValidation("tenantrole", func(fl validator.FieldLevel) bool {
		switch domain.TenantRole(fl.Field().String()) {
		case domain.RoleAdmin, domain.RoleAccountant, domain.RoleStaff, domain.RoleAuditor:
			return true
		}
		return false
	})
}
