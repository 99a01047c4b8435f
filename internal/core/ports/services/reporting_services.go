package services

import (
	"context"
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// ReportingSvcFacade derives financial reports from the ledger of record.
// Reports never read the account balance cache.
type ReportingSvcFacade interface {
	// GetTrialBalance returns per-account debit and credit totals as of a date.
	GetTrialBalance(ctx context.Context, tc domain.TenantContext, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLoss returns the P&L for a date range.
	GetProfitAndLoss(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.PAndLReport, error)

	// GetBalanceSheet returns the balance sheet as of a date.
	GetBalanceSheet(ctx context.Context, tc domain.TenantContext, asOf time.Time) (*domain.BalanceSheetReport, error)

	// GetVATReturn returns the VAT summary boxes for a date range.
	GetVATReturn(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.VATReturn, error)
}
