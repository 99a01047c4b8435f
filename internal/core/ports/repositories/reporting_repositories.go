package repositories

import (
	"context"
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// ReportingRepository runs read-only aggregations over the ledger of
// record. Results are always computed from journal lines, never from the
// account balance cache.
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account debit and credit totals as of a date.
	GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData returns revenue and expense account nets for a period.
	GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) (revenue []domain.AccountAmount, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData returns asset, liability, and equity account nets as of a date.
	GetBalanceSheetData(ctx context.Context, tenantID string, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)

	// GetVATReturnData returns the VAT box inputs for a period: output VAT
	// credits, input VAT debits, and net sales/purchase totals.
	GetVATReturnData(ctx context.Context, tenantID string, from, to time.Time) (*domain.VATReturn, error)
}
