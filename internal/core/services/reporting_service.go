package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
)

// reportingService derives financial reports from the ledger of record.
type reportingService struct {
	BaseService
	reportRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportRepo: reportRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetTrialBalance returns per-account debit and credit totals as of a date.
func (s *reportingService) GetTrialBalance(ctx context.Context, tc domain.TenantContext, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := s.reportRepo.GetTrialBalanceData(ctx, tc.TenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	return rows, nil
}

// GetProfitAndLoss returns the P&L for a date range.
func (s *reportingService) GetProfitAndLoss(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.PAndLReport, error) {
	revenue, expenses, err := s.reportRepo.GetProfitAndLossData(ctx, tc.TenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build P&L", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to build profit and loss: %w", err)
	}

	totalRevenue := decimal.Zero
	for _, r := range revenue {
		totalRevenue = totalRevenue.Add(r.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.NetAmount)
	}

	return &domain.PAndLReport{
		Revenue:   revenue,
		Expenses:  expenses,
		NetProfit: totalRevenue.Sub(totalExpenses),
	}, nil
}

// GetBalanceSheet returns the balance sheet as of a date.
func (s *reportingService) GetBalanceSheet(ctx context.Context, tc domain.TenantContext, asOf time.Time) (*domain.BalanceSheetReport, error) {
	assets, liabilities, equity, err := s.reportRepo.GetBalanceSheetData(ctx, tc.TenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build balance sheet", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to build balance sheet: %w", err)
	}

	report := &domain.BalanceSheetReport{
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
	}
	for _, a := range assets {
		report.TotalAssets = report.TotalAssets.Add(a.NetAmount)
	}
	for _, l := range liabilities {
		report.TotalLiabilities = report.TotalLiabilities.Add(l.NetAmount)
	}
	for _, e := range equity {
		report.TotalEquity = report.TotalEquity.Add(e.NetAmount)
	}
	return report, nil
}

// GetVATReturn returns the VAT summary boxes for a date range. Box 5 is
// derived here rather than in SQL so the net always reflects exactly what
// boxes 1 and 4 report.
func (s *reportingService) GetVATReturn(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.VATReturn, error) {
	vat, err := s.reportRepo.GetVATReturnData(ctx, tc.TenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build VAT return", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to build VAT return: %w", err)
	}

	vat.Box5NetVAT = vat.Box1OutputVAT.Sub(vat.Box4InputVAT)
	return vat, nil
}
