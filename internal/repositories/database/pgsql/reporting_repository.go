package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	"github.com/salesmatrix/accounting_backend/internal/utils/money"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for ledger aggregations.
// All queries aggregate journal_lines, never the account balance cache, so a
// report stays correct even if the cache drifts.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData returns per-account debit and credit totals over all
// lines posted on or before asOf. Reversed entries and their reversals both
// contribute, which is what keeps the report consistent with the ledger.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, t.currency_code,
		       COALESCE(SUM(l.amount_minor) FILTER (WHERE e.entry_date <= $2 AND l.side = 'DEBIT'), 0) AS debit_minor,
		       COALESCE(SUM(l.amount_minor) FILTER (WHERE e.entry_date <= $2 AND l.side = 'CREDIT'), 0) AS credit_minor
		FROM accounts a
		JOIN tenants t ON t.tenant_id = a.tenant_id
		LEFT JOIN journal_lines l ON l.account_id = a.account_id AND l.tenant_id = a.tenant_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id AND e.tenant_id = l.tenant_id
		WHERE a.tenant_id = $1
		GROUP BY a.account_id, a.code, a.name, a.account_type, t.currency_code
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance for tenant "+tenantID, err)
	}
	defer rows.Close()

	results := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType, currencyCode string
		var debitMinor, creditMinor int64
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &accountType, &currencyCode, &debitMinor, &creditMinor); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		row.AccountType = domain.AccountType(accountType)
		row.Debit = money.FromMinorUnits(debitMinor, currencyCode)
		row.Credit = money.FromMinorUnits(creditMinor, currencyCode)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return results, nil
}

// GetProfitAndLossData returns revenue and expense account nets for entries
// dated within [from, to]. Revenue nets are credit minus debit, expense nets
// debit minus credit, so both read as natural positive figures.
func (r *PgxReportingRepository) GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	revenue, err := r.queryAccountNets(ctx, tenantID, string(domain.Revenue), `l.side = 'CREDIT'`, &from, &to)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := r.queryAccountNets(ctx, tenantID, string(domain.Expense), `l.side = 'DEBIT'`, &from, &to)
	if err != nil {
		return nil, nil, err
	}
	return revenue, expenses, nil
}

// GetBalanceSheetData returns asset, liability, and equity account nets over
// all activity up to asOf.
func (r *PgxReportingRepository) GetBalanceSheetData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	assets, err := r.queryAccountNets(ctx, tenantID, string(domain.Asset), `l.side = 'DEBIT'`, nil, &asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	liabilities, err := r.queryAccountNets(ctx, tenantID, string(domain.Liability), `l.side = 'CREDIT'`, nil, &asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	equity, err := r.queryAccountNets(ctx, tenantID, string(domain.Equity), `l.side = 'CREDIT'`, nil, &asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	return assets, liabilities, equity, nil
}

// queryAccountNets aggregates lines for all accounts of one type, netted in
// the account type's natural direction. naturalSide is a trusted SQL
// fragment chosen by the callers above, never caller input. Date filters
// live inside the aggregate FILTER so zero-activity accounts still appear
// with a zero net.
func (r *PgxReportingRepository) queryAccountNets(ctx context.Context, tenantID string, accountType string, naturalSide string, from, to *time.Time) ([]domain.AccountAmount, error) {
	args := []interface{}{tenantID, accountType}
	lineFilter := `e.entry_id IS NOT NULL`
	if from != nil {
		args = append(args, *from)
		lineFilter += ` AND e.entry_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		lineFilter += ` AND e.entry_date <= $` + strconv.Itoa(len(args))
	}

	query := `
		SELECT a.account_id, a.code, a.name, t.currency_code,
		       COALESCE(SUM(CASE WHEN ` + naturalSide + ` THEN l.amount_minor ELSE -l.amount_minor END)
		                FILTER (WHERE ` + lineFilter + `), 0) AS net_minor
		FROM accounts a
		JOIN tenants t ON t.tenant_id = a.tenant_id
		LEFT JOIN journal_lines l ON l.account_id = a.account_id AND l.tenant_id = a.tenant_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id AND e.tenant_id = l.tenant_id
		WHERE a.tenant_id = $1 AND a.account_type = $2
		GROUP BY a.account_id, a.code, a.name, t.currency_code
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account nets for type "+accountType, err)
	}
	defer rows.Close()

	results := []domain.AccountAmount{}
	for rows.Next() {
		var amt domain.AccountAmount
		var currencyCode string
		var netMinor int64
		if err := rows.Scan(&amt.AccountID, &amt.AccountCode, &amt.Name, &currencyCode, &netMinor); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account net row", err)
		}
		amt.NetAmount = money.FromMinorUnits(netMinor, currencyCode)
		results = append(results, amt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account net rows", err)
	}
	return results, nil
}

// GetVATReturnData returns the VAT box inputs for a period. Box 1 sums
// credits on the VAT output account, Box 4 debits on the VAT input account,
// Boxes 6 and 7 the net movement on revenue and expense accounts.
func (r *PgxReportingRepository) GetVATReturnData(ctx context.Context, tenantID string, from, to time.Time) (*domain.VATReturn, error) {
	query := `
		SELECT
			COALESCE(SUM(l.amount_minor) FILTER (WHERE a.code = $4 AND l.side = 'CREDIT'), 0)
			- COALESCE(SUM(l.amount_minor) FILTER (WHERE a.code = $4 AND l.side = 'DEBIT'), 0) AS output_vat_minor,
			COALESCE(SUM(l.amount_minor) FILTER (WHERE a.code = $5 AND l.side = 'DEBIT'), 0)
			- COALESCE(SUM(l.amount_minor) FILTER (WHERE a.code = $5 AND l.side = 'CREDIT'), 0) AS input_vat_minor,
			COALESCE(SUM(CASE WHEN a.account_type = 'REVENUE' AND l.side = 'CREDIT' THEN l.amount_minor
			              WHEN a.account_type = 'REVENUE' AND l.side = 'DEBIT' THEN -l.amount_minor
			              ELSE 0 END), 0) AS net_sales_minor,
			COALESCE(SUM(CASE WHEN a.account_type = 'EXPENSE' AND l.side = 'DEBIT' THEN l.amount_minor
			              WHEN a.account_type = 'EXPENSE' AND l.side = 'CREDIT' THEN -l.amount_minor
			              ELSE 0 END), 0) AS net_purchases_minor,
			MAX(l.currency_code) AS currency_code
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id AND e.tenant_id = l.tenant_id
		JOIN accounts a ON a.account_id = l.account_id AND a.tenant_id = l.tenant_id
		WHERE l.tenant_id = $1 AND e.entry_date >= $2 AND e.entry_date <= $3;
	`
	var outputVATMinor, inputVATMinor, netSalesMinor, netPurchasesMinor int64
	var currencyCode *string
	err := r.Pool.QueryRow(ctx, query, tenantID, from, to, domain.CodeVATOutput, domain.CodeVATInput).Scan(
		&outputVATMinor,
		&inputVATMinor,
		&netSalesMinor,
		&netPurchasesMinor,
		&currencyCode,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query VAT return for tenant "+tenantID, err)
	}

	currency := ""
	if currencyCode != nil {
		currency = *currencyCode
	}
	return &domain.VATReturn{
		Box1OutputVAT:    money.FromMinorUnits(outputVATMinor, currency),
		Box4InputVAT:     money.FromMinorUnits(inputVATMinor, currency),
		Box5NetVAT:       decimal.Zero, // Derived by the service as Box1 - Box4
		Box6NetSales:     money.FromMinorUnits(netSalesMinor, currency),
		Box7NetPurchases: money.FromMinorUnits(netPurchasesMinor, currency),
	}, nil
}
