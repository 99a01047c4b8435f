package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	Revenue   []AccountAmount `json:"revenue"`
	Expenses  []AccountAmount `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport represents a balance sheet report.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// VATReturn represents the summary boxes of a UK-style VAT return.
// Box 1 is output VAT (credits on the VAT output account), Box 4 is input
// VAT (debits on the VAT input account), Box 5 the net due or reclaimable.
type VATReturn struct {
	Box1OutputVAT    decimal.Decimal `json:"box1OutputVAT"`
	Box4InputVAT     decimal.Decimal `json:"box4InputVAT"`
	Box5NetVAT       decimal.Decimal `json:"box5NetVAT"`
	Box6NetSales     decimal.Decimal `json:"box6NetSales"`
	Box7NetPurchases decimal.Decimal `json:"box7NetPurchases"`
}
