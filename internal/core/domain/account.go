package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSide returns the side on which the account type naturally increases.
func (t AccountType) NormalSide() EntrySide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Account represents a chart-of-accounts entry within a tenant.
// BalanceMinor is a materialized cache maintained inside the ledger append
// transaction; the ledger of record is always the journal lines, and the
// cache can be recomputed from them at any time.
type Account struct {
	AccountID    string      `json:"accountID"` // Primary key (UUID)
	TenantID     string      `json:"tenantID"`
	Code         string      `json:"code"` // Unique per tenant, e.g. "1100"
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	Description  string      `json:"description"`
	IsSystem     bool        `json:"isSystem"` // System accounts cannot be deleted
	IsActive     bool        `json:"isActive"`
	BalanceMinor int64       `json:"balanceMinor"` // Signed, in currency minor units
	AuditFields
}

// System account codes seeded for every tenant at onboarding. The posting
// engine's document mappings resolve against these codes.
const (
	CodeAccountsReceivable = "1100"
	CodeBank               = "1200"
	CodeInventory          = "1300"
	CodeAccountsPayable    = "2100"
	CodeStockAccrual       = "2150"
	CodeVATOutput          = "2200"
	CodeVATInput           = "2201"
	CodeOwnerEquity        = "3100"
	CodeSalesRevenue       = "4000"
	CodeCOGS               = "5000"
)
