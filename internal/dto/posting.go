package dto

import (
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Document is a postable business document. Each implementation carries the
// amounts its fixed mapping rule needs; the posting engine turns it into a
// balanced draft entry as a pure function of type and amounts.
type Document interface {
	SourceType() domain.SourceType
	DocumentDate() time.Time
	DocumentID() *string
	Memo() string
}

// InvoiceDocument records a sales invoice. TaxAmount may be omitted, in
// which case it is computed from the tenant's locale tax rate. CostOfGoods,
// when present, triggers the direct-invoice stock sync: COGS and inventory
// move in the same atomic entry as the receivable.
type InvoiceDocument struct {
	SourceDocumentID *string          `json:"sourceDocumentID"`
	Date             time.Time        `json:"date" binding:"required"`
	CustomerName     string           `json:"customerName"`
	NetAmount        decimal.Decimal  `json:"netAmount" binding:"required"`
	TaxAmount        *decimal.Decimal `json:"taxAmount" binding:"omitempty,decimalnonneg"`
	CostOfGoods      *decimal.Decimal `json:"costOfGoods" binding:"omitempty,decimalnonneg"`
	Description      string           `json:"description"`
}

func (d InvoiceDocument) SourceType() domain.SourceType { return domain.SourceInvoice }
func (d InvoiceDocument) DocumentDate() time.Time       { return d.Date }
func (d InvoiceDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d InvoiceDocument) Memo() string                  { return d.Description }

// BillDocument records a vendor bill against a specific expense account.
type BillDocument struct {
	SourceDocumentID *string          `json:"sourceDocumentID"`
	Date             time.Time        `json:"date" binding:"required"`
	VendorName       string           `json:"vendorName"`
	ExpenseAccount   string           `json:"expenseAccount" binding:"required"` // Account code, e.g. "7100"
	NetAmount        decimal.Decimal  `json:"netAmount" binding:"required"`
	TaxAmount        *decimal.Decimal `json:"taxAmount" binding:"omitempty,decimalnonneg"`
	Description      string           `json:"description"`
}

func (d BillDocument) SourceType() domain.SourceType { return domain.SourceBill }
func (d BillDocument) DocumentDate() time.Time       { return d.Date }
func (d BillDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d BillDocument) Memo() string                  { return d.Description }

// PaymentDocument records a customer payment received into the bank account.
type PaymentDocument struct {
	SourceDocumentID *string         `json:"sourceDocumentID"`
	Date             time.Time       `json:"date" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description"`
}

func (d PaymentDocument) SourceType() domain.SourceType { return domain.SourcePayment }
func (d PaymentDocument) DocumentDate() time.Time       { return d.Date }
func (d PaymentDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d PaymentDocument) Memo() string                  { return d.Description }

// BillPaymentDocument records settlement of a vendor bill from the bank account.
type BillPaymentDocument struct {
	SourceDocumentID *string         `json:"sourceDocumentID"`
	Date             time.Time       `json:"date" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description"`
}

func (d BillPaymentDocument) SourceType() domain.SourceType { return domain.SourceBillPayment }
func (d BillPaymentDocument) DocumentDate() time.Time       { return d.Date }
func (d BillPaymentDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d BillPaymentDocument) Memo() string                  { return d.Description }

// GoodsReceiptDocument records stock arriving at cost, accrued until the
// vendor bill lands.
type GoodsReceiptDocument struct {
	SourceDocumentID *string         `json:"sourceDocumentID"`
	Date             time.Time       `json:"date" binding:"required"`
	Cost             decimal.Decimal `json:"cost" binding:"required"`
	Description      string          `json:"description"`
}

func (d GoodsReceiptDocument) SourceType() domain.SourceType { return domain.SourceGoodsReceipt }
func (d GoodsReceiptDocument) DocumentDate() time.Time       { return d.Date }
func (d GoodsReceiptDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d GoodsReceiptDocument) Memo() string                  { return d.Description }

// StockTransferDocument records stock leaving on fulfilment: cost of goods
// recognized, inventory relieved.
type StockTransferDocument struct {
	SourceDocumentID *string         `json:"sourceDocumentID"`
	Date             time.Time       `json:"date" binding:"required"`
	Cost             decimal.Decimal `json:"cost" binding:"required"`
	Description      string          `json:"description"`
}

func (d StockTransferDocument) SourceType() domain.SourceType { return domain.SourceStockTransfer }
func (d StockTransferDocument) DocumentDate() time.Time       { return d.Date }
func (d StockTransferDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d StockTransferDocument) Memo() string                  { return d.Description }

// ManualJournalLine is one caller-supplied line of a manual journal.
type ManualJournalLine struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Side        string          `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// ManualJournalDocument carries explicit lines; the engine validates rather
// than derives them.
type ManualJournalDocument struct {
	SourceDocumentID *string             `json:"sourceDocumentID"`
	Date             time.Time           `json:"date" binding:"required"`
	Description      string              `json:"description" binding:"required"`
	Lines            []ManualJournalLine `json:"lines" binding:"required,min=2,dive"`
}

func (d ManualJournalDocument) SourceType() domain.SourceType { return domain.SourceManualJournal }
func (d ManualJournalDocument) DocumentDate() time.Time       { return d.Date }
func (d ManualJournalDocument) DocumentID() *string           { return d.SourceDocumentID }
func (d ManualJournalDocument) Memo() string                  { return d.Description }

// ReverseEntryRequest carries the optional memo for a reversal.
type ReverseEntryRequest struct {
	Memo string `json:"memo"`
}
