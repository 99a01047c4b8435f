package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/core/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/utils"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodSvc   *MockPeriodService
	service         portssvc.PostingSvcFacade
	tc              domain.TenantContext
	accounts        map[string]domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.service = services.NewPostingService(suite.mockLedgerRepo, suite.mockAccountRepo, suite.mockPeriodSvc)

	suite.tc = domain.TenantContext{
		TenantID: uuid.NewString(),
		UserID:   uuid.NewString(),
		Role:     domain.RoleAccountant,
		Locale: domain.TenantLocale{
			CurrencyCode: "GBP",
			TaxRate:      decimal.RequireFromString("0.20"),
			TaxLabel:     "VAT",
		},
	}

	suite.accounts = make(map[string]domain.Account)
	seed := map[string]domain.AccountType{
		domain.CodeAccountsReceivable: domain.Asset,
		domain.CodeBank:               domain.Asset,
		domain.CodeInventory:          domain.Asset,
		domain.CodeVATInput:           domain.Asset,
		domain.CodeAccountsPayable:    domain.Liability,
		domain.CodeStockAccrual:       domain.Liability,
		domain.CodeVATOutput:          domain.Liability,
		domain.CodeOwnerEquity:        domain.Equity,
		domain.CodeSalesRevenue:       domain.Revenue,
		domain.CodeCOGS:               domain.Expense,
		"7100":                        domain.Expense,
	}
	for code, accountType := range seed {
		suite.accounts[code] = domain.Account{
			AccountID:   uuid.NewString(),
			TenantID:    suite.tc.TenantID,
			Code:        code,
			AccountType: accountType,
			IsActive:    true,
		}
	}
}

func (suite *PostingServiceTestSuite) expectAccountResolution() {
	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, suite.tc.TenantID, mock.AnythingOfType("[]string")).
		Return(suite.accounts, nil).Once()
}

func (suite *PostingServiceTestSuite) expectOpenPeriod() {
	suite.mockPeriodSvc.On("IsLocked", mock.Anything, suite.tc.TenantID, mock.AnythingOfType("domain.Period")).
		Return(false, nil).Once()
}

func (suite *PostingServiceTestSuite) expectNoExistingKey(key string) {
	suite.mockLedgerRepo.On("FindIdempotencyRecord", mock.Anything, suite.tc.TenantID, key).
		Return(nil, apperrors.ErrNotFound).Once()
}

func invoiceDoc(net string) dto.InvoiceDocument {
	return dto.InvoiceDocument{
		Date:         time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		CustomerName: "Acme Ltd",
		NetAmount:    decimal.RequireFromString(net),
		Description:  "March widgets",
	}
}

func (suite *PostingServiceTestSuite) TestPostInvoice_Success() {
	ctx := context.Background()
	doc := invoiceDoc("1000.00")

	suite.expectNoExistingKey("k1")
	suite.expectOpenPeriod()
	suite.expectAccountResolution()

	var captured domain.JournalEntry
	var capturedChanges map[string]int64
	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.IdempotencyRecord"), mock.AnythingOfType("map[string]int64")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.JournalEntry)
			capturedChanges = args.Get(3).(map[string]int64)
		}).Return(nil).Once()

	entry, err := suite.service.PostDocument(ctx, suite.tc, "k1", doc)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.SourceInvoice, entry.SourceType)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal("k1", entry.IdempotencyKey)
	suite.Equal(suite.tc.TenantID, entry.TenantID)
	suite.Equal("GBP", entry.CurrencyCode)

	// 1000.00 net at 20% tax: AR 120000, Sales 100000, VAT 20000 minor units.
	suite.Require().Len(captured.Lines, 3)
	byCode := map[string]domain.JournalLine{}
	for _, line := range captured.Lines {
		for code, acc := range suite.accounts {
			if acc.AccountID == line.AccountID {
				byCode[code] = line
			}
		}
	}
	suite.Equal(int64(120000), byCode[domain.CodeAccountsReceivable].AmountMinor)
	suite.Equal(domain.Debit, byCode[domain.CodeAccountsReceivable].Side)
	suite.Equal(int64(100000), byCode[domain.CodeSalesRevenue].AmountMinor)
	suite.Equal(domain.Credit, byCode[domain.CodeSalesRevenue].Side)
	suite.Equal(int64(20000), byCode[domain.CodeVATOutput].AmountMinor)
	suite.Equal(domain.Credit, byCode[domain.CodeVATOutput].Side)

	// Every line moves its account toward its normal side here.
	suite.Equal(int64(120000), capturedChanges[suite.accounts[domain.CodeAccountsReceivable].AccountID])
	suite.Equal(int64(100000), capturedChanges[suite.accounts[domain.CodeSalesRevenue].AccountID])
	suite.Equal(int64(20000), capturedChanges[suite.accounts[domain.CodeVATOutput].AccountID])

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockPeriodSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostInvoice_DirectStockSync() {
	ctx := context.Background()
	doc := invoiceDoc("1000.00")
	cost := decimal.RequireFromString("400.00")
	doc.CostOfGoods = &cost

	suite.expectNoExistingKey("k-stock")
	suite.expectOpenPeriod()
	suite.expectAccountResolution()

	var captured domain.JournalEntry
	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k-stock", doc)

	suite.Require().NoError(err)
	// Revenue, tax, and cost recognition in one atomic entry of five lines.
	suite.Len(captured.Lines, 5)

	var debits, credits int64
	for _, line := range captured.Lines {
		if line.Side == domain.Debit {
			debits += line.AmountMinor
		} else {
			credits += line.AmountMinor
		}
	}
	suite.Equal(debits, credits)
}

func (suite *PostingServiceTestSuite) TestPostDocument_MissingKey() {
	_, err := suite.service.PostDocument(context.Background(), suite.tc, "", invoiceDoc("10.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrIdempotencyKeyMissing)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostDocument_IdempotentReplay() {
	ctx := context.Background()
	doc := invoiceDoc("1000.00")

	fingerprint, err := utils.FingerprintJSON(doc)
	suite.Require().NoError(err)

	existingEntryID := uuid.NewString()
	record := &domain.IdempotencyRecord{
		TenantID:    suite.tc.TenantID,
		Key:         "k1",
		Fingerprint: fingerprint,
		EntryID:     existingEntryID,
	}
	existing := &domain.JournalEntry{EntryID: existingEntryID, TenantID: suite.tc.TenantID, Status: domain.Posted}

	suite.mockLedgerRepo.On("FindIdempotencyRecord", ctx, suite.tc.TenantID, "k1").Return(record, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByIdempotencyKey", ctx, suite.tc.TenantID, "k1").Return(existing, nil).Once()

	entry, err := suite.service.PostDocument(ctx, suite.tc, "k1", doc)

	suite.Require().NoError(err)
	suite.Equal(existingEntryID, entry.EntryID)
	// No new entry, no period check: the replay returns the original even if
	// the period was locked since.
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPeriodSvc.AssertNotCalled(suite.T(), "IsLocked", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostDocument_IdempotencyConflict() {
	ctx := context.Background()

	record := &domain.IdempotencyRecord{
		TenantID:    suite.tc.TenantID,
		Key:         "k1",
		Fingerprint: "a-different-fingerprint",
		EntryID:     uuid.NewString(),
	}
	suite.mockLedgerRepo.On("FindIdempotencyRecord", ctx, suite.tc.TenantID, "k1").Return(record, nil).Once()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k1", invoiceDoc("1000.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrIdempotencyConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostDocument_PeriodLocked() {
	ctx := context.Background()
	doc := invoiceDoc("1000.00")

	suite.expectNoExistingKey("k2")
	suite.mockPeriodSvc.On("IsLocked", mock.Anything, suite.tc.TenantID, domain.Period("2025-03")).
		Return(true, nil).Once()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k2", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodLocked)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostDocument_SubMinorUnitPrecision() {
	ctx := context.Background()
	doc := invoiceDoc("10.005")

	suite.expectNoExistingKey("k3")
	suite.expectOpenPeriod()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k3", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostManualJournal_Unbalanced() {
	ctx := context.Background()
	doc := dto.ManualJournalDocument{
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Description: "Unbalanced adjustment",
		Lines: []dto.ManualJournalLine{
			{AccountCode: domain.CodeBank, Side: "DEBIT", Amount: decimal.RequireFromString("100.00")},
			{AccountCode: domain.CodeOwnerEquity, Side: "CREDIT", Amount: decimal.RequireFromString("90.00")},
		},
	}

	suite.expectNoExistingKey("k4")
	suite.expectOpenPeriod()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k4", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoice_NegativeTaxRejected() {
	ctx := context.Background()
	doc := invoiceDoc("1000.00")
	negativeTax := decimal.RequireFromString("-20.00")
	doc.TaxAmount = &negativeTax

	suite.expectNoExistingKey("k8")
	suite.expectOpenPeriod()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k8", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostManualJournal_SingleAccountRejected() {
	ctx := context.Background()
	doc := dto.ManualJournalDocument{
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Description: "Self-cancelling no-op",
		Lines: []dto.ManualJournalLine{
			{AccountCode: domain.CodeBank, Side: "DEBIT", Amount: decimal.RequireFromString("100.00")},
			{AccountCode: domain.CodeBank, Side: "CREDIT", Amount: decimal.RequireFromString("100.00")},
		},
	}

	suite.expectNoExistingKey("k9")
	suite.expectOpenPeriod()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k9", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryMinAccounts)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostManualJournal_NonPositiveAmount() {
	ctx := context.Background()
	doc := dto.ManualJournalDocument{
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Description: "Zero line",
		Lines: []dto.ManualJournalLine{
			{AccountCode: domain.CodeBank, Side: "DEBIT", Amount: decimal.Zero},
			{AccountCode: domain.CodeOwnerEquity, Side: "CREDIT", Amount: decimal.Zero},
		},
	}

	suite.expectNoExistingKey("k5")
	suite.expectOpenPeriod()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k5", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
}

func (suite *PostingServiceTestSuite) TestPostDocument_UnknownAccountCode() {
	ctx := context.Background()
	doc := dto.BillDocument{
		Date:           time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		VendorName:     "Paper Co",
		ExpenseAccount: "9999",
		NetAmount:      decimal.RequireFromString("50.00"),
	}

	suite.expectNoExistingKey("k6")
	suite.expectOpenPeriod()
	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, suite.tc.TenantID, mock.AnythingOfType("[]string")).
		Return(suite.accounts, nil).Once() // "9999" absent from the map

	_, err := suite.service.PostDocument(ctx, suite.tc, "k6", doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownAccountCode)
}

func (suite *PostingServiceTestSuite) TestPostDocument_LosesInsertRace() {
	ctx := context.Background()
	doc := invoiceDoc("1000.00")

	fingerprint, err := utils.FingerprintJSON(doc)
	suite.Require().NoError(err)

	winnerEntryID := uuid.NewString()

	suite.expectNoExistingKey("k7")
	suite.expectOpenPeriod()
	suite.expectAccountResolution()

	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockLedgerRepo.On("FindIdempotencyRecord", mock.Anything, suite.tc.TenantID, "k7").
		Return(&domain.IdempotencyRecord{
			TenantID:    suite.tc.TenantID,
			Key:         "k7",
			Fingerprint: fingerprint,
			EntryID:     winnerEntryID,
		}, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByIdempotencyKey", mock.Anything, suite.tc.TenantID, "k7").
		Return(&domain.JournalEntry{EntryID: winnerEntryID, TenantID: suite.tc.TenantID}, nil).Once()

	entry, err := suite.service.PostDocument(ctx, suite.tc, "k7", doc)

	suite.Require().NoError(err)
	suite.Equal(winnerEntryID, entry.EntryID)
}

func (suite *PostingServiceTestSuite) TestPostBill_MapsVATInput() {
	ctx := context.Background()
	doc := dto.BillDocument{
		Date:           time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		VendorName:     "Paper Co",
		ExpenseAccount: "7100",
		NetAmount:      decimal.RequireFromString("200.00"),
	}

	suite.expectNoExistingKey("k8")
	suite.expectOpenPeriod()
	suite.expectAccountResolution()

	var captured domain.JournalEntry
	suite.mockLedgerRepo.On("AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()

	_, err := suite.service.PostDocument(ctx, suite.tc, "k8", doc)

	suite.Require().NoError(err)
	suite.Require().Len(captured.Lines, 3)

	var apCredit, vatDebit, expenseDebit int64
	for _, line := range captured.Lines {
		switch line.AccountID {
		case suite.accounts[domain.CodeAccountsPayable].AccountID:
			apCredit = line.AmountMinor
		case suite.accounts[domain.CodeVATInput].AccountID:
			vatDebit = line.AmountMinor
		case suite.accounts["7100"].AccountID:
			expenseDebit = line.AmountMinor
		}
	}
	suite.Equal(int64(24000), apCredit)
	suite.Equal(int64(4000), vatDebit)
	suite.Equal(int64(20000), expenseDebit)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	arAccount := suite.accounts[domain.CodeAccountsReceivable]
	salesAccount := suite.accounts[domain.CodeSalesRevenue]

	original := &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		TenantID:     suite.tc.TenantID,
		SourceType:   domain.SourceInvoice,
		EntryDate:    time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "GBP",
		Status:       domain.Posted,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), AccountID: arAccount.AccountID, Side: domain.Debit, AmountMinor: 12000, CurrencyCode: "GBP"},
			{LineID: uuid.NewString(), AccountID: salesAccount.AccountID, Side: domain.Credit, AmountMinor: 12000, CurrencyCode: "GBP"},
		},
	}

	suite.expectNoExistingKey("rev-1")
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.tc.TenantID, original.EntryID).Return(original, nil).Once()
	suite.expectOpenPeriod()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.tc.TenantID, arAccount.AccountID).Return(&arAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.tc.TenantID, salesAccount.AccountID).Return(&salesAccount, nil).Once()

	var captured domain.JournalEntry
	var capturedChanges map[string]int64
	suite.mockLedgerRepo.On("AppendReversal", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.IdempotencyRecord"), mock.AnythingOfType("map[string]int64"), original.EntryID).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.JournalEntry)
			capturedChanges = args.Get(3).(map[string]int64)
		}).Return(nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.tc, "rev-1", original.EntryID, "fat-fingered amount")

	suite.Require().NoError(err)
	suite.Equal(domain.SourceReversal, reversing.SourceType)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(original.EntryID, *reversing.OriginalEntryID)

	// Sides swap, magnitudes stay.
	suite.Require().Len(captured.Lines, 2)
	for i, line := range captured.Lines {
		suite.Equal(original.Lines[i].AccountID, line.AccountID)
		suite.Equal(original.Lines[i].Side.Opposite(), line.Side)
		suite.Equal(original.Lines[i].AmountMinor, line.AmountMinor)
	}

	// Balance deltas are the exact negation of the original posting.
	suite.Equal(int64(-12000), capturedChanges[arAccount.AccountID])
	suite.Equal(int64(-12000), capturedChanges[salesAccount.AccountID])
}

func (suite *PostingServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	original := &domain.JournalEntry{
		EntryID:  uuid.NewString(),
		TenantID: suite.tc.TenantID,
		Status:   domain.Reversed,
	}

	suite.expectNoExistingKey("rev-2")
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.tc.TenantID, original.EntryID).Return(original, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.tc, "rev-2", original.EntryID, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_NotFoundInTenant() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectNoExistingKey("rev-3")
	// Cross-tenant reads surface as not-found, never as forbidden.
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.tc.TenantID, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.tc, "rev-3", entryID, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
