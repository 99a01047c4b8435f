package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/utils"
	"github.com/salesmatrix/accounting_backend/internal/utils/money"
)

var (
	ErrIdempotencyKeyMissing  = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key was already used with a different payload")
	ErrPeriodLocked           = errors.New("fiscal period is locked")
	ErrEntryUnbalanced        = errors.New("journal lines do not balance")
	ErrEntryMinLines          = errors.New("journal entry must have at least two lines")
	ErrEntryMinAccounts       = errors.New("journal entry must involve at least two accounts")
	ErrNonPositiveAmount      = errors.New("line amount must be positive")
	ErrUnknownAccountCode     = errors.New("account code not found in this tenant")
	ErrInactiveAccount        = errors.New("account is inactive")
	ErrAlreadyReversed        = errors.New("entry is already reversed")
	ErrReversalOfReversal     = errors.New("a reversing entry cannot itself be reversed")
	ErrUnsupportedDocument    = errors.New("unsupported document type")
	ErrInvalidDocumentAmounts = errors.New("document amounts are invalid")
)

// postingService is the single write path into the ledger. It converts
// business documents into balanced journal entries and appends them
// atomically with idempotency and period-lock protection.
type postingService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	periodSvc   portssvc.PeriodSvcFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodSvc portssvc.PeriodSvcFacade) portssvc.PostingSvcFacade {
	return &postingService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		periodSvc:   periodSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// roundTax rounds a computed tax amount to the currency's minor unit.
func roundTax(amount decimal.Decimal, currencyCode string) decimal.Decimal {
	return amount.Round(money.Exponent(currencyCode))
}

// mapDocument converts a document into an unpersisted draft entry using the
// fixed mapping rule for its type. It is a pure function of the document and
// the tenant locale; no repository access happens here.
func (s *postingService) mapDocument(doc dto.Document, locale domain.TenantLocale) (*domain.DraftEntry, error) {
	currency := locale.CurrencyCode

	draft := &domain.DraftEntry{
		SourceType:       doc.SourceType(),
		SourceDocumentID: doc.DocumentID(),
		EntryDate:        doc.DocumentDate(),
		Description:      doc.Memo(),
		CurrencyCode:     currency,
	}

	toMinor := func(d decimal.Decimal) (int64, error) {
		v, err := money.ToMinorUnits(d, currency)
		if err != nil {
			return 0, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
		}
		return v, nil
	}

	switch d := doc.(type) {
	case dto.InvoiceDocument:
		net, err := toMinor(d.NetAmount)
		if err != nil {
			return nil, err
		}
		taxDec := roundTax(d.NetAmount.Mul(locale.TaxRate), currency)
		if d.TaxAmount != nil {
			if d.TaxAmount.IsNegative() {
				return nil, apperrors.NewAppError(400, "taxAmount must not be negative", apperrors.ErrValidation)
			}
			taxDec = *d.TaxAmount
		}
		tax, err := toMinor(taxDec)
		if err != nil {
			return nil, err
		}
		memo := d.Description
		if memo == "" {
			memo = fmt.Sprintf("Invoice %s", d.CustomerName)
		}
		draft.Description = memo
		draft.Lines = []domain.DraftLine{
			{AccountCode: domain.CodeAccountsReceivable, Side: domain.Debit, AmountMinor: net + tax, Description: memo},
			{AccountCode: domain.CodeSalesRevenue, Side: domain.Credit, AmountMinor: net, Description: memo},
		}
		if tax > 0 {
			draft.Lines = append(draft.Lines, domain.DraftLine{
				AccountCode: domain.CodeVATOutput, Side: domain.Credit, AmountMinor: tax, Description: memo,
			})
		}
		// Direct-invoice stock sync: recognize cost in the same atom as the
		// receivable so revenue and COGS can never land in different entries.
		if d.CostOfGoods != nil && d.CostOfGoods.IsPositive() {
			cost, err := toMinor(*d.CostOfGoods)
			if err != nil {
				return nil, err
			}
			draft.Lines = append(draft.Lines,
				domain.DraftLine{AccountCode: domain.CodeCOGS, Side: domain.Debit, AmountMinor: cost, Description: memo},
				domain.DraftLine{AccountCode: domain.CodeInventory, Side: domain.Credit, AmountMinor: cost, Description: memo},
			)
		}

	case dto.BillDocument:
		net, err := toMinor(d.NetAmount)
		if err != nil {
			return nil, err
		}
		taxDec := roundTax(d.NetAmount.Mul(locale.TaxRate), currency)
		if d.TaxAmount != nil {
			if d.TaxAmount.IsNegative() {
				return nil, apperrors.NewAppError(400, "taxAmount must not be negative", apperrors.ErrValidation)
			}
			taxDec = *d.TaxAmount
		}
		tax, err := toMinor(taxDec)
		if err != nil {
			return nil, err
		}
		memo := d.Description
		if memo == "" {
			memo = fmt.Sprintf("Bill %s", d.VendorName)
		}
		draft.Description = memo
		draft.Lines = []domain.DraftLine{
			{AccountCode: d.ExpenseAccount, Side: domain.Debit, AmountMinor: net, Description: memo},
			{AccountCode: domain.CodeAccountsPayable, Side: domain.Credit, AmountMinor: net + tax, Description: memo},
		}
		if tax > 0 {
			draft.Lines = append(draft.Lines, domain.DraftLine{
				AccountCode: domain.CodeVATInput, Side: domain.Debit, AmountMinor: tax, Description: memo,
			})
		}

	case dto.PaymentDocument:
		amount, err := toMinor(d.Amount)
		if err != nil {
			return nil, err
		}
		draft.Lines = []domain.DraftLine{
			{AccountCode: domain.CodeBank, Side: domain.Debit, AmountMinor: amount, Description: d.Description},
			{AccountCode: domain.CodeAccountsReceivable, Side: domain.Credit, AmountMinor: amount, Description: d.Description},
		}

	case dto.BillPaymentDocument:
		amount, err := toMinor(d.Amount)
		if err != nil {
			return nil, err
		}
		draft.Lines = []domain.DraftLine{
			{AccountCode: domain.CodeAccountsPayable, Side: domain.Debit, AmountMinor: amount, Description: d.Description},
			{AccountCode: domain.CodeBank, Side: domain.Credit, AmountMinor: amount, Description: d.Description},
		}

	case dto.GoodsReceiptDocument:
		cost, err := toMinor(d.Cost)
		if err != nil {
			return nil, err
		}
		draft.Lines = []domain.DraftLine{
			{AccountCode: domain.CodeInventory, Side: domain.Debit, AmountMinor: cost, Description: d.Description},
			{AccountCode: domain.CodeStockAccrual, Side: domain.Credit, AmountMinor: cost, Description: d.Description},
		}

	case dto.StockTransferDocument:
		cost, err := toMinor(d.Cost)
		if err != nil {
			return nil, err
		}
		draft.Lines = []domain.DraftLine{
			{AccountCode: domain.CodeCOGS, Side: domain.Debit, AmountMinor: cost, Description: d.Description},
			{AccountCode: domain.CodeInventory, Side: domain.Credit, AmountMinor: cost, Description: d.Description},
		}

	case dto.ManualJournalDocument:
		for _, line := range d.Lines {
			amount, err := toMinor(line.Amount)
			if err != nil {
				return nil, err
			}
			draft.Lines = append(draft.Lines, domain.DraftLine{
				AccountCode: line.AccountCode,
				Side:        domain.EntrySide(line.Side),
				AmountMinor: amount,
				Description: line.Description,
			})
		}

	default:
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unsupported document type %T", doc), ErrUnsupportedDocument)
	}

	return draft, nil
}

// validateDraft enforces the structural invariants every entry must satisfy
// before it is allowed anywhere near the ledger.
func (s *postingService) validateDraft(draft *domain.DraftEntry) error {
	if len(draft.Lines) < 2 {
		return apperrors.NewAppError(422, "journal entry must have at least two lines", ErrEntryMinLines)
	}
	accountSet := make(map[string]bool, len(draft.Lines))
	for _, line := range draft.Lines {
		accountSet[line.AccountCode] = true
	}
	if len(accountSet) < 2 {
		return apperrors.NewAppError(422, "journal entry must involve at least two different accounts", ErrEntryMinAccounts)
	}
	for _, line := range draft.Lines {
		if line.AmountMinor <= 0 {
			return apperrors.NewAppError(422, fmt.Sprintf("line amount for account %s must be positive", line.AccountCode), ErrNonPositiveAmount)
		}
	}
	if !draft.IsBalanced() {
		return apperrors.NewAppError(422,
			fmt.Sprintf("debits %d do not equal credits %d", draft.DebitTotalMinor(), draft.CreditTotalMinor()),
			ErrEntryUnbalanced)
	}
	return nil
}

// checkPeriod rejects postings dated into a locked fiscal period.
func (s *postingService) checkPeriod(ctx context.Context, tenantID string, entryDate time.Time) error {
	period := domain.PeriodOf(entryDate)
	locked, err := s.periodSvc.IsLocked(ctx, tenantID, period)
	if err != nil {
		return fmt.Errorf("failed to check period lock: %w", err)
	}
	if locked {
		return apperrors.NewAppError(400, fmt.Sprintf("period %s is locked", period), ErrPeriodLocked)
	}
	return nil
}

// resolveAccounts maps draft line account codes to accounts, rejecting
// unknown and inactive codes.
func (s *postingService) resolveAccounts(ctx context.Context, tenantID string, draft *domain.DraftEntry) (map[string]domain.Account, error) {
	codes := make([]string, 0, len(draft.Lines))
	seen := make(map[string]bool, len(draft.Lines))
	for _, line := range draft.Lines {
		if !seen[line.AccountCode] {
			seen[line.AccountCode] = true
			codes = append(codes, line.AccountCode)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, tenantID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	for _, code := range codes {
		account, ok := accounts[code]
		if !ok {
			return nil, apperrors.NewAppError(422, fmt.Sprintf("account code %q does not exist in this tenant", code), ErrUnknownAccountCode)
		}
		if !account.IsActive {
			return nil, apperrors.NewAppError(422, fmt.Sprintf("account %q is inactive", code), ErrInactiveAccount)
		}
	}
	return accounts, nil
}

// replayOutcome resolves a replayed idempotency key: the same payload
// returns the original entry, a different payload is a hard conflict.
func (s *postingService) replayOutcome(ctx context.Context, tenantID string, record *domain.IdempotencyRecord, fingerprint string) (*domain.JournalEntry, error) {
	if record.Fingerprint != fingerprint {
		return nil, apperrors.NewAppError(409, "idempotency key was already used with a different payload", ErrIdempotencyConflict)
	}
	entry, err := s.ledgerRepo.FindEntryByIdempotencyKey(ctx, tenantID, record.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry for idempotent replay: %w", err)
	}
	return entry, nil
}

// PostDocument converts a document into a balanced journal entry and
// appends it atomically. The order of checks is deliberate: idempotency
// first, so a replay of a previously accepted posting succeeds even if its
// period has since been locked.
func (s *postingService) PostDocument(ctx context.Context, tc domain.TenantContext, idempotencyKey string, doc dto.Document) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	if idempotencyKey == "" {
		return nil, apperrors.NewAppError(400, "Idempotency-Key header is required", ErrIdempotencyKeyMissing)
	}

	fingerprint, err := utils.FingerprintJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint document: %w", err)
	}

	record, err := s.ledgerRepo.FindIdempotencyRecord(ctx, tc.TenantID, idempotencyKey)
	if err == nil {
		logger.Info("Idempotent replay detected", slog.String("idempotency_key", idempotencyKey))
		return s.replayOutcome(ctx, tc.TenantID, record, fingerprint)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency record: %w", err)
	}

	if err := s.checkPeriod(ctx, tc.TenantID, doc.DocumentDate()); err != nil {
		return nil, err
	}

	draft, err := s.mapDocument(doc, tc.Locale)
	if err != nil {
		return nil, err
	}
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	accounts, err := s.resolveAccounts(ctx, tc.TenantID, draft)
	if err != nil {
		return nil, err
	}

	entry, balanceChanges := s.buildEntry(tc, idempotencyKey, draft, accounts)
	idemRecord := domain.IdempotencyRecord{
		TenantID:    tc.TenantID,
		Key:         idempotencyKey,
		Fingerprint: fingerprint,
		EntryID:     entry.EntryID,
		CreatedAt:   entry.CreatedAt,
	}

	if err := s.ledgerRepo.AppendEntry(ctx, entry, idemRecord, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the unique-key race: defer to whoever won it.
			winner, ferr := s.ledgerRepo.FindIdempotencyRecord(ctx, tc.TenantID, idempotencyKey)
			if ferr != nil {
				return nil, fmt.Errorf("failed to read winning idempotency record: %w", ferr)
			}
			logger.Info("Concurrent posting lost idempotency race", slog.String("idempotency_key", idempotencyKey))
			return s.replayOutcome(ctx, tc.TenantID, winner, fingerprint)
		}
		logger.Error("Failed to append entry", slog.String("error", err.Error()), slog.String("source_type", string(draft.SourceType)))
		return nil, fmt.Errorf("failed to append entry: %w", err)
	}

	logger.Info("Document posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("source_type", string(entry.SourceType)),
		slog.Int64("debit_total_minor", draft.DebitTotalMinor()))
	return &entry, nil
}

// buildEntry materializes a validated draft into a persistable entry and
// the per-account signed balance deltas the append transaction applies.
func (s *postingService) buildEntry(tc domain.TenantContext, idempotencyKey string, draft *domain.DraftEntry, accounts map[string]domain.Account) (domain.JournalEntry, map[string]int64) {
	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     tc.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: tc.UserID,
	}

	entry := domain.JournalEntry{
		EntryID:          uuid.NewString(),
		TenantID:         tc.TenantID,
		SourceType:       draft.SourceType,
		SourceDocumentID: draft.SourceDocumentID,
		EntryDate:        draft.EntryDate,
		Description:      draft.Description,
		CurrencyCode:     draft.CurrencyCode,
		Status:           domain.Posted,
		IdempotencyKey:   idempotencyKey,
		AuditFields:      audit,
	}

	balanceChanges := make(map[string]int64)
	entry.Lines = make([]domain.JournalLine, len(draft.Lines))
	for i, dl := range draft.Lines {
		account := accounts[dl.AccountCode]
		line := domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			AccountID:    account.AccountID,
			Side:         dl.Side,
			AmountMinor:  dl.AmountMinor,
			CurrencyCode: draft.CurrencyCode,
			Description:  dl.Description,
			AuditFields:  audit,
		}
		entry.Lines[i] = line
		balanceChanges[account.AccountID] += line.SignedAmountMinor(account.AccountType)
	}

	return entry, balanceChanges
}

// reversalPayload is the canonical shape fingerprinted for reversal
// idempotency.
type reversalPayload struct {
	EntryID string `json:"entryID"`
	Memo    string `json:"memo"`
}

// ReverseEntry appends a mirror-image reversing entry and flips the
// original to REVERSED, atomically. The original's lines are never edited.
func (s *postingService) ReverseEntry(ctx context.Context, tc domain.TenantContext, idempotencyKey string, entryID string, memo string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	if idempotencyKey == "" {
		return nil, apperrors.NewAppError(400, "Idempotency-Key header is required", ErrIdempotencyKeyMissing)
	}

	fingerprint, err := utils.FingerprintJSON(reversalPayload{EntryID: entryID, Memo: memo})
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint reversal: %w", err)
	}

	record, err := s.ledgerRepo.FindIdempotencyRecord(ctx, tc.TenantID, idempotencyKey)
	if err == nil {
		return s.replayOutcome(ctx, tc.TenantID, record, fingerprint)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency record: %w", err)
	}

	original, err := s.ledgerRepo.FindEntryByID(ctx, tc.TenantID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load entry for reversal: %w", err)
	}

	if original.Status == domain.Reversed {
		return nil, apperrors.NewAppError(409, "entry is already reversed", ErrAlreadyReversed)
	}
	if original.SourceType == domain.SourceReversal {
		return nil, apperrors.NewAppError(422, "a reversing entry cannot itself be reversed", ErrReversalOfReversal)
	}

	// The reversal posts at the current date, so a locked historical period
	// stays closed while its corrections land in the open one.
	now := time.Now()
	if err := s.checkPeriod(ctx, tc.TenantID, now); err != nil {
		return nil, err
	}

	description := memo
	if description == "" {
		description = fmt.Sprintf("Reversal of %s", original.Description)
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     tc.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: tc.UserID,
	}

	reversing := domain.JournalEntry{
		EntryID:          uuid.NewString(),
		TenantID:         tc.TenantID,
		SourceType:       domain.SourceReversal,
		SourceDocumentID: original.SourceDocumentID,
		EntryDate:        now,
		Description:      description,
		CurrencyCode:     original.CurrencyCode,
		Status:           domain.Posted,
		IdempotencyKey:   idempotencyKey,
		OriginalEntryID:  &original.EntryID,
		AuditFields:      audit,
	}

	// Balance deltas need account types; resolve the accounts behind the
	// original lines.
	accountIDs := make(map[string]bool, len(original.Lines))
	balanceChanges := make(map[string]int64)
	reversing.Lines = make([]domain.JournalLine, len(original.Lines))
	for i, ol := range original.Lines {
		accountIDs[ol.AccountID] = true
		reversing.Lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      reversing.EntryID,
			AccountID:    ol.AccountID,
			Side:         ol.Side.Opposite(),
			AmountMinor:  ol.AmountMinor,
			CurrencyCode: ol.CurrencyCode,
			Description:  description,
			AuditFields:  audit,
		}
	}

	for accountID := range accountIDs {
		account, err := s.accountRepo.FindAccountByID(ctx, tc.TenantID, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve account %s for reversal: %w", accountID, err)
		}
		for _, line := range reversing.Lines {
			if line.AccountID == accountID {
				balanceChanges[accountID] += line.SignedAmountMinor(account.AccountType)
			}
		}
	}

	idemRecord := domain.IdempotencyRecord{
		TenantID:    tc.TenantID,
		Key:         idempotencyKey,
		Fingerprint: fingerprint,
		EntryID:     reversing.EntryID,
		CreatedAt:   now,
	}

	if err := s.ledgerRepo.AppendReversal(ctx, reversing, idemRecord, balanceChanges, original.EntryID); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			winner, ferr := s.ledgerRepo.FindIdempotencyRecord(ctx, tc.TenantID, idempotencyKey)
			if ferr != nil {
				return nil, fmt.Errorf("failed to read winning idempotency record: %w", ferr)
			}
			return s.replayOutcome(ctx, tc.TenantID, winner, fingerprint)
		}
		if errors.Is(err, apperrors.ErrConflict) {
			// Someone reversed it between our read and the append.
			return nil, apperrors.NewAppError(409, "entry is already reversed", ErrAlreadyReversed)
		}
		logger.Error("Failed to append reversal", slog.String("error", err.Error()), slog.String("original_entry_id", original.EntryID))
		return nil, fmt.Errorf("failed to append reversal: %w", err)
	}

	logger.Info("Entry reversed", slog.String("original_entry_id", original.EntryID), slog.String("reversing_entry_id", reversing.EntryID))
	return &reversing, nil
}
