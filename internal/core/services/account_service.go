package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
)

var (
	ErrDuplicateAccountCode   = errors.New("account code already exists in this tenant")
	ErrAccountHasBalance      = errors.New("account has posted lines and cannot be deleted")
	ErrSystemAccountProtected = errors.New("system account cannot be deleted or deactivated")
	ErrUnknownAccountType     = errors.New("unknown account type")
)

// systemAccountSeed defines the standard chart created for every tenant.
// Document mappings in the posting engine resolve against these codes.
var systemAccountSeed = []struct {
	Code string
	Name string
	Type domain.AccountType
}{
	{domain.CodeAccountsReceivable, "Accounts Receivable", domain.Asset},
	{domain.CodeBank, "Bank", domain.Asset},
	{domain.CodeInventory, "Inventory", domain.Asset},
	{domain.CodeAccountsPayable, "Accounts Payable", domain.Liability},
	{domain.CodeStockAccrual, "Stock Received Not Invoiced", domain.Liability},
	{domain.CodeVATOutput, "VAT Output", domain.Liability},
	{domain.CodeVATInput, "VAT Input", domain.Asset},
	{domain.CodeOwnerEquity, "Owner Equity", domain.Equity},
	{domain.CodeSalesRevenue, "Sales Revenue", domain.Revenue},
	{domain.CodeCOGS, "Cost of Goods Sold", domain.Expense},
}

// accountService provides chart-of-accounts operations.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// SeedSystemAccounts creates the standard system chart for a new tenant.
func (s *accountService) SeedSystemAccounts(ctx context.Context, tenantID string, creatorUserID string) error {
	now := time.Now()
	for _, seed := range systemAccountSeed {
		account := domain.Account{
			AccountID:   uuid.NewString(),
			TenantID:    tenantID,
			Code:        seed.Code,
			Name:        seed.Name,
			AccountType: seed.Type,
			IsSystem:    true,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", seed.Code, err)
		}
	}
	s.LogInfo(ctx, "System accounts seeded", slog.String("tenant_id", tenantID), slog.Int("count", len(systemAccountSeed)))
	return nil
}

// CreateAccount adds a custom account to the tenant's chart.
func (s *accountService) CreateAccount(ctx context.Context, tc domain.TenantContext, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	accountType := domain.AccountType(req.AccountType)
	switch accountType {
	case domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense:
	default:
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown account type %q", req.AccountType), ErrUnknownAccountType)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tc.TenantID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: accountType,
		Description: req.Description,
		IsSystem:    false,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tc.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: tc.UserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate account code", slog.String("code", req.Code))
			return nil, apperrors.NewAppError(409, fmt.Sprintf("account code %q already exists", req.Code), ErrDuplicateAccountCode)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a single account within the tenant.
func (s *accountService) GetAccountByID(ctx context.Context, tc domain.TenantContext, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tc.TenantID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ListAccounts retrieves the tenant's chart of accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, tc domain.TenantContext) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tc.TenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount changes mutable account fields. Code and type never change;
// system accounts may be renamed but not deactivated.
func (s *accountService) UpdateAccount(ctx context.Context, tc domain.TenantContext, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, tc.TenantID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for update: %w", err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		if account.IsSystem && !*req.IsActive {
			return nil, apperrors.NewAppError(422, fmt.Sprintf("system account %s cannot be deactivated", account.Code), ErrSystemAccountProtected)
		}
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = tc.UserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account that is neither a system account nor
// referenced by any journal line.
func (s *accountService) DeleteAccount(ctx context.Context, tc domain.TenantContext, accountID string) error {
	logger := s.GetLogger(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, tc.TenantID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to find account for deletion: %w", err)
	}

	if account.IsSystem {
		return apperrors.NewAppError(422, fmt.Sprintf("system account %s cannot be deleted", account.Code), ErrSystemAccountProtected)
	}

	hasLines, err := s.accountRepo.HasPostedLines(ctx, tc.TenantID, accountID)
	if err != nil {
		return fmt.Errorf("failed to check account usage: %w", err)
	}
	if hasLines {
		return apperrors.NewAppError(422, fmt.Sprintf("account %s has ledger history and cannot be deleted", account.Code), ErrAccountHasBalance)
	}

	if err := s.accountRepo.DeleteAccount(ctx, tc.TenantID, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}
