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
)

type TenantServiceTestSuite struct {
	suite.Suite
	mockTenantRepo *MockTenantRepository
	mockAccountSvc *MockAccountWriterSvc
	service        portssvc.TenantSvcFacade
	userID         string
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockAccountSvc = new(MockAccountWriterSvc)
	suite.service = services.NewTenantService(suite.mockTenantRepo, suite.mockAccountSvc)
	suite.userID = uuid.NewString()
}

func (suite *TenantServiceTestSuite) TestCreateTenant_SeedsChartAndAdminMembership() {
	ctx := context.Background()
	req := dto.CreateTenantRequest{
		Name:         "Salesmatrix Ltd",
		CurrencyCode: "GBP",
		TaxRate:      decimal.RequireFromString("0.20"),
	}

	suite.mockTenantRepo.On("SaveTenant", ctx, mock.AnythingOfType("domain.Tenant")).Return(nil).Once()
	suite.mockTenantRepo.On("SaveMembership", ctx, mock.MatchedBy(func(m domain.TenantMembership) bool {
		return m.UserID == suite.userID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()
	suite.mockAccountSvc.On("SeedSystemAccounts", ctx, mock.AnythingOfType("string"), suite.userID).Return(nil).Once()

	tenant, err := suite.service.CreateTenant(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(tenant.TenantID)
	suite.Equal("GBP", tenant.Locale.CurrencyCode)
	suite.Equal("VAT", tenant.Locale.TaxLabel) // defaulted
	suite.True(tenant.IsActive)

	suite.mockTenantRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestCreateTenant_RejectsBadTaxRate() {
	ctx := context.Background()
	req := dto.CreateTenantRequest{
		Name:         "Bad Rate Inc",
		CurrencyCode: "GBP",
		TaxRate:      decimal.RequireFromString("1.5"),
	}

	_, err := suite.service.CreateTenant(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "SaveTenant", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestResolve_Member() {
	ctx := context.Background()
	tenantID := uuid.NewString()

	membership := &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: tenantID,
		Role:     domain.RoleAccountant,
	}
	tenant := &domain.Tenant{
		TenantID: tenantID,
		Name:     "Salesmatrix Ltd",
		Locale: domain.TenantLocale{
			CurrencyCode: "GBP",
			TaxRate:      decimal.RequireFromString("0.20"),
			TaxLabel:     "VAT",
		},
		IsActive: true,
	}

	suite.mockTenantRepo.On("FindMembership", ctx, suite.userID, tenantID).Return(membership, nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, tenantID).Return(tenant, nil).Once()

	tc, err := suite.service.Resolve(ctx, suite.userID, tenantID)

	suite.Require().NoError(err)
	suite.Equal(tenantID, tc.TenantID)
	suite.Equal(suite.userID, tc.UserID)
	suite.Equal(domain.RoleAccountant, tc.Role)
	suite.Equal("GBP", tc.Locale.CurrencyCode)
}

func (suite *TenantServiceTestSuite) TestResolve_NonMemberGetsNotFound() {
	ctx := context.Background()
	tenantID := uuid.NewString()

	suite.mockTenantRepo.On("FindMembership", ctx, suite.userID, tenantID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Resolve(ctx, suite.userID, tenantID)

	suite.Require().Error(err)
	// Non-membership is indistinguishable from a nonexistent tenant.
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "FindTenantByID", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestAddMember_DuplicateMembership() {
	ctx := context.Background()
	tc := domain.TenantContext{TenantID: uuid.NewString(), UserID: suite.userID, Role: domain.RoleAdmin}

	suite.mockTenantRepo.On("SaveMembership", ctx, mock.AnythingOfType("domain.TenantMembership")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.AddMember(ctx, tc, dto.AddMemberRequest{UserID: uuid.NewString(), Role: "AUDITOR"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *TenantServiceTestSuite) TestAddMember_RejectsUnknownRole() {
	ctx := context.Background()
	tc := domain.TenantContext{TenantID: uuid.NewString(), UserID: suite.userID, Role: domain.RoleAdmin}

	_, err := suite.service.AddMember(ctx, tc, dto.AddMemberRequest{UserID: uuid.NewString(), Role: "SUPERUSER"})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownRole)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestUpdateLocale() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	tc := domain.TenantContext{TenantID: tenantID, UserID: suite.userID, Role: domain.RoleAdmin}
	req := dto.UpdateLocaleRequest{CurrencyCode: "JPY", TaxRate: decimal.RequireFromString("0.10"), TaxLabel: "CT"}

	updated := &domain.Tenant{
		TenantID: tenantID,
		Locale:   domain.TenantLocale{CurrencyCode: "JPY", TaxRate: req.TaxRate, TaxLabel: "CT"},
		IsActive: true,
		AuditFields: domain.AuditFields{
			LastUpdatedAt: time.Now(),
			LastUpdatedBy: suite.userID,
		},
	}

	suite.mockTenantRepo.On("UpdateTenantLocale", ctx, tenantID, mock.MatchedBy(func(l domain.TenantLocale) bool {
		return l.CurrencyCode == "JPY" && l.TaxLabel == "CT"
	}), suite.userID).Return(nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, tenantID).Return(updated, nil).Once()

	tenant, err := suite.service.UpdateLocale(ctx, tc, req)

	suite.Require().NoError(err)
	suite.Equal("JPY", tenant.Locale.CurrencyCode)
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
