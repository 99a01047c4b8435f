package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/handlers"
	"github.com/salesmatrix/accounting_backend/internal/platform/config"
)

// --- Mock TenantService ---
type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Resolve(ctx context.Context, userID string, tenantID string) (*domain.TenantContext, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantContext), args.Error(1)
}
func (m *MockTenantService) GetTenantByID(ctx context.Context, tc domain.TenantContext) (*domain.Tenant, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
func (m *MockTenantService) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}
func (m *MockTenantService) ListMembers(ctx context.Context, tc domain.TenantContext) ([]domain.TenantMembership, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantMembership), args.Error(1)
}
func (m *MockTenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
func (m *MockTenantService) UpdateLocale(ctx context.Context, tc domain.TenantContext, req dto.UpdateLocaleRequest) (*domain.Tenant, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
func (m *MockTenantService) AddMember(ctx context.Context, tc domain.TenantContext, req dto.AddMemberRequest) (*domain.TenantMembership, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMembership), args.Error(1)
}

var _ portssvc.TenantSvcFacade = (*MockTenantService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tc domain.TenantContext, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tc, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, tc domain.TenantContext) ([]domain.Account, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, tc domain.TenantContext, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, tc domain.TenantContext, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, tc, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, tc domain.TenantContext, accountID string) error {
	args := m.Called(ctx, tc, accountID)
	return args.Error(0)
}
func (m *MockAccountService) SeedSystemAccounts(ctx context.Context, tenantID string, creatorUserID string) error {
	args := m.Called(ctx, tenantID, creatorUserID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockTenantService  *MockTenantService
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "accounting-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockTenantService = new(MockTenantService)
	suite.mockAccountService = new(MockAccountService)

	cfg := &config.Config{
		JWTSecret:              suite.jwtSecret,
		RateLimit:              "1000-M",
		RefreshTokenCookieName: "refresh_token",
		RefreshTokenCookiePath: "/api/v1/auth",
	}

	services := &portssvc.ServiceContainer{
		Tenant:  suite.mockTenantService,
		Account: suite.mockAccountService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

// tenantContextFor wires up the Resolve expectation for a member with the
// given role and returns the context the handler will receive.
func (suite *AccountHandlerTestSuite) tenantContextFor(tenantID, userID string, role domain.TenantRole) domain.TenantContext {
	tc := domain.TenantContext{
		TenantID: tenantID,
		UserID:   userID,
		Role:     role,
		Locale: domain.TenantLocale{
			CurrencyCode: "GBP",
			TaxRate:      decimal.RequireFromString("0.20"),
			TaxLabel:     "VAT",
		},
	}
	suite.mockTenantService.On("Resolve", mock.Anything, userID, tenantID).Return(&tc, nil).Once()
	return tc
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	tc := suite.tenantContextFor(tenantID, userID, domain.RoleAuditor)

	expectedAccounts := []domain.Account{
		{
			AccountID:    uuid.NewString(),
			TenantID:     tenantID,
			Code:         domain.CodeBank,
			Name:         "Bank",
			AccountType:  domain.Asset,
			IsSystem:     true,
			IsActive:     true,
			BalanceMinor: 125050,
		},
		{
			AccountID:    uuid.NewString(),
			TenantID:     tenantID,
			Code:         domain.CodeSalesRevenue,
			Name:         "Sales Revenue",
			AccountType:  domain.Revenue,
			IsSystem:     true,
			IsActive:     true,
			BalanceMinor: -125050,
		},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, tc).Return(expectedAccounts, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", tenantID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody []dto.AccountResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(responseBody, 2)
	suite.Equal(domain.CodeBank, responseBody[0].Code)
	// 125050 minor units in GBP is 1250.50
	suite.True(responseBody[0].Balance.Equal(decimal.RequireFromString("1250.50")))

	suite.mockTenantService.AssertExpectations(suite.T())
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	tc := suite.tenantContextFor(tenantID, userID, domain.RoleAccountant)

	suite.mockAccountService.On("GetAccountByID", mock.Anything, tc, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts/%s", tenantID, accountID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_AuditorForbidden() {
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	suite.tenantContextFor(tenantID, userID, domain.RoleAuditor)

	body := `{"code":"6100","name":"Travel","accountType":"EXPENSE"}`
	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestListAccounts_NonMemberForbidden() {
	tenantID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockTenantService.On("Resolve", mock.Anything, userID, tenantID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", tenantID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts")
}

func (suite *AccountHandlerTestSuite) TestListAccounts_MissingTokenUnauthorized() {
	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", uuid.NewString())
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
