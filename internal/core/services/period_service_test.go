package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/core/services"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodLockRepository
	service        portssvc.PeriodSvcFacade
	tc             domain.TenantContext
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodLockRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo)
	suite.tc = domain.TenantContext{
		TenantID: uuid.NewString(),
		UserID:   uuid.NewString(),
		Role:     domain.RoleAdmin,
	}
}

func (suite *PeriodServiceTestSuite) TestIsLocked() {
	ctx := context.Background()
	lock := &domain.PeriodLock{TenantID: suite.tc.TenantID, Period: "2025-02"}

	suite.mockPeriodRepo.On("FindLock", ctx, suite.tc.TenantID, domain.Period("2025-02")).Return(lock, nil).Once()
	suite.mockPeriodRepo.On("FindLock", ctx, suite.tc.TenantID, domain.Period("2025-03")).Return(nil, apperrors.ErrNotFound).Once()

	locked, err := suite.service.IsLocked(ctx, suite.tc.TenantID, "2025-02")
	suite.Require().NoError(err)
	suite.True(locked)

	locked, err = suite.service.IsLocked(ctx, suite.tc.TenantID, "2025-03")
	suite.Require().NoError(err)
	suite.False(locked)
}

func (suite *PeriodServiceTestSuite) TestLockPeriod_IdempotentRelock() {
	ctx := context.Background()
	originalLocker := uuid.NewString()
	existing := &domain.PeriodLock{
		TenantID: suite.tc.TenantID,
		Period:   "2025-02",
		LockedBy: originalLocker,
		LockedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	suite.mockPeriodRepo.On("SaveLock", ctx, mock.AnythingOfType("domain.PeriodLock")).Return(nil).Once()
	suite.mockPeriodRepo.On("FindLock", ctx, suite.tc.TenantID, domain.Period("2025-02")).Return(existing, nil).Once()

	lock, err := suite.service.LockPeriod(ctx, suite.tc, "2025-02")

	suite.Require().NoError(err)
	// Re-locking keeps the original locker and timestamp.
	suite.Equal(originalLocker, lock.LockedBy)
	suite.Equal(existing.LockedAt, lock.LockedAt)
}

func (suite *PeriodServiceTestSuite) TestLockPeriod_RejectsMalformedPeriod() {
	ctx := context.Background()

	_, err := suite.service.LockPeriod(ctx, suite.tc, "2025-13")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPeriod)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveLock", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUnlockPeriod_NoOpWhenUnlocked() {
	ctx := context.Background()

	suite.mockPeriodRepo.On("DeleteLock", ctx, suite.tc.TenantID, domain.Period("2025-04")).Return(nil).Once()

	err := suite.service.UnlockPeriod(ctx, suite.tc, "2025-04")

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
