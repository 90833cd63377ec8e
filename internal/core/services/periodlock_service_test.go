package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/core/services"
)

type PeriodLockServiceTestSuite struct {
	suite.Suite
	mockOrgRepo *MockOrganizationRepository
	service     portssvc.PeriodLockSvc

	org domain.AccountingOrganization
}

func (suite *PeriodLockServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.service = services.NewPeriodLockService(suite.mockOrgRepo)

	// A lock day of 1 keeps the boundary at the first of the current month
	// regardless of when the test runs.
	suite.org = domain.AccountingOrganization{
		OrganizationID: uuid.NewString(),
		Name:           "Test Org",
		LockDayOfMonth: 1,
		IsActive:       true,
	}
}

func (suite *PeriodLockServiceTestSuite) boundary() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func (suite *PeriodLockServiceTestSuite) TestCheckDateAllowed_Today() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()

	err := suite.service.CheckDateAllowed(ctx, suite.org.OrganizationID, time.Now())

	suite.Require().NoError(err)
}

func (suite *PeriodLockServiceTestSuite) TestCheckDateAllowed_ExactlyOnBoundary() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()

	err := suite.service.CheckDateAllowed(ctx, suite.org.OrganizationID, suite.boundary())

	suite.Require().NoError(err)
}

func (suite *PeriodLockServiceTestSuite) TestCheckDateAllowed_BeforeBoundary() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()

	err := suite.service.CheckDateAllowed(ctx, suite.org.OrganizationID, suite.boundary().AddDate(0, 0, -1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (suite *PeriodLockServiceTestSuite) TestCheckDateAllowed_UnknownOrganization() {
	ctx := context.Background()
	orgID := uuid.NewString()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, orgID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.CheckDateAllowed(ctx, orgID, time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPeriodLockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodLockServiceTestSuite))
}
