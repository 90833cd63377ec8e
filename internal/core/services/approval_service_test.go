package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/core/services"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	mockUserRepo     *MockUserRepository
	mockOrgRepo      *MockOrganizationRepository
	mockEvents       *MockEventPublisher
	service          portssvc.ApprovalSvcFacade

	locationID       string
	revenueAccountID string
	org              domain.AccountingOrganization
	approver         domain.User
	requester        domain.User
	invoice          domain.FinancialDocument
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockEvents = new(MockEventPublisher)
	suite.service = services.NewApprovalService(suite.mockDocumentRepo, suite.mockUserRepo, suite.mockOrgRepo, suite.mockEvents)

	suite.locationID = uuid.NewString()
	suite.revenueAccountID = uuid.NewString()

	suite.org = domain.AccountingOrganization{
		OrganizationID:              uuid.NewString(),
		Name:                        "Test Org",
		LockDayOfMonth:              1,
		IsActive:                    true,
		TaxPayableAccountID:         uuid.NewString(),
		AccountsReceivableAccountID: uuid.NewString(),
		LocationIDs:                 []string{suite.locationID},
	}

	limit := decimal.NewFromInt(1000)
	suite.approver = domain.User{
		UserID:              uuid.NewString(),
		Name:                "Approver",
		IsActive:            true,
		InvoiceApproveLimit: &limit,
		LocationIDs:         []string{suite.locationID},
	}
	suite.requester = domain.User{
		UserID:      uuid.NewString(),
		Name:        "Requester",
		IsActive:    true,
		LocationIDs: []string{suite.locationID},
	}

	suite.invoice = domain.FinancialDocument{
		DocumentID:     uuid.NewString(),
		DocumentType:   domain.DocTypeInvoice,
		DocumentNumber: "INV-1001",
		LocationID:     suite.locationID,
		OrganizationID: suite.org.OrganizationID,
		Date:           time.Now(),
		Status:         domain.StatusPendingApproval,
		Items: []domain.DocumentItem{
			{
				ItemID:      uuid.NewString(),
				GLAccountID: suite.revenueAccountID,
				Quantity:    decimal.NewFromInt(1),
				UnitCost:    decimal.NewFromInt(100),
				TaxRate:     decimal.NewFromFloat(0.1),
			},
		},
	}
}

func (suite *ApprovalServiceTestSuite) TestGetApproversList_FiltersByLimitAndLocation() {
	ctx := context.Background()

	lowLimit := decimal.NewFromInt(50)
	tooLow := domain.User{
		UserID:              uuid.NewString(),
		Name:                "Too Low",
		IsActive:            true,
		InvoiceApproveLimit: &lowLimit,
		LocationIDs:         []string{suite.locationID},
	}
	noLimit := domain.User{
		UserID:      uuid.NewString(),
		Name:        "No Limit",
		IsActive:    true,
		LocationIDs: []string{suite.locationID},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.requester.UserID).Return(&suite.requester, nil).Once()
	suite.mockUserRepo.On("FindUsersByLocation", ctx, suite.locationID).Return([]domain.User{suite.approver, tooLow, noLimit}, nil).Once()

	approvers, err := suite.service.GetApproversList(ctx, suite.invoice.DocumentID, suite.requester.UserID)

	suite.Require().NoError(err)
	suite.Require().Len(approvers, 1)
	suite.Equal(suite.approver.UserID, approvers[0].UserID)
	suite.True(approvers[0].Limit.Equal(decimal.NewFromInt(1000)))
}

func (suite *ApprovalServiceTestSuite) TestCreateApproveRequest_Success() {
	ctx := context.Background()
	draft := suite.invoice
	draft.Status = domain.StatusDraft

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, draft.DocumentID).Return(&draft, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.requester.UserID).Return(&suite.requester, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.approver.UserID).Return(&suite.approver, nil).Once()
	suite.mockDocumentRepo.On("SaveApproveRequests", ctx, draft.DocumentID, mock.AnythingOfType("[]domain.ApproveRequest"), mock.AnythingOfType("domain.DocumentStatusEntry")).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.requester.UserID, portssvc.EventApproveRequestsAdded, mock.Anything).Once()

	err := suite.service.CreateApproveRequest(ctx, draft.DocumentID, suite.requester.UserID, []string{suite.approver.UserID})

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockEvents.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestCreateApproveRequest_AlreadyPending() {
	ctx := context.Background()

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()

	err := suite.service.CreateApproveRequest(ctx, suite.invoice.DocumentID, suite.requester.UserID, []string{suite.approver.UserID})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
	suite.Contains(err.Error(), "unable to change invoice status")
}

func (suite *ApprovalServiceTestSuite) TestCreateApproveRequest_IneligibleApprover() {
	ctx := context.Background()
	draft := suite.invoice
	draft.Status = domain.StatusDraft
	stranger := suite.approver
	stranger.UserID = uuid.NewString()
	stranger.LocationIDs = []string{uuid.NewString()}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, draft.DocumentID).Return(&draft, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.requester.UserID).Return(&suite.requester, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, stranger.UserID).Return(&stranger, nil).Once()

	err := suite.service.CreateApproveRequest(ctx, draft.DocumentID, suite.requester.UserID, []string{stranger.UserID})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SaveApproveRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestApprove_PostsBalancedTransaction() {
	ctx := context.Background()
	requests := []domain.ApproveRequest{
		{ApproveRequestID: uuid.NewString(), DocumentID: suite.invoice.DocumentID, RequesterID: suite.requester.UserID, ApproverID: suite.approver.UserID},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.approver.UserID).Return(&suite.approver, nil).Once()
	suite.mockDocumentRepo.On("FindApproveRequests", ctx, suite.invoice.DocumentID).Return(requests, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()

	var posted *domain.Transaction
	suite.mockDocumentRepo.On("ApproveDocument", ctx, suite.invoice.DocumentID, suite.approver.UserID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.DocumentStatusEntry"), mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			posted = args.Get(5).(*domain.Transaction)
		}).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.approver.UserID, portssvc.EventDocumentApproved, mock.Anything).Once()

	err := suite.service.Approve(ctx, suite.invoice.DocumentID, suite.approver.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.True(posted.IsBalanced())
	suite.Len(posted.Records, 3)

	// Accounts receivable is debited for the grand total.
	suite.Equal(suite.org.AccountsReceivableAccountID, posted.Records[0].GLAccountID)
	suite.True(posted.Records[0].IsDebit)
	suite.True(posted.Records[0].Amount.Equal(decimal.NewFromInt(110)))
	// Revenue is credited for the item subtotal, tax payable for the tax.
	suite.Equal(suite.revenueAccountID, posted.Records[1].GLAccountID)
	suite.False(posted.Records[1].IsDebit)
	suite.True(posted.Records[1].Amount.Equal(decimal.NewFromInt(100)))
	suite.Equal(suite.org.TaxPayableAccountID, posted.Records[2].GLAccountID)
	suite.False(posted.Records[2].IsDebit)
	suite.True(posted.Records[2].Amount.Equal(decimal.NewFromInt(10)))
}

func (suite *ApprovalServiceTestSuite) TestApprove_CreditNoteMirrorsPosting() {
	ctx := context.Background()
	creditNote := suite.invoice
	creditNote.DocumentID = uuid.NewString()
	creditNote.DocumentType = domain.DocTypeCreditNote
	limit := decimal.NewFromInt(1000)
	suite.approver.CreditNoteApproveLimit = &limit
	requests := []domain.ApproveRequest{
		{ApproveRequestID: uuid.NewString(), DocumentID: creditNote.DocumentID, RequesterID: suite.requester.UserID, ApproverID: suite.approver.UserID},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, creditNote.DocumentID).Return(&creditNote, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.approver.UserID).Return(&suite.approver, nil).Once()
	suite.mockDocumentRepo.On("FindApproveRequests", ctx, creditNote.DocumentID).Return(requests, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()

	var posted *domain.Transaction
	suite.mockDocumentRepo.On("ApproveDocument", ctx, creditNote.DocumentID, suite.approver.UserID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.DocumentStatusEntry"), mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			posted = args.Get(5).(*domain.Transaction)
		}).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.approver.UserID, portssvc.EventDocumentApproved, mock.Anything).Once()

	err := suite.service.Approve(ctx, creditNote.DocumentID, suite.approver.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.True(posted.IsBalanced())
	// Accounts receivable is credited back on a credit note.
	suite.False(posted.Records[0].IsDebit)
	suite.True(posted.Records[1].IsDebit)
}

func (suite *ApprovalServiceTestSuite) TestApprove_PurchaseOrderPostsNothing() {
	ctx := context.Background()
	po := suite.invoice
	po.DocumentID = uuid.NewString()
	po.DocumentType = domain.DocTypePurchaseOrder
	limit := decimal.NewFromInt(1000)
	suite.approver.PurchaseOrderApproveLimit = &limit
	requests := []domain.ApproveRequest{
		{ApproveRequestID: uuid.NewString(), DocumentID: po.DocumentID, RequesterID: suite.requester.UserID, ApproverID: suite.approver.UserID},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, po.DocumentID).Return(&po, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.approver.UserID).Return(&suite.approver, nil).Once()
	suite.mockDocumentRepo.On("FindApproveRequests", ctx, po.DocumentID).Return(requests, nil).Once()
	suite.mockDocumentRepo.On("ApproveDocument", ctx, po.DocumentID, suite.approver.UserID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.DocumentStatusEntry"), (*domain.Transaction)(nil)).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.approver.UserID, portssvc.EventDocumentApproved, mock.Anything).Once()

	err := suite.service.Approve(ctx, po.DocumentID, suite.approver.UserID)

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_AlreadyApproved() {
	ctx := context.Background()
	approved := suite.invoice
	now := time.Now()
	approved.Status = domain.StatusApproved
	approved.LockedAt = &now

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, approved.DocumentID).Return(&approved, nil).Once()

	err := suite.service.Approve(ctx, approved.DocumentID, suite.approver.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
	suite.Contains(err.Error(), "unable to change invoice status")
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "ApproveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestApprove_NoOutstandingRequest() {
	ctx := context.Background()
	approvedAt := time.Now()
	requests := []domain.ApproveRequest{
		{ApproveRequestID: uuid.NewString(), DocumentID: suite.invoice.DocumentID, ApproverID: suite.approver.UserID, ApprovedAt: &approvedAt},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.approver.UserID).Return(&suite.approver, nil).Once()
	suite.mockDocumentRepo.On("FindApproveRequests", ctx, suite.invoice.DocumentID).Return(requests, nil).Once()

	err := suite.service.Approve(ctx, suite.invoice.DocumentID, suite.approver.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (suite *ApprovalServiceTestSuite) TestApprove_LimitBelowTotal() {
	ctx := context.Background()
	weak := suite.approver
	lowLimit := decimal.NewFromInt(100) // total is 110
	weak.InvoiceApproveLimit = &lowLimit

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, weak.UserID).Return(&weak, nil).Once()

	err := suite.service.Approve(ctx, suite.invoice.DocumentID, weak.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (suite *ApprovalServiceTestSuite) TestApprove_ConcurrentLoserGetsConflict() {
	ctx := context.Background()
	requests := []domain.ApproveRequest{
		{ApproveRequestID: uuid.NewString(), DocumentID: suite.invoice.DocumentID, ApproverID: suite.approver.UserID},
	}

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.approver.UserID).Return(&suite.approver, nil).Once()
	suite.mockDocumentRepo.On("FindApproveRequests", ctx, suite.invoice.DocumentID).Return(requests, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockDocumentRepo.On("ApproveDocument", ctx, suite.invoice.DocumentID, suite.approver.UserID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.DocumentStatusEntry"), mock.AnythingOfType("*domain.Transaction")).Return(apperrors.ErrConflict).Once()

	err := suite.service.Approve(ctx, suite.invoice.DocumentID, suite.approver.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEvents.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
