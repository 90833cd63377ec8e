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
	"github.com/jobfin/finance_approval_app/internal/dto"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo  *MockPaymentRepository
	mockDocumentRepo *MockDocumentRepository
	mockAccountRepo  *MockAccountRepository
	mockOrgRepo      *MockOrganizationRepository
	mockGateway      *MockCardGateway
	mockEvents       *MockEventPublisher
	service          portssvc.PaymentSvcFacade

	userID          string
	org             domain.AccountingOrganization
	depositAccount  domain.GLAccount
	clearingAccount domain.GLAccount
	invoice         domain.FinancialDocument
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockGateway = new(MockCardGateway)
	suite.mockEvents = new(MockEventPublisher)
	suite.service = services.NewPaymentService(
		suite.mockPaymentRepo,
		suite.mockDocumentRepo,
		suite.mockAccountRepo,
		suite.mockOrgRepo,
		suite.mockGateway,
		suite.mockEvents,
	)

	suite.userID = uuid.NewString()
	suite.org = domain.AccountingOrganization{
		OrganizationID:              uuid.NewString(),
		Name:                        "Test Org",
		IsActive:                    true,
		AccountsReceivableAccountID: uuid.NewString(),
		TaxPayableAccountID:         uuid.NewString(),
	}
	suite.depositAccount = domain.GLAccount{
		GLAccountID:    uuid.NewString(),
		OrganizationID: suite.org.OrganizationID,
		Name:           "Operating Account",
		IsBankAccount:  true,
		IsActive:       true,
	}
	suite.clearingAccount = domain.GLAccount{
		GLAccountID:    uuid.NewString(),
		OrganizationID: suite.org.OrganizationID,
		Code:           domain.ClearingAccountCode,
		Name:           "Card Clearing",
		IsActive:       true,
	}

	lockedAt := time.Now()
	suite.invoice = domain.FinancialDocument{
		DocumentID:     uuid.NewString(),
		DocumentType:   domain.DocTypeInvoice,
		DocumentNumber: "INV-2001",
		OrganizationID: suite.org.OrganizationID,
		Status:         domain.StatusApproved,
		LockedAt:       &lockedAt,
		Items: []domain.DocumentItem{
			{
				ItemID:      uuid.NewString(),
				GLAccountID: uuid.NewString(),
				Quantity:    decimal.NewFromInt(1),
				UnitCost:    decimal.NewFromInt(100),
				TaxRate:     decimal.NewFromFloat(0.1),
			},
		},
	}
}

func (suite *PaymentServiceTestSuite) receiveRequest(amount decimal.Decimal) dto.ReceivePaymentRequest {
	return dto.ReceivePaymentRequest{
		OrganizationID:     suite.org.OrganizationID,
		DepositGLAccountID: suite.depositAccount.GLAccountID,
		Reference:          "REMIT-001",
		Allocations: []dto.PaymentAllocationRequest{
			{InvoiceID: suite.invoice.DocumentID, Amount: amount},
		},
	}
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_Success() {
	ctx := context.Background()
	req := suite.receiveRequest(decimal.NewFromInt(110))

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockDocumentRepo.On("SumAllocatedPayments", ctx, suite.invoice.DocumentID).Return(decimal.Zero, nil).Once()

	var savedTxn domain.Transaction
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(2).(domain.Transaction)
		}).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.userID, portssvc.EventPaymentReceived, mock.Anything).Once()

	payment, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Equal(domain.PaymentTypeDirectDeposit, payment.Type)
	suite.True(payment.Amount.Equal(decimal.NewFromInt(110)))
	suite.Len(payment.Allocations, 1)

	suite.True(savedTxn.IsBalanced())
	suite.Require().Len(savedTxn.Records, 2)
	suite.Equal(suite.depositAccount.GLAccountID, savedTxn.Records[0].GLAccountID)
	suite.True(savedTxn.Records[0].IsDebit)
	suite.Equal(suite.org.AccountsReceivableAccountID, savedTxn.Records[1].GLAccountID)
	suite.False(savedTxn.Records[1].IsDebit)
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_AllocationExceedsDue() {
	ctx := context.Background()
	req := suite.receiveRequest(decimal.NewFromInt(120)) // invoice total is 110

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockDocumentRepo.On("SumAllocatedPayments", ctx, suite.invoice.DocumentID).Return(decimal.Zero, nil).Once()

	_, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_ExactAmountDueAccepted() {
	ctx := context.Background()
	// 60 already allocated, paying the remaining 50 exactly.
	req := suite.receiveRequest(decimal.NewFromInt(50))

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockDocumentRepo.On("SumAllocatedPayments", ctx, suite.invoice.DocumentID).Return(decimal.NewFromInt(60), nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.userID, portssvc.EventPaymentReceived, mock.Anything).Once()

	payment, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(payment.Amount.Equal(decimal.NewFromInt(50)))
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_NonBankDepositAccount() {
	ctx := context.Background()
	nonBank := suite.depositAccount
	nonBank.IsBankAccount = false
	req := suite.receiveRequest(decimal.NewFromInt(110))

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&nonBank, nil).Once()

	_, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_UnapprovedInvoice() {
	ctx := context.Background()
	draft := suite.invoice
	draft.Status = domain.StatusDraft
	draft.LockedAt = nil
	req := suite.receiveRequest(decimal.NewFromInt(110))

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&draft, nil).Once()

	_, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_FranchiseSplit() {
	ctx := context.Background()
	fpAccount := domain.GLAccount{
		GLAccountID:    uuid.NewString(),
		OrganizationID: suite.org.OrganizationID,
		Code:           domain.FranchisePaymentsAccountCode,
		Name:           "Franchise Payments",
		IsActive:       true,
	}
	req := dto.ReceivePaymentRequest{
		OrganizationID:     suite.org.OrganizationID,
		DepositGLAccountID: suite.depositAccount.GLAccountID,
		Reference:          "REMIT-002",
		Allocations: []dto.PaymentAllocationRequest{
			{InvoiceID: suite.invoice.DocumentID, Amount: decimal.NewFromInt(110), IsFP: true},
		},
	}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockDocumentRepo.On("SumAllocatedPayments", ctx, suite.invoice.DocumentID).Return(decimal.Zero, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByCode", ctx, suite.org.OrganizationID, domain.FranchisePaymentsAccountCode).Return(&fpAccount, nil).Once()

	var savedTxn domain.Transaction
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(2).(domain.Transaction)
		}).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.userID, portssvc.EventPaymentReceived, mock.Anything).Once()

	_, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedTxn.Records, 2)
	// Franchise-flagged funds land in the holding account, not the deposit account.
	suite.Equal(fpAccount.GLAccountID, savedTxn.Records[0].GLAccountID)
	suite.True(savedTxn.Records[0].IsDebit)
	suite.True(savedTxn.IsBalanced())
}

func (suite *PaymentServiceTestSuite) TestReceivePayment_DuplicateReference() {
	ctx := context.Background()
	req := suite.receiveRequest(decimal.NewFromInt(110))

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockDocumentRepo.On("SumAllocatedPayments", ctx, suite.invoice.DocumentID).Return(decimal.Zero, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.ReceivePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockEvents.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) cardRequest() dto.CardPaymentRequest {
	return dto.CardPaymentRequest{
		OrganizationID: suite.org.OrganizationID,
		CardToken:      "tok_visa",
		Reference:      "CARD-001",
		Allocations: []dto.PaymentAllocationRequest{
			{InvoiceID: suite.invoice.DocumentID, Amount: decimal.NewFromInt(110)},
		},
	}
}

func (suite *PaymentServiceTestSuite) expectCardPreChecks(ctx context.Context, req dto.CardPaymentRequest) {
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByReference", ctx, suite.org.OrganizationID, req.Reference).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindGLAccountByCode", ctx, suite.org.OrganizationID, domain.ClearingAccountCode).Return(&suite.clearingAccount, nil).Once()
	suite.mockDocumentRepo.On("FindDocumentByID", ctx, suite.invoice.DocumentID).Return(&suite.invoice, nil).Once()
	suite.mockDocumentRepo.On("SumAllocatedPayments", ctx, suite.invoice.DocumentID).Return(decimal.Zero, nil).Once()
}

func (suite *PaymentServiceTestSuite) TestReceiveCreditCardPayment_Success() {
	ctx := context.Background()
	req := suite.cardRequest()
	suite.expectCardPreChecks(ctx, req)

	suite.mockGateway.On("Charge", ctx, "tok_visa", mock.AnythingOfType("decimal.Decimal"), "CARD-001").
		Return(portssvc.CardChargeResult{Outcome: portssvc.CardChargeApproved, GatewayRef: "ch_123"}, nil).Once()

	var savedTxn domain.Transaction
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(2).(domain.Transaction)
		}).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.userID, portssvc.EventPaymentReceived, mock.Anything).Once()

	payment, err := suite.service.ReceiveCreditCardPayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentTypeCreditCard, payment.Type)
	// Card funds settle through the clearing account.
	suite.Require().Len(savedTxn.Records, 2)
	suite.Equal(suite.clearingAccount.GLAccountID, savedTxn.Records[0].GLAccountID)
	suite.True(savedTxn.Records[0].IsDebit)
	suite.True(savedTxn.IsBalanced())
}

func (suite *PaymentServiceTestSuite) TestReceiveCreditCardPayment_InsufficientFunds() {
	ctx := context.Background()
	req := suite.cardRequest()
	suite.expectCardPreChecks(ctx, req)

	suite.mockGateway.On("Charge", ctx, "tok_visa", mock.AnythingOfType("decimal.Decimal"), "CARD-001").
		Return(portssvc.CardChargeResult{Outcome: portssvc.CardChargeInsufficientFunds}, nil).Once()

	_, err := suite.service.ReceiveCreditCardPayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
	suite.Contains(err.Error(), "insufficient funds")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestReceiveCreditCardPayment_Declined() {
	ctx := context.Background()
	req := suite.cardRequest()
	suite.expectCardPreChecks(ctx, req)

	suite.mockGateway.On("Charge", ctx, "tok_visa", mock.AnythingOfType("decimal.Decimal"), "CARD-001").
		Return(portssvc.CardChargeResult{Outcome: portssvc.CardChargeDeclined}, nil).Once()

	_, err := suite.service.ReceiveCreditCardPayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCardDeclined)
}

func (suite *PaymentServiceTestSuite) TestReceiveCreditCardPayment_DuplicateReferenceNeverCharges() {
	ctx := context.Background()
	req := suite.cardRequest()
	existing := &domain.Payment{PaymentID: uuid.NewString(), Reference: req.Reference}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByReference", ctx, suite.org.OrganizationID, req.Reference).Return(existing, nil).Once()

	_, err := suite.service.ReceiveCreditCardPayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockGateway.AssertNotCalled(suite.T(), "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) forwardRequest(amount decimal.Decimal, destination *domain.GLAccount) dto.ForwardPaymentRequest {
	return dto.ForwardPaymentRequest{
		OrganizationID:         suite.org.OrganizationID,
		SourceGLAccountID:      suite.depositAccount.GLAccountID,
		DestinationGLAccountID: destination.GLAccountID,
		Amount:                 amount,
		Remittance:             "weekly sweep",
	}
}

func (suite *PaymentServiceTestSuite) TestForwardPayment_Success() {
	ctx := context.Background()
	destination := domain.GLAccount{
		GLAccountID:             uuid.NewString(),
		OrganizationID:          suite.org.OrganizationID,
		Name:                    "Franchise Operating",
		IsBankAccount:           true,
		EnablePaymentsToAccount: true,
		IsActive:                true,
	}
	req := suite.forwardRequest(decimal.NewFromInt(70), &destination)

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, destination.GLAccountID).Return(&destination, nil).Once()

	var savedTxn domain.Transaction
	suite.mockPaymentRepo.On("SaveForwardedPayment", ctx, mock.AnythingOfType("domain.ForwardedPayment"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(2).(domain.Transaction)
		}).Return(nil).Once()
	suite.mockEvents.On("Publish", ctx, suite.userID, portssvc.EventPaymentForwarded, mock.Anything).Once()

	fp, err := suite.service.ForwardPayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(fp)
	suite.True(fp.Amount.Equal(decimal.NewFromInt(70)))

	suite.Require().Len(savedTxn.Records, 2)
	// Destination debited, source credited.
	suite.Equal(destination.GLAccountID, savedTxn.Records[0].GLAccountID)
	suite.True(savedTxn.Records[0].IsDebit)
	suite.Equal(suite.depositAccount.GLAccountID, savedTxn.Records[1].GLAccountID)
	suite.False(savedTxn.Records[1].IsDebit)
	suite.True(savedTxn.IsBalanced())
}

func (suite *PaymentServiceTestSuite) TestForwardPayment_InsufficientFunds() {
	ctx := context.Background()
	destination := domain.GLAccount{
		GLAccountID:             uuid.NewString(),
		OrganizationID:          suite.org.OrganizationID,
		EnablePaymentsToAccount: true,
		IsActive:                true,
	}
	req := suite.forwardRequest(decimal.NewFromInt(5000), &destination)

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, destination.GLAccountID).Return(&destination, nil).Once()
	suite.mockPaymentRepo.On("SaveForwardedPayment", ctx, mock.AnythingOfType("domain.ForwardedPayment"), mock.AnythingOfType("domain.Transaction")).
		Return(apperrors.ErrNotAllowed).Once()

	_, err := suite.service.ForwardPayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
	suite.mockEvents.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestForwardPayment_DestinationNotEnabled() {
	ctx := context.Background()
	destination := domain.GLAccount{
		GLAccountID:    uuid.NewString(),
		OrganizationID: suite.org.OrganizationID,
		IsActive:       true,
	}
	req := suite.forwardRequest(decimal.NewFromInt(70), &destination)

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.org.OrganizationID).Return(&suite.org, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, suite.depositAccount.GLAccountID).Return(&suite.depositAccount, nil).Once()
	suite.mockAccountRepo.On("FindGLAccountByID", ctx, destination.GLAccountID).Return(&destination, nil).Once()

	_, err := suite.service.ForwardPayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAllowed)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SaveForwardedPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestForwardPayment_NonPositiveAmount() {
	ctx := context.Background()
	destination := domain.GLAccount{GLAccountID: uuid.NewString()}
	req := suite.forwardRequest(decimal.Zero, &destination)

	_, err := suite.service.ForwardPayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
