package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error) {
	args := m.Called(ctx, glAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) FindGLAccountsByIDs(ctx context.Context, glAccountIDs []string) (map[string]domain.GLAccount, error) {
	args := m.Called(ctx, glAccountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) FindGLAccountByCode(ctx context.Context, organizationID, code string) (*domain.GLAccount, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountTypeByID(ctx context.Context, accountTypeID string) (*domain.AccountType, error) {
	args := m.Called(ctx, accountTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountType), args.Error(1)
}

func (m *MockAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) LockGLAccountsInTx(ctx context.Context, tx pgx.Tx, glAccountIDs []string) (map[string]domain.GLAccount, error) {
	args := m.Called(ctx, tx, glAccountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) SumBalanceInTx(ctx context.Context, tx pgx.Tx, glAccountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, glAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock OrganizationRepository ---

type MockOrganizationRepository struct {
	mock.Mock
}

var _ portsrepo.OrganizationRepositoryFacade = (*MockOrganizationRepository)(nil)

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingOrganization), args.Error(1)
}

func (m *MockOrganizationRepository) FindOrganizationByLocation(ctx context.Context, locationID string) (*domain.AccountingOrganization, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingOrganization), args.Error(1)
}

func (m *MockOrganizationRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, taxRateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockOrganizationRepository) FindTaxRatesByIDs(ctx context.Context, taxRateIDs []string) (map[string]domain.TaxRate, error) {
	args := m.Called(ctx, taxRateIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TaxRate), args.Error(1)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) SumAccountBalance(ctx context.Context, glAccountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, glAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.FinancialDocument, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindStatusHistory(ctx context.Context, documentID string) ([]domain.DocumentStatusEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentStatusEntry), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, organizationID string, docType *domain.DocumentType, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error) {
	args := m.Called(ctx, organizationID, docType, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.FinancialDocument), returnedToken, args.Error(2)
}

func (m *MockDocumentRepository) SumAllocatedPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.FinancialDocument, entry domain.DocumentStatusEntry) error {
	args := m.Called(ctx, doc, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc domain.FinancialDocument, items []domain.DocumentItem) error {
	args := m.Called(ctx, doc, items)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkDeleted(ctx context.Context, documentID string, entry domain.DocumentStatusEntry) error {
	args := m.Called(ctx, documentID, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveApproveRequests(ctx context.Context, documentID string, requests []domain.ApproveRequest, entry domain.DocumentStatusEntry) error {
	args := m.Called(ctx, documentID, requests, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindApproveRequests(ctx context.Context, documentID string) ([]domain.ApproveRequest, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApproveRequest), args.Error(1)
}

func (m *MockDocumentRepository) ApproveDocument(ctx context.Context, documentID string, approverID string, approvedAt time.Time, entry domain.DocumentStatusEntry, txn *domain.Transaction) error {
	args := m.Called(ctx, documentID, approverID, approvedAt, entry, txn)
	return args.Error(0)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, txn domain.Transaction) error {
	args := m.Called(ctx, payment, txn)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveForwardedPayment(ctx context.Context, fp domain.ForwardedPayment, txn domain.Transaction) error {
	args := m.Called(ctx, fp, txn)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByReference(ctx context.Context, organizationID, reference string) (*domain.Payment, error) {
	args := m.Called(ctx, organizationID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByLocation(ctx context.Context, locationID string) ([]domain.User, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock EventPublisher ---

type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, distinctID string, event string, properties map[string]any) {
	m.Called(ctx, distinctID, event, properties)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}

// --- Mock CardGateway ---

type MockCardGateway struct {
	mock.Mock
}

var _ portssvc.CardGateway = (*MockCardGateway)(nil)

func (m *MockCardGateway) Charge(ctx context.Context, cardToken string, amount decimal.Decimal, reference string) (portssvc.CardChargeResult, error) {
	args := m.Called(ctx, cardToken, amount, reference)
	return args.Get(0).(portssvc.CardChargeResult), args.Error(1)
}
