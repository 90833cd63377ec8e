package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

var (
	// ErrCardDeclined is returned when the gateway declines the card.
	ErrCardDeclined = fmt.Errorf("%w: card declined", apperrors.ErrNotAllowed)
	// ErrCardInsufficientFunds is returned when the card has insufficient funds.
	ErrCardInsufficientFunds = fmt.Errorf("%w: insufficient funds", apperrors.ErrNotAllowed)
	// ErrCardProcessing is returned when the gateway fails to process the charge.
	ErrCardProcessing = errors.New("card processing error")
)

// paymentService records payments against invoices and forwards funds
// between GL accounts, posting the matching ledger transactions.
type paymentService struct {
	paymentRepo      portsrepo.PaymentRepositoryFacade
	documentRepo     portsrepo.DocumentRepositoryFacade
	accountRepo      portsrepo.AccountRepositoryFacade
	organizationRepo portsrepo.OrganizationRepositoryFacade
	gateway          portssvc.CardGateway
	events           portssvc.EventPublisher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	documentRepo portsrepo.DocumentRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	organizationRepo portsrepo.OrganizationRepositoryFacade,
	gateway portssvc.CardGateway,
	events portssvc.EventPublisher,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:      paymentRepo,
		documentRepo:     documentRepo,
		accountRepo:      accountRepo,
		organizationRepo: organizationRepo,
		gateway:          gateway,
		events:           events,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// validateAllocations checks every allocation against its invoice: the
// invoice must be an approved invoice of the paying organization, the amount
// strictly positive and no greater than what is still due. Returns the
// allocation rows and the payment total. The amount-due check repeats inside
// the save transaction with the invoice rows locked.
func (s *paymentService) validateAllocations(ctx context.Context, organizationID, paymentID string, reqs []dto.PaymentAllocationRequest) ([]domain.InvoicePayment, decimal.Decimal, error) {
	total := decimal.Zero
	allocations := make([]domain.InvoicePayment, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, alloc := range reqs {
		if alloc.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, fmt.Errorf("%w: allocation amount must be positive", apperrors.ErrValidation)
		}
		if seen[alloc.InvoiceID] {
			return nil, decimal.Zero, fmt.Errorf("%w: invoice %s allocated twice", apperrors.ErrValidation, alloc.InvoiceID)
		}
		seen[alloc.InvoiceID] = true

		invoice, err := s.documentRepo.FindDocumentByID(ctx, alloc.InvoiceID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to find invoice %s: %w", alloc.InvoiceID, err)
		}
		if invoice.DocumentType != domain.DocTypeInvoice {
			return nil, decimal.Zero, fmt.Errorf("%w: document %s is not an invoice", apperrors.ErrValidation, alloc.InvoiceID)
		}
		if invoice.Status != domain.StatusApproved {
			return nil, decimal.Zero, fmt.Errorf("%w: invoice %s is not approved", apperrors.ErrNotAllowed, alloc.InvoiceID)
		}
		if invoice.OrganizationID != organizationID {
			return nil, decimal.Zero, fmt.Errorf("%w: invoice %s belongs to a different organization", apperrors.ErrValidation, alloc.InvoiceID)
		}

		allocated, err := s.documentRepo.SumAllocatedPayments(ctx, alloc.InvoiceID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to sum allocations for invoice %s: %w", alloc.InvoiceID, err)
		}
		if alloc.Amount.GreaterThan(invoice.AmountDue(allocated)) {
			return nil, decimal.Zero, fmt.Errorf("%w: allocation exceeds amount due on invoice %s", apperrors.ErrNotAllowed, alloc.InvoiceID)
		}

		allocations = append(allocations, domain.InvoicePayment{
			PaymentID: paymentID,
			InvoiceID: alloc.InvoiceID,
			Amount:    alloc.Amount,
			IsFP:      alloc.IsFP,
		})
		total = total.Add(alloc.Amount)
	}
	return allocations, total, nil
}

// ReceivePayment records a direct-deposit payment allocated across invoices
// and posts the balanced ledger transaction: bank account debited, accounts
// receivable credited. Franchise-flagged allocations debit the franchise
// payments holding account instead of the deposit account.
func (s *paymentService) ReceivePayment(ctx context.Context, req dto.ReceivePaymentRequest, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.organizationRepo.FindOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", req.OrganizationID, err)
	}

	deposit, err := s.accountRepo.FindGLAccountByID(ctx, req.DepositGLAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find deposit account %s: %w", req.DepositGLAccountID, err)
	}
	if deposit.OrganizationID != org.OrganizationID {
		return nil, fmt.Errorf("%w: deposit account belongs to a different organization", apperrors.ErrValidation)
	}
	if !deposit.IsActive || !deposit.IsBankAccount {
		return nil, fmt.Errorf("%w: deposit account %s must be an active bank account", apperrors.ErrNotAllowed, deposit.GLAccountID)
	}

	paymentID := uuid.NewString()
	allocations, total, err := s.validateAllocations(ctx, org.OrganizationID, paymentID, req.Allocations)
	if err != nil {
		return nil, err
	}

	// Split the debit side between the deposit account and the franchise
	// payments holding account.
	fpTotal := decimal.Zero
	for _, alloc := range allocations {
		if alloc.IsFP {
			fpTotal = fpTotal.Add(alloc.Amount)
		}
	}
	var fpAccountID string
	if fpTotal.IsPositive() {
		fpAccount, err := s.accountRepo.FindGLAccountByCode(ctx, org.OrganizationID, domain.FranchisePaymentsAccountCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: organization has no franchise payments account", apperrors.ErrNotAllowed)
			}
			return nil, fmt.Errorf("failed to find franchise payments account: %w", err)
		}
		fpAccountID = fpAccount.GLAccountID
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := domain.Payment{
		PaymentID:      paymentID,
		OrganizationID: org.OrganizationID,
		Type:           domain.PaymentTypeDirectDeposit,
		Amount:         total,
		TransactionID:  uuid.NewString(),
		Reference:      req.Reference,
		PaidAt:         paidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
		Allocations: allocations,
	}

	legs := []postingLeg{}
	if directTotal := total.Sub(fpTotal); directTotal.IsPositive() {
		legs = append(legs, postingLeg{glAccountID: deposit.GLAccountID, amount: directTotal, isDebit: true})
	}
	if fpTotal.IsPositive() {
		legs = append(legs, postingLeg{glAccountID: fpAccountID, amount: fpTotal, isDebit: true})
	}
	legs = append(legs, postingLeg{glAccountID: org.AccountsReceivableAccountID, amount: total, isDebit: false})
	txn := s.buildPaymentTransaction(payment.TransactionID, org.OrganizationID, actorID, now,
		fmt.Sprintf("Payment received (%s)", req.Reference), legs)

	if err := s.paymentRepo.SavePayment(ctx, payment, txn); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("Payment received",
		slog.String("payment_id", payment.PaymentID),
		slog.String("organization_id", org.OrganizationID),
		slog.String("amount", total.String()),
	)
	s.events.Publish(ctx, actorID, portssvc.EventPaymentReceived, map[string]any{
		"payment_id": payment.PaymentID,
		"type":       string(payment.Type),
		"amount":     total.String(),
	})
	return &payment, nil
}

// ReceiveCreditCardPayment charges the card through the external gateway and
// on success posts the payment through the clearing account. The idempotency
// reference is checked before the charge so a retried request never charges
// the card twice.
func (s *paymentService) ReceiveCreditCardPayment(ctx context.Context, req dto.CardPaymentRequest, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.organizationRepo.FindOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", req.OrganizationID, err)
	}

	if existing, err := s.paymentRepo.FindPaymentByReference(ctx, org.OrganizationID, req.Reference); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check payment reference: %w", err)
		}
	} else if existing != nil {
		return nil, fmt.Errorf("%w: payment reference %s already used", apperrors.ErrDuplicate, req.Reference)
	}

	clearing, err := s.accountRepo.FindGLAccountByCode(ctx, org.OrganizationID, domain.ClearingAccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: organization has no clearing account", apperrors.ErrNotAllowed)
		}
		return nil, fmt.Errorf("failed to find clearing account: %w", err)
	}

	paymentID := uuid.NewString()
	allocations, total, err := s.validateAllocations(ctx, org.OrganizationID, paymentID, req.Allocations)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, req.CardToken, total, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCardProcessing, err)
	}
	switch result.Outcome {
	case portssvc.CardChargeApproved:
		// Proceed to record the payment.
	case portssvc.CardChargeDeclined:
		return nil, ErrCardDeclined
	case portssvc.CardChargeInsufficientFunds:
		return nil, ErrCardInsufficientFunds
	default:
		return nil, fmt.Errorf("%w: %s", ErrCardProcessing, result.FailureText)
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:      paymentID,
		OrganizationID: org.OrganizationID,
		Type:           domain.PaymentTypeCreditCard,
		Amount:         total,
		TransactionID:  uuid.NewString(),
		Reference:      req.Reference,
		PaidAt:         now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
		Allocations: allocations,
	}
	txn := s.buildPaymentTransaction(payment.TransactionID, org.OrganizationID, actorID, now,
		fmt.Sprintf("Card payment received (%s)", req.Reference), []postingLeg{
			{glAccountID: clearing.GLAccountID, amount: total, isDebit: true},
			{glAccountID: org.AccountsReceivableAccountID, amount: total, isDebit: false},
		})

	if err := s.paymentRepo.SavePayment(ctx, payment, txn); err != nil {
		// The card has already been charged at this point. The gateway
		// reference is logged so the charge can be reconciled manually.
		logger.Error("Card charged but payment could not be recorded",
			slog.String("gateway_ref", result.GatewayRef),
			slog.String("reference", req.Reference),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to save card payment: %w", err)
	}

	logger.Info("Card payment received",
		slog.String("payment_id", payment.PaymentID),
		slog.String("gateway_ref", result.GatewayRef),
		slog.String("amount", total.String()),
	)
	s.events.Publish(ctx, actorID, portssvc.EventPaymentReceived, map[string]any{
		"payment_id": payment.PaymentID,
		"type":       string(payment.Type),
		"amount":     total.String(),
	})
	return &payment, nil
}

// ForwardPayment transfers funds between two GL accounts of the same
// organization. The sufficient-funds check on the source account repeats
// inside the save transaction with the account row locked, so concurrent
// transfers cannot overdraw it.
func (s *paymentService) ForwardPayment(ctx context.Context, req dto.ForwardPaymentRequest, actorID string) (*domain.ForwardedPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if req.SourceGLAccountID == req.DestinationGLAccountID {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}

	org, err := s.organizationRepo.FindOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", req.OrganizationID, err)
	}

	source, err := s.accountRepo.FindGLAccountByID(ctx, req.SourceGLAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find source account %s: %w", req.SourceGLAccountID, err)
	}
	if source.OrganizationID != org.OrganizationID || !source.IsActive {
		return nil, fmt.Errorf("%w: source account %s is not usable", apperrors.ErrValidation, req.SourceGLAccountID)
	}
	if !source.IsBankAccount {
		return nil, fmt.Errorf("%w: source account must be a bank account", apperrors.ErrNotAllowed)
	}

	destination, err := s.accountRepo.FindGLAccountByID(ctx, req.DestinationGLAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find destination account %s: %w", req.DestinationGLAccountID, err)
	}
	if destination.OrganizationID != org.OrganizationID || !destination.IsActive {
		return nil, fmt.Errorf("%w: destination account %s is not usable", apperrors.ErrValidation, req.DestinationGLAccountID)
	}
	if !destination.EnablePaymentsToAccount {
		return nil, fmt.Errorf("%w: destination account %s does not accept payments", apperrors.ErrNotAllowed, req.DestinationGLAccountID)
	}

	for _, invoiceID := range req.InvoiceIDs {
		invoice, err := s.documentRepo.FindDocumentByID(ctx, invoiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
		}
		if invoice.DocumentType != domain.DocTypeInvoice || invoice.OrganizationID != org.OrganizationID {
			return nil, fmt.Errorf("%w: document %s is not an invoice of this organization", apperrors.ErrValidation, invoiceID)
		}
	}

	now := time.Now().UTC()
	fp := domain.ForwardedPayment{
		ForwardedPaymentID:   uuid.NewString(),
		OrganizationID:       org.OrganizationID,
		SourceGLAccountID:    source.GLAccountID,
		DestinationGLAccount: destination.GLAccountID,
		Amount:               req.Amount,
		TransactionID:        uuid.NewString(),
		Remittance:           req.Remittance,
		TransferredAt:        now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
		InvoiceIDs: req.InvoiceIDs,
	}
	txn := s.buildPaymentTransaction(fp.TransactionID, org.OrganizationID, actorID, now,
		fmt.Sprintf("Funds forwarded from %s to %s", source.Name, destination.Name), []postingLeg{
			{glAccountID: destination.GLAccountID, amount: req.Amount, isDebit: true},
			{glAccountID: source.GLAccountID, amount: req.Amount, isDebit: false},
		})

	if err := s.paymentRepo.SaveForwardedPayment(ctx, fp, txn); err != nil {
		return nil, fmt.Errorf("failed to save forwarded payment: %w", err)
	}

	logger.Info("Payment forwarded",
		slog.String("forwarded_payment_id", fp.ForwardedPaymentID),
		slog.String("source", source.GLAccountID),
		slog.String("destination", destination.GLAccountID),
		slog.String("amount", req.Amount.String()),
	)
	s.events.Publish(ctx, actorID, portssvc.EventPaymentForwarded, map[string]any{
		"forwarded_payment_id": fp.ForwardedPaymentID,
		"amount":               req.Amount.String(),
	})
	return &fp, nil
}

// buildPaymentTransaction assembles a transaction from posting legs with
// audit fields and record IDs populated.
func (s *paymentService) buildPaymentTransaction(transactionID, organizationID, actorID string, now time.Time, notes string, legs []postingLeg) domain.Transaction {
	txn := domain.Transaction{
		TransactionID:   transactionID,
		OrganizationID:  organizationID,
		TransactionDate: now,
		Notes:           notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	for _, leg := range legs {
		txn.Records = append(txn.Records, domain.TransactionRecord{
			RecordID:      uuid.NewString(),
			TransactionID: transactionID,
			GLAccountID:   leg.glAccountID,
			Amount:        leg.amount,
			IsDebit:       leg.isDebit,
			AuditFields:   txn.AuditFields,
		})
	}
	return txn
}
