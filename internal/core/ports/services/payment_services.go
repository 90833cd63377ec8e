package services

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/shopspring/decimal"
)

// PaymentSvcFacade exposes payment receipt and fund forwarding.
type PaymentSvcFacade interface {
	// ReceivePayment records a direct-deposit payment allocated across
	// invoices and posts the balanced ledger transaction.
	ReceivePayment(ctx context.Context, req dto.ReceivePaymentRequest, actorID string) (*domain.Payment, error)

	// ReceiveCreditCardPayment charges the card via the external gateway and
	// on success posts the payment through the clearing account.
	ReceiveCreditCardPayment(ctx context.Context, req dto.CardPaymentRequest, actorID string) (*domain.Payment, error)

	// ForwardPayment transfers funds between GL accounts after an in-transaction
	// sufficient-funds check on the source.
	ForwardPayment(ctx context.Context, req dto.ForwardPaymentRequest, actorID string) (*domain.ForwardedPayment, error)
}

// CardChargeOutcome classifies the gateway's answer to a charge attempt.
type CardChargeOutcome string

const (
	CardChargeApproved          CardChargeOutcome = "APPROVED"
	CardChargeDeclined          CardChargeOutcome = "DECLINED"
	CardChargeInsufficientFunds CardChargeOutcome = "INSUFFICIENT_FUNDS"
	CardChargeProcessingError   CardChargeOutcome = "PROCESSING_ERROR"
)

// CardChargeResult is the gateway's response to a charge.
type CardChargeResult struct {
	Outcome     CardChargeOutcome
	GatewayRef  string
	FailureText string
}

// CardGateway is the external payment gateway collaborator. Implementations
// live outside the finance core.
type CardGateway interface {
	Charge(ctx context.Context, cardToken string, amount decimal.Decimal, reference string) (CardChargeResult, error)
}
