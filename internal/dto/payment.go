package dto

import (
	"time"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentAllocationRequest allocates part of a payment to one invoice.
type PaymentAllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	IsFP      bool            `json:"isFP"`
}

// ReceivePaymentRequest records a direct-deposit payment against invoices.
type ReceivePaymentRequest struct {
	OrganizationID     string                     `json:"organizationID" binding:"required"`
	DepositGLAccountID string                     `json:"depositGLAccountID" binding:"required"`
	Reference          string                     `json:"reference" binding:"required"`
	PaidAt             *time.Time                 `json:"paidAt"`
	Allocations        []PaymentAllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// CardPaymentRequest records a credit card payment processed by the external
// gateway. The card itself is referenced by a gateway token, never raw PAN.
type CardPaymentRequest struct {
	OrganizationID string                     `json:"organizationID" binding:"required"`
	CardToken      string                     `json:"cardToken" binding:"required"`
	Reference      string                     `json:"reference" binding:"required"`
	Allocations    []PaymentAllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// ForwardPaymentRequest transfers funds between GL accounts, tagged against
// the invoices whose receipts are forwarded.
type ForwardPaymentRequest struct {
	OrganizationID         string          `json:"organizationID" binding:"required"`
	SourceGLAccountID      string          `json:"sourceGLAccountID" binding:"required"`
	DestinationGLAccountID string          `json:"destinationGLAccountID" binding:"required"`
	Amount                 decimal.Decimal `json:"amount" binding:"required"`
	Remittance             string          `json:"remittance"`
	InvoiceIDs             []string        `json:"invoiceIDs"`
}

// PaymentResponse is the API shape of a recorded payment.
type PaymentResponse struct {
	PaymentID      string             `json:"paymentID"`
	OrganizationID string             `json:"organizationID"`
	Type           domain.PaymentType `json:"type"`
	Amount         decimal.Decimal    `json:"amount"`
	TransactionID  string             `json:"transactionID"`
	Reference      string             `json:"reference"`
	PaidAt         time.Time          `json:"paidAt"`
}

// ForwardedPaymentResponse is the API shape of a recorded transfer.
type ForwardedPaymentResponse struct {
	ForwardedPaymentID     string          `json:"forwardedPaymentID"`
	SourceGLAccountID      string          `json:"sourceGLAccountID"`
	DestinationGLAccountID string          `json:"destinationGLAccountID"`
	Amount                 decimal.Decimal `json:"amount"`
	TransactionID          string          `json:"transactionID"`
}

// ToPaymentResponse converts a domain payment to its API shape.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		OrganizationID: p.OrganizationID,
		Type:           p.Type,
		Amount:         p.Amount,
		TransactionID:  p.TransactionID,
		Reference:      p.Reference,
		PaidAt:         p.PaidAt,
	}
}

// ToForwardedPaymentResponse converts a domain transfer to its API shape.
func ToForwardedPaymentResponse(fp *domain.ForwardedPayment) ForwardedPaymentResponse {
	return ForwardedPaymentResponse{
		ForwardedPaymentID:     fp.ForwardedPaymentID,
		SourceGLAccountID:      fp.SourceGLAccountID,
		DestinationGLAccountID: fp.DestinationGLAccount,
		Amount:                 fp.Amount,
		TransactionID:          fp.TransactionID,
	}
}
