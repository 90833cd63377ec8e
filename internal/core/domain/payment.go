package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType indicates how the funds arrived.
type PaymentType string

const (
	PaymentTypeCreditCard    PaymentType = "CREDIT_CARD"
	PaymentTypeDirectDeposit PaymentType = "DIRECT_DEPOSIT"
)

// Payment records money received against one or more invoices. Every payment
// links to the balanced ledger transaction that moved the funds.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	OrganizationID string          `json:"organizationID"`
	Type           PaymentType     `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionID  string          `json:"transactionID"` // FK -> transactions
	// Reference is a caller-supplied idempotency reference, unique within the
	// organization. Retried postings with the same reference are rejected.
	Reference string    `json:"reference"`
	PaidAt    time.Time `json:"paidAt"`
	AuditFields

	Allocations []InvoicePayment `json:"allocations,omitempty"`
}

// InvoicePayment allocates part of a payment to a specific invoice.
type InvoicePayment struct {
	PaymentID string          `json:"paymentID"`
	InvoiceID string          `json:"invoiceID"` // FK -> financial_documents (INVOICE)
	Amount    decimal.Decimal `json:"amount"`
	// IsFP routes the allocation through the franchise payments holding
	// account instead of the deposit account.
	IsFP bool `json:"isFP"`
}

// ForwardedPayment records a transfer of funds between two GL accounts,
// tagged against the invoices whose receipts are being forwarded.
type ForwardedPayment struct {
	ForwardedPaymentID   string          `json:"forwardedPaymentID"`
	OrganizationID       string          `json:"organizationID"`
	SourceGLAccountID    string          `json:"sourceGLAccountID"`
	DestinationGLAccount string          `json:"destinationGLAccountID"`
	Amount               decimal.Decimal `json:"amount"`
	TransactionID        string          `json:"transactionID"`
	Remittance           string          `json:"remittance"`
	TransferredAt        time.Time       `json:"transferredAt"`
	AuditFields

	InvoiceIDs []string `json:"invoiceIDs,omitempty"`
}
