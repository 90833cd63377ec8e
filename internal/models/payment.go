package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received against invoices.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	OrganizationID string          `db:"organization_id"`
	Type           string          `db:"type"`
	Amount         decimal.Decimal `db:"amount"`
	TransactionID  string          `db:"transaction_id"`
	Reference      string          `db:"reference"`
	PaidAt         time.Time       `db:"paid_at"`
	AuditFields
}

// InvoicePayment allocates part of a payment to an invoice.
type InvoicePayment struct {
	PaymentID string          `db:"payment_id"`
	InvoiceID string          `db:"invoice_id"`
	Amount    decimal.Decimal `db:"amount"`
	IsFP      bool            `db:"is_fp"`
}

// ForwardedPayment is a fund transfer between GL accounts.
type ForwardedPayment struct {
	ForwardedPaymentID     string          `db:"forwarded_payment_id"`
	OrganizationID         string          `db:"organization_id"`
	SourceGLAccountID      string          `db:"source_gl_account_id"`
	DestinationGLAccountID string          `db:"destination_gl_account_id"`
	Amount                 decimal.Decimal `db:"amount"`
	TransactionID          string          `db:"transaction_id"`
	Remittance             string          `db:"remittance"`
	TransferredAt          time.Time       `db:"transferred_at"`
	AuditFields
}
