package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one balanced financial event.
type Transaction struct {
	TransactionID   string    `db:"transaction_id"`
	OrganizationID  string    `db:"organization_id"`
	TransactionDate time.Time `db:"transaction_date"`
	Notes           string    `db:"notes"`
	AuditFields
}

// TransactionRecord is one debit or credit leg of a transaction.
type TransactionRecord struct {
	RecordID      string          `db:"record_id"`
	TransactionID string          `db:"transaction_id"`
	GLAccountID   string          `db:"gl_account_id"`
	Amount        decimal.Decimal `db:"amount"`
	IsDebit       bool            `db:"is_debit"`
	AuditFields
}
