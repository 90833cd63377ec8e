package dto

import (
	"github.com/shopspring/decimal"
)

// BalanceResponse is the derived balance of a GL account.
type BalanceResponse struct {
	GLAccountID string          `json:"glAccountID"`
	Balance     decimal.Decimal `json:"balance"`
}

// TransactionRecordRequest is one leg of a manual ledger posting.
type TransactionRecordRequest struct {
	GLAccountID string          `json:"glAccountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IsDebit     bool            `json:"isDebit"`
}

// PostTransactionRequest posts a balanced set of records to the ledger.
type PostTransactionRequest struct {
	OrganizationID string                     `json:"organizationID" binding:"required"`
	Notes          string                     `json:"notes"`
	Records        []TransactionRecordRequest `json:"records" binding:"required,min=2,dive"`
}
