package services

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade exposes ledger posting and derived balance queries.
type LedgerSvcFacade interface {
	// GetAccountBalance derives the balance of a GL account from its posted
	// transaction records. A fresh account yields zero.
	GetAccountBalance(ctx context.Context, glAccountID string) (decimal.Decimal, error)

	// PostTransaction validates the double-entry invariant and persists one
	// balanced transaction with its records atomically.
	PostTransaction(ctx context.Context, organizationID string, records []domain.TransactionRecord, notes string, actorID string) (*domain.Transaction, error)
}
