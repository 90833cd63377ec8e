package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade defines persistence for balanced transactions and
// derived balance queries.
type LedgerRepositoryFacade interface {
	// SaveTransaction inserts the transaction header and all records
	// atomically, locking the affected GL accounts for the duration.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// InsertTransactionInTx inserts the transaction header and records inside
	// a caller-owned database transaction, for operations that persist a
	// ledger posting together with other writes (approval, payment).
	InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// FindTransactionByID retrieves a transaction with its records.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// SumAccountBalance derives the balance of a GL account from all of its
	// transaction records. An account with no records yields zero.
	SumAccountBalance(ctx context.Context, glAccountID string) (decimal.Decimal, error)
}
