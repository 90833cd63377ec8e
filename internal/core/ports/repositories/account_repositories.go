package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for GL accounts and account types.
type AccountReader interface {
	// FindGLAccountByID retrieves a GL account with its account type resolved.
	FindGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error)

	// FindGLAccountsByIDs retrieves multiple GL accounts keyed by ID.
	FindGLAccountsByIDs(ctx context.Context, glAccountIDs []string) (map[string]domain.GLAccount, error)

	// FindGLAccountByCode retrieves a GL account by its organization-unique code.
	FindGLAccountByCode(ctx context.Context, organizationID, code string) (*domain.GLAccount, error)

	// FindAccountTypeByID retrieves an account type.
	FindAccountTypeByID(ctx context.Context, accountTypeID string) (*domain.AccountType, error)
}

// AccountWriter defines write operations for GL accounts.
type AccountWriter interface {
	// SaveGLAccount inserts a new GL account.
	SaveGLAccount(ctx context.Context, account domain.GLAccount) error
}

// AccountTxParticipant exposes account operations that must run inside a
// caller-owned database transaction.
type AccountTxParticipant interface {
	// LockGLAccountsInTx selects the accounts FOR UPDATE, serializing
	// concurrent postings against them. Fails with ErrNotFound if any
	// account is missing.
	LockGLAccountsInTx(ctx context.Context, tx pgx.Tx, glAccountIDs []string) (map[string]domain.GLAccount, error)

	// SumBalanceInTx derives the account balance from its transaction
	// records within the transaction, so funds checks see a consistent view.
	SumBalanceInTx(ctx context.Context, tx pgx.Tx, glAccountID string) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTxParticipant
}
