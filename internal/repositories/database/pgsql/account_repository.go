package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	"github.com/jobfin/finance_approval_app/internal/models"
	"github.com/jobfin/finance_approval_app/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for GL account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// glAccountColumns joins the account type so sign conventions come back with
// every account row.
const glAccountColumns = `
	ga.gl_account_id, ga.organization_id, ga.account_type_id, ga.code, ga.name, ga.description,
	ga.is_bank_account, ga.enable_payments_to_account, ga.is_active, ga.tax_rate_id,
	ga.created_at, ga.created_by, ga.last_updated_at, ga.last_updated_by,
	act.name AS type_name, act.increase_action_is_debit
`

// rowQuerier covers both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanGLAccount(row pgx.Row) (*domain.GLAccount, error) {
	var m models.GLAccount
	err := row.Scan(
		&m.GLAccountID,
		&m.OrganizationID,
		&m.AccountTypeID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.IsBankAccount,
		&m.EnablePaymentsToAccount,
		&m.IsActive,
		&m.TaxRateID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.TypeName,
		&m.IncreaseActionIsDebit,
	)
	if err != nil {
		return nil, err
	}
	account := mapping.ToDomainGLAccount(m)
	return &account, nil
}

func queryGLAccountsByIDs(ctx context.Context, q rowQuerier, glAccountIDs []string, forUpdate bool) (map[string]domain.GLAccount, error) {
	if len(glAccountIDs) == 0 {
		return map[string]domain.GLAccount{}, nil
	}

	query := `
		SELECT ` + glAccountColumns + `
		FROM gl_accounts ga
		JOIN account_types act ON act.account_type_id = ga.account_type_id
		WHERE ga.gl_account_id = ANY($1)
	`
	if forUpdate {
		// Lock only gl_accounts rows; account_types is static reference data.
		query += ` FOR UPDATE OF ga`
	}

	rows, err := q.Query(ctx, query, glAccountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query gl accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.GLAccount, len(glAccountIDs))
	for rows.Next() {
		account, err := scanGLAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan gl account row", err)
		}
		accounts[account.GLAccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading gl account rows", err)
	}

	for _, id := range glAccountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	return accounts, nil
}

// FindGLAccountByID retrieves a GL account with its account type resolved.
func (r *PgxAccountRepository) FindGLAccountByID(ctx context.Context, glAccountID string) (*domain.GLAccount, error) {
	query := `
		SELECT ` + glAccountColumns + `
		FROM gl_accounts ga
		JOIN account_types act ON act.account_type_id = ga.account_type_id
		WHERE ga.gl_account_id = $1;
	`
	account, err := scanGLAccount(r.Pool.QueryRow(ctx, query, glAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find gl account "+glAccountID, err)
	}
	return account, nil
}

// FindGLAccountsByIDs retrieves multiple GL accounts keyed by ID. Fails with
// ErrNotFound if any requested account is missing.
func (r *PgxAccountRepository) FindGLAccountsByIDs(ctx context.Context, glAccountIDs []string) (map[string]domain.GLAccount, error) {
	return queryGLAccountsByIDs(ctx, r.Pool, glAccountIDs, false)
}

// FindGLAccountByCode retrieves a GL account by its organization-unique code.
func (r *PgxAccountRepository) FindGLAccountByCode(ctx context.Context, organizationID, code string) (*domain.GLAccount, error) {
	query := `
		SELECT ` + glAccountColumns + `
		FROM gl_accounts ga
		JOIN account_types act ON act.account_type_id = ga.account_type_id
		WHERE ga.organization_id = $1 AND ga.code = $2;
	`
	account, err := scanGLAccount(r.Pool.QueryRow(ctx, query, organizationID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find gl account by code "+code, err)
	}
	return account, nil
}

// FindAccountTypeByID retrieves an account type.
func (r *PgxAccountRepository) FindAccountTypeByID(ctx context.Context, accountTypeID string) (*domain.AccountType, error) {
	query := `
		SELECT account_type_id, name, increase_action_is_debit,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM account_types
		WHERE account_type_id = $1;
	`
	var m models.AccountType
	err := r.Pool.QueryRow(ctx, query, accountTypeID).Scan(
		&m.AccountTypeID,
		&m.Name,
		&m.IncreaseActionIsDebit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account type "+accountTypeID, err)
	}
	accountType := mapping.ToDomainAccountType(m)
	return &accountType, nil
}

// SaveGLAccount inserts a new GL account.
func (r *PgxAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	m := mapping.ToModelGLAccount(account)
	query := `
		INSERT INTO gl_accounts (
			gl_account_id, organization_id, account_type_id, code, name, description,
			is_bank_account, enable_payments_to_account, is_active, tax_rate_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GLAccountID,
		m.OrganizationID,
		m.AccountTypeID,
		m.Code,
		m.Name,
		m.Description,
		m.IsBankAccount,
		m.EnablePaymentsToAccount,
		m.IsActive,
		m.TaxRateID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert gl account "+m.GLAccountID, err)
	}
	return nil
}

// LockGLAccountsInTx selects the accounts FOR UPDATE inside the caller's
// transaction, serializing concurrent postings against them.
func (r *PgxAccountRepository) LockGLAccountsInTx(ctx context.Context, tx pgx.Tx, glAccountIDs []string) (map[string]domain.GLAccount, error) {
	return queryGLAccountsByIDs(ctx, tx, glAccountIDs, true)
}

// SumBalanceInTx derives the account balance from its transaction records
// within the caller's transaction. A record whose debit flag matches the
// account type's increase action adds to the balance, otherwise it subtracts.
func (r *PgxAccountRepository) SumBalanceInTx(ctx context.Context, tx pgx.Tx, glAccountID string) (decimal.Decimal, error) {
	return sumAccountBalance(ctx, tx, glAccountID)
}

func sumAccountBalance(ctx context.Context, q rowQuerier, glAccountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN tr.is_debit = act.increase_action_is_debit THEN tr.amount ELSE -tr.amount END
		), 0)
		FROM transaction_records tr
		JOIN gl_accounts ga ON ga.gl_account_id = tr.gl_account_id
		JOIN account_types act ON act.account_type_id = ga.account_type_id
		WHERE tr.gl_account_id = $1;
	`
	var balance decimal.Decimal
	if err := q.QueryRow(ctx, query, glAccountID).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to derive balance for account "+glAccountID, err)
	}
	return balance, nil
}
