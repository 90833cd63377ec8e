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

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for balanced transactions.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveTransaction inserts the transaction header and all records atomically.
// The affected GL accounts are locked FOR UPDATE for the duration so
// concurrent postings against the same accounts serialize.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	glAccountIDs := make([]string, 0, len(txn.Records))
	for _, record := range txn.Records {
		glAccountIDs = append(glAccountIDs, record.GLAccountID)
	}
	if _, err := queryGLAccountsByIDs(ctx, tx, glAccountIDs, true); err != nil {
		return err
	}

	if err := r.InsertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// InsertTransactionInTx inserts the transaction header and records inside a
// caller-owned database transaction. Records are batched in one round trip.
func (r *PgxLedgerRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return insertTransactionInTx(ctx, tx, txn)
}

func insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	headerQuery := `
		INSERT INTO transactions (
			transaction_id, organization_id, transaction_date, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, headerQuery,
		m.TransactionID,
		m.OrganizationID,
		m.TransactionDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	recordQuery := `
		INSERT INTO transaction_records (
			record_id, transaction_id, gl_account_id, amount, is_debit,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, record := range txn.Records {
		rm := mapping.ToModelTransactionRecord(record)
		batch.Queue(recordQuery,
			rm.RecordID,
			rm.TransactionID,
			rm.GLAccountID,
			rm.Amount,
			rm.IsDebit,
			rm.CreatedAt,
			rm.CreatedBy,
			rm.LastUpdatedAt,
			rm.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range txn.Records {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert transaction records for "+m.TransactionID, err)
		}
	}
	return nil
}

// FindTransactionByID retrieves a transaction with its records.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	headerQuery := `
		SELECT transaction_id, organization_id, transaction_date, notes,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE transaction_id = $1;
	`
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, headerQuery, transactionID).Scan(
		&m.TransactionID,
		&m.OrganizationID,
		&m.TransactionDate,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	recordQuery := `
		SELECT record_id, transaction_id, gl_account_id, amount, is_debit,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_records
		WHERE transaction_id = $1
		ORDER BY created_at, record_id;
	`
	rows, err := r.Pool.Query(ctx, recordQuery, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction records", err)
	}
	defer rows.Close()

	var records []models.TransactionRecord
	for rows.Next() {
		var rm models.TransactionRecord
		err := rows.Scan(
			&rm.RecordID,
			&rm.TransactionID,
			&rm.GLAccountID,
			&rm.Amount,
			&rm.IsDebit,
			&rm.CreatedAt,
			&rm.CreatedBy,
			&rm.LastUpdatedAt,
			&rm.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction record row", err)
		}
		records = append(records, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading transaction record rows", err)
	}

	txn := mapping.ToDomainTransaction(m)
	txn.Records = mapping.ToDomainTransactionRecordSlice(records)
	return &txn, nil
}

// SumAccountBalance derives the balance of a GL account from all of its
// transaction records. An account with no records yields zero.
func (r *PgxLedgerRepository) SumAccountBalance(ctx context.Context, glAccountID string) (decimal.Decimal, error) {
	return sumAccountBalance(ctx, r.Pool, glAccountID)
}
