package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	"github.com/jobfin/finance_approval_app/internal/models"
	"github.com/jobfin/finance_approval_app/internal/utils/accounting"
	"github.com/jobfin/finance_approval_app/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payments and fund
// transfers.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// lockInvoiceItems locks the invoice rows FOR UPDATE and returns each
// invoice's items so amount-due checks inside the transaction see a view no
// concurrent payment can invalidate.
func lockInvoiceItems(ctx context.Context, tx pgx.Tx, invoiceIDs []string) (map[string][]domain.DocumentItem, error) {
	lockQuery := `SELECT document_id FROM financial_documents WHERE document_id = ANY($1) FOR UPDATE;`
	if _, err := tx.Exec(ctx, lockQuery, invoiceIDs); err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock invoice rows", err)
	}

	itemQuery := `
		SELECT item_id, document_id, gs_code_id, gl_account_id, tax_rate_id, tax_rate,
		       description, quantity, unit_cost, discount, position,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM document_items
		WHERE document_id = ANY($1)
		ORDER BY document_id, position;
	`
	rows, err := tx.Query(ctx, itemQuery, invoiceIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice items", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.DocumentItem, len(invoiceIDs))
	for rows.Next() {
		var m models.DocumentItem
		err := rows.Scan(
			&m.ItemID,
			&m.DocumentID,
			&m.GSCodeID,
			&m.GLAccountID,
			&m.TaxRateID,
			&m.TaxRate,
			&m.Description,
			&m.Quantity,
			&m.UnitCost,
			&m.Discount,
			&m.Position,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice item row", err)
		}
		items[m.DocumentID] = append(items[m.DocumentID], mapping.ToDomainDocumentItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading invoice item rows", err)
	}
	return items, nil
}

// SavePayment inserts the payment, its invoice allocations and the ledger
// transaction in one database transaction. Invoice rows are locked and each
// allocation re-checked against the amount still due, so concurrent payments
// against the same invoice cannot overshoot its total.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	invoiceIDs := make([]string, 0, len(payment.Allocations))
	for _, alloc := range payment.Allocations {
		invoiceIDs = append(invoiceIDs, alloc.InvoiceID)
	}
	invoiceItems, err := lockInvoiceItems(ctx, tx, invoiceIDs)
	if err != nil {
		return err
	}
	for _, alloc := range payment.Allocations {
		doc := domain.FinancialDocument{Items: invoiceItems[alloc.InvoiceID]}
		allocated, err := sumAllocatedPayments(ctx, tx, alloc.InvoiceID)
		if err != nil {
			return err
		}
		if alloc.Amount.GreaterThan(doc.AmountDue(allocated)) {
			return fmt.Errorf("%w: allocation exceeds amount due on invoice %s", apperrors.ErrNotAllowed, alloc.InvoiceID)
		}
	}

	m := mapping.ToModelPayment(payment)
	paymentQuery := `
		INSERT INTO payments (
			payment_id, organization_id, type, amount, transaction_id, reference, paid_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		m.PaymentID,
		m.OrganizationID,
		m.Type,
		m.Amount,
		m.TransactionID,
		m.Reference,
		m.PaidAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert payment "+m.PaymentID, err)
	}

	allocQuery := `
		INSERT INTO invoice_payments (payment_id, invoice_id, amount, is_fp)
		VALUES ($1, $2, $3, $4);
	`
	batch := &pgx.Batch{}
	for _, alloc := range payment.Allocations {
		batch.Queue(allocQuery, payment.PaymentID, alloc.InvoiceID, alloc.Amount, alloc.IsFP)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range payment.Allocations {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert invoice allocations for "+m.PaymentID, err)
		}
	}

	glAccountIDs := make([]string, 0, len(txn.Records))
	for _, record := range txn.Records {
		glAccountIDs = append(glAccountIDs, record.GLAccountID)
	}
	if _, err := queryGLAccountsByIDs(ctx, tx, glAccountIDs, true); err != nil {
		return err
	}
	if err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveForwardedPayment inserts the forwarded payment, its invoice links and
// the ledger transaction in one database transaction. The source account's
// derived balance is re-checked against the transfer amount while the
// account rows are locked; insufficient funds fail the whole operation.
func (r *PgxPaymentRepository) SaveForwardedPayment(ctx context.Context, fp domain.ForwardedPayment, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := queryGLAccountsByIDs(ctx, tx, []string{fp.SourceGLAccountID, fp.DestinationGLAccount}, true); err != nil {
		return err
	}
	balance, err := sumAccountBalance(ctx, tx, fp.SourceGLAccountID)
	if err != nil {
		return err
	}
	if !accounting.SufficientFunds(balance, fp.Amount) {
		return fmt.Errorf("%w: insufficient funds in source account %s", apperrors.ErrNotAllowed, fp.SourceGLAccountID)
	}

	m := mapping.ToModelForwardedPayment(fp)
	query := `
		INSERT INTO forwarded_payments (
			forwarded_payment_id, organization_id, source_gl_account_id, destination_gl_account_id,
			amount, transaction_id, remittance, transferred_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.ForwardedPaymentID,
		m.OrganizationID,
		m.SourceGLAccountID,
		m.DestinationGLAccountID,
		m.Amount,
		m.TransactionID,
		m.Remittance,
		m.TransferredAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert forwarded payment "+m.ForwardedPaymentID, err)
	}

	if len(fp.InvoiceIDs) > 0 {
		linkQuery := `INSERT INTO forwarded_payment_invoices (forwarded_payment_id, invoice_id) VALUES ($1, $2);`
		batch := &pgx.Batch{}
		for _, invoiceID := range fp.InvoiceIDs {
			batch.Queue(linkQuery, fp.ForwardedPaymentID, invoiceID)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range fp.InvoiceIDs {
			if _, err := results.Exec(); err != nil {
				return apperrors.NewAppError(500, "failed to insert forwarded payment invoice links", err)
			}
		}
	}

	if err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxPaymentRepository) findAllocations(ctx context.Context, paymentID string) ([]domain.InvoicePayment, error) {
	query := `SELECT payment_id, invoice_id, amount, is_fp FROM invoice_payments WHERE payment_id = $1;`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice allocations", err)
	}
	defer rows.Close()

	var allocations []domain.InvoicePayment
	for rows.Next() {
		var alloc domain.InvoicePayment
		if err := rows.Scan(&alloc.PaymentID, &alloc.InvoiceID, &alloc.Amount, &alloc.IsFP); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice allocation row", err)
		}
		allocations = append(allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading invoice allocation rows", err)
	}
	return allocations, nil
}

const paymentColumns = `
	payment_id, organization_id, type, amount, transaction_id, reference, paid_at,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.OrganizationID,
		&m.Type,
		&m.Amount,
		&m.TransactionID,
		&m.Reference,
		&m.PaidAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindPaymentByID retrieves a payment with its allocations.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE payment_id = $1;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment "+paymentID, err)
	}

	payment := mapping.ToDomainPayment(*m)
	payment.Allocations, err = r.findAllocations(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindPaymentByReference retrieves a payment by its idempotency reference
// within the organization.
func (r *PgxPaymentRepository) FindPaymentByReference(ctx context.Context, organizationID, reference string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE organization_id = $1 AND reference = $2;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, organizationID, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment by reference "+reference, err)
	}

	payment := mapping.ToDomainPayment(*m)
	payment.Allocations, err = r.findAllocations(ctx, m.PaymentID)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
