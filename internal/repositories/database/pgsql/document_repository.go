package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	"github.com/jobfin/finance_approval_app/internal/models"
	"github.com/jobfin/finance_approval_app/internal/utils/mapping"
	"github.com/jobfin/finance_approval_app/internal/utils/pagination"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for financial documents,
// their approval workflow rows and status history.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `
	document_id, document_type, document_number, location_id, organization_id, job_id,
	recipient_contact_id, recipient_name, recipient_address,
	date, due_at, reference, status, locked_at,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanDocument(row pgx.Row) (*models.FinancialDocument, error) {
	var m models.FinancialDocument
	err := row.Scan(
		&m.DocumentID,
		&m.DocumentType,
		&m.DocumentNumber,
		&m.LocationID,
		&m.OrganizationID,
		&m.JobID,
		&m.RecipientContactID,
		&m.RecipientName,
		&m.RecipientAddress,
		&m.Date,
		&m.DueAt,
		&m.Reference,
		&m.Status,
		&m.LockedAt,
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

func (r *PgxDocumentRepository) findItems(ctx context.Context, documentID string) ([]models.DocumentItem, error) {
	query := `
		SELECT item_id, document_id, gs_code_id, gl_account_id, tax_rate_id, tax_rate,
		       description, quantity, unit_cost, discount, position,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM document_items
		WHERE document_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document items", err)
	}
	defer rows.Close()

	var items []models.DocumentItem
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
			return nil, apperrors.NewAppError(500, "failed to scan document item row", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading document item rows", err)
	}
	return items, nil
}

func insertItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO document_items (
			item_id, document_id, gs_code_id, gl_account_id, tax_rate_id, tax_rate,
			description, quantity, unit_cost, discount, position,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelDocumentItem(item)
		batch.Queue(query,
			m.ItemID,
			m.DocumentID,
			m.GSCodeID,
			m.GLAccountID,
			m.TaxRateID,
			m.TaxRate,
			m.Description,
			m.Quantity,
			m.UnitCost,
			m.Discount,
			m.Position,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert document items", err)
		}
	}
	return nil
}

func insertStatusEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.DocumentStatusEntry) error {
	query := `
		INSERT INTO document_statuses (status_entry_id, document_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query,
		entry.StatusEntryID,
		entry.DocumentID,
		entry.UserID,
		string(entry.Status),
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert document status entry", err)
	}
	return nil
}

// FindDocumentByID retrieves a document header with its items.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.FinancialDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM financial_documents
		WHERE document_id = $1;
	`
	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document "+documentID, err)
	}

	items, err := r.findItems(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc := mapping.ToDomainDocument(*m)
	doc.Items = mapping.ToDomainDocumentItemSlice(items)
	return &doc, nil
}

// FindStatusHistory retrieves the append-only status audit trail, oldest
// first.
func (r *PgxDocumentRepository) FindStatusHistory(ctx context.Context, documentID string) ([]domain.DocumentStatusEntry, error) {
	query := `
		SELECT status_entry_id, document_id, user_id, status, created_at
		FROM document_statuses
		WHERE document_id = $1
		ORDER BY created_at, status_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document statuses", err)
	}
	defer rows.Close()

	var entries []domain.DocumentStatusEntry
	for rows.Next() {
		var m models.DocumentStatusEntry
		if err := rows.Scan(&m.StatusEntryID, &m.DocumentID, &m.UserID, &m.Status, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document status row", err)
		}
		entries = append(entries, mapping.ToDomainStatusEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading document status rows", err)
	}
	return entries, nil
}

// ListDocuments retrieves a keyset-paginated page of documents for an
// organization, newest first, optionally filtered by type. The returned
// token is nil on the last page.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, organizationID string, docType *domain.DocumentType, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM financial_documents
		WHERE organization_id = $1 AND status != 'DELETED'
	`
	args := []any{organizationID}

	if docType != nil {
		args = append(args, string(*docType))
		query += ` AND document_type = $2`
	}
	if nextToken != nil {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.ErrValidation
		}
		args = append(args, tokenDate, tokenCreatedAt)
		// Keyset cursor on (date, created_at) descending.
		query += ` AND (date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, limit+1)
	query += ` ORDER BY date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query documents", err)
	}
	defer rows.Close()

	var ms []models.FinancialDocument
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed reading document rows", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}

	docs := make([]domain.FinancialDocument, len(ms))
	for i, m := range ms {
		docs[i] = mapping.ToDomainDocument(m)
	}
	return docs, token, nil
}

// SumAllocatedPayments sums the payment amounts already allocated to the
// invoice.
func (r *PgxDocumentRepository) SumAllocatedPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	return sumAllocatedPayments(ctx, r.Pool, invoiceID)
}

func sumAllocatedPayments(ctx context.Context, q rowQuerier, invoiceID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM invoice_payments WHERE invoice_id = $1;`
	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum allocated payments for invoice "+invoiceID, err)
	}
	return total, nil
}

// SaveDocument inserts the header, items and initial status history entry
// atomically.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.FinancialDocument, entry domain.DocumentStatusEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	query := `
		INSERT INTO financial_documents (
			document_id, document_type, document_number, location_id, organization_id, job_id,
			recipient_contact_id, recipient_name, recipient_address,
			date, due_at, reference, status, locked_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.DocumentID,
		m.DocumentType,
		m.DocumentNumber,
		m.LocationID,
		m.OrganizationID,
		m.JobID,
		m.RecipientContactID,
		m.RecipientName,
		m.RecipientAddress,
		m.Date,
		m.DueAt,
		m.Reference,
		m.Status,
		m.LockedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert document "+m.DocumentID, err)
	}

	if err := insertItemsInTx(ctx, tx, doc.Items); err != nil {
		return err
	}
	if err := insertStatusEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateDocument updates the header and replaces items atomically. Items may
// be nil to leave them untouched.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.FinancialDocument, items []domain.DocumentItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	query := `
		UPDATE financial_documents
		SET job_id = $2,
		    recipient_contact_id = $3,
		    recipient_name = $4,
		    recipient_address = $5,
		    date = $6,
		    due_at = $7,
		    reference = $8,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE document_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.DocumentID,
		m.JobID,
		m.RecipientContactID,
		m.RecipientName,
		m.RecipientAddress,
		m.Date,
		m.DueAt,
		m.Reference,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document "+m.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1;`, m.DocumentID); err != nil {
			return apperrors.NewAppError(500, "failed to delete document items for "+m.DocumentID, err)
		}
		if err := insertItemsInTx(ctx, tx, items); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// MarkDeleted transitions the document to DELETED with an audit entry. The
// update is guarded on the document still being DRAFT; a concurrent
// transition fails with ErrConflict. Documents referenced by a forwarded
// payment are never deletable.
func (r *PgxDocumentRepository) MarkDeleted(ctx context.Context, documentID string, entry domain.DocumentStatusEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var hasForwardedLinks bool
	linkQuery := `SELECT EXISTS (SELECT 1 FROM forwarded_payment_invoices WHERE invoice_id = $1);`
	if err := tx.QueryRow(ctx, linkQuery, documentID).Scan(&hasForwardedLinks); err != nil {
		return apperrors.NewAppError(500, "failed to check forwarded payment links for document "+documentID, err)
	}
	if hasForwardedLinks {
		return fmt.Errorf("%w: document %s is linked to a forwarded payment", apperrors.ErrNotAllowed, documentID)
	}

	query := `
		UPDATE financial_documents
		SET status = 'DELETED', last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query, documentID, entry.CreatedAt, entry.UserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete document "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertStatusEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveApproveRequests inserts the request rows and transitions the document
// DRAFT -> PENDING_APPROVAL atomically. The guarded update makes concurrent
// submissions race safely: the loser sees zero rows and gets ErrConflict.
func (r *PgxDocumentRepository) SaveApproveRequests(ctx context.Context, documentID string, requests []domain.ApproveRequest, entry domain.DocumentStatusEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE financial_documents
		SET status = 'PENDING_APPROVAL', last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query, documentID, entry.CreatedAt, entry.UserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to submit document "+documentID+" for approval", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	requestQuery := `
		INSERT INTO approve_requests (
			approve_request_id, document_id, requester_id, approver_id, approved_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, req := range requests {
		batch.Queue(requestQuery,
			req.ApproveRequestID,
			req.DocumentID,
			req.RequesterID,
			req.ApproverID,
			req.ApprovedAt,
			req.CreatedAt,
			req.CreatedBy,
			req.LastUpdatedAt,
			req.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range requests {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert approve requests for "+documentID, err)
		}
	}

	if err := insertStatusEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindApproveRequests retrieves all approve requests for a document.
func (r *PgxDocumentRepository) FindApproveRequests(ctx context.Context, documentID string) ([]domain.ApproveRequest, error) {
	query := `
		SELECT approve_request_id, document_id, requester_id, approver_id, approved_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM approve_requests
		WHERE document_id = $1
		ORDER BY created_at, approve_request_id;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approve requests", err)
	}
	defer rows.Close()

	var ms []models.ApproveRequest
	for rows.Next() {
		var m models.ApproveRequest
		err := rows.Scan(
			&m.ApproveRequestID,
			&m.DocumentID,
			&m.RequesterID,
			&m.ApproverID,
			&m.ApprovedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approve request row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading approve request rows", err)
	}
	return mapping.ToDomainApproveRequestSlice(ms), nil
}

// ApproveDocument performs the approval atomically: the guarded status update
// decides the winner of concurrent approvals, the approver's outstanding
// request is stamped, the lock timestamp set, the history appended and the
// ledger posting (if any) inserted, all in one database transaction.
func (r *PgxDocumentRepository) ApproveDocument(ctx context.Context, documentID string, approverID string, approvedAt time.Time, entry domain.DocumentStatusEntry, txn *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE financial_documents
		SET status = 'APPROVED',
		    locked_at = COALESCE(locked_at, $2),
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE document_id = $1 AND status = 'PENDING_APPROVAL';
	`
	tag, err := tx.Exec(ctx, query, documentID, approvedAt, approverID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve document "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	requestQuery := `
		UPDATE approve_requests
		SET approved_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE document_id = $1 AND approver_id = $2 AND approved_at IS NULL;
	`
	tag, err = tx.Exec(ctx, requestQuery, documentID, approverID, approvedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp approve request for "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if txn != nil {
		glAccountIDs := make([]string, 0, len(txn.Records))
		for _, record := range txn.Records {
			glAccountIDs = append(glAccountIDs, record.GLAccountID)
		}
		if _, err := queryGLAccountsByIDs(ctx, tx, glAccountIDs, true); err != nil {
			return err
		}
		if err := insertTransactionInTx(ctx, tx, *txn); err != nil {
			return err
		}
	}

	if err := insertStatusEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
