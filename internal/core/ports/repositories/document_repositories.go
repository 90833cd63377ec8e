package repositories

import (
	"context"
	"time"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for financial documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document header with its items.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.FinancialDocument, error)

	// FindStatusHistory retrieves the append-only status audit trail, oldest
	// first.
	FindStatusHistory(ctx context.Context, documentID string) ([]domain.DocumentStatusEntry, error)

	// ListDocuments retrieves a keyset-paginated list of documents for an
	// organization, optionally filtered by type.
	ListDocuments(ctx context.Context, organizationID string, docType *domain.DocumentType, limit int, nextToken *string) ([]domain.FinancialDocument, *string, error)

	// SumAllocatedPayments sums the payment amounts already allocated to the
	// invoice.
	SumAllocatedPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// DocumentWriter defines write operations for financial documents.
type DocumentWriter interface {
	// SaveDocument inserts the header, items and initial status history entry
	// atomically.
	SaveDocument(ctx context.Context, doc domain.FinancialDocument, entry domain.DocumentStatusEntry) error

	// UpdateDocument updates the header and replaces items atomically. Items
	// may be nil to leave them untouched.
	UpdateDocument(ctx context.Context, doc domain.FinancialDocument, items []domain.DocumentItem) error

	// MarkDeleted transitions the document to DELETED with an audit entry,
	// guarded on the current status still being DRAFT. Returns ErrConflict
	// if the guard fails.
	MarkDeleted(ctx context.Context, documentID string, entry domain.DocumentStatusEntry) error
}

// ApprovalRepository defines persistence for approve requests and the
// approval transition.
type ApprovalRepository interface {
	// SaveApproveRequests inserts the request rows and transitions the
	// document DRAFT -> PENDING_APPROVAL atomically. Returns ErrConflict if
	// the document is no longer DRAFT.
	SaveApproveRequests(ctx context.Context, documentID string, requests []domain.ApproveRequest, entry domain.DocumentStatusEntry) error

	// FindApproveRequests retrieves all approve requests for a document.
	FindApproveRequests(ctx context.Context, documentID string) ([]domain.ApproveRequest, error)

	// ApproveDocument performs the approval atomically: guarded status update
	// PENDING_APPROVAL -> APPROVED (first committer wins, ErrConflict for the
	// loser), locked_at stamp, approved_at stamp on the approver's
	// outstanding request, status history append, and the ledger posting if
	// txn is non-nil.
	ApproveDocument(ctx context.Context, documentID string, approverID string, approvedAt time.Time, entry domain.DocumentStatusEntry, txn *domain.Transaction) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	ApprovalRepository
}
