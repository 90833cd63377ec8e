package services

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/dto"
)

// DocumentReaderSvc defines read operations for financial documents.
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document with its items.
	GetDocumentByID(ctx context.Context, documentID string, actorID string) (*domain.FinancialDocument, error)

	// ListDocuments retrieves a paginated list of an organization's
	// documents.
	ListDocuments(ctx context.Context, organizationID string, actorID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
}

// DocumentWriterSvc defines write operations for financial documents.
type DocumentWriterSvc interface {
	// CreateDocument creates a DRAFT document with its items.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*domain.FinancialDocument, error)

	// UpdateDocument patches a document. Locked or non-DRAFT documents
	// reject edits unless the actor holds manage_locked, and then only for
	// the per-type safe-field allow-list.
	UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.FinancialDocument, error)

	// DeleteDocument removes a DRAFT document without downstream dependents.
	DeleteDocument(ctx context.Context, documentID string, actorID string) error
}

// DocumentSvcFacade combines document service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
