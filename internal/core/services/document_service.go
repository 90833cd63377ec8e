package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
	"github.com/jobfin/finance_approval_app/internal/utils/pagination"
)

// documentService manages the lifecycle of invoices, credit notes and
// purchase orders up to the point of approval.
type documentService struct {
	documentRepo     portsrepo.DocumentRepositoryFacade
	accountRepo      portsrepo.AccountRepositoryFacade
	organizationRepo portsrepo.OrganizationRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	periodLock       portssvc.PeriodLockSvc
	events           portssvc.EventPublisher
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	organizationRepo portsrepo.OrganizationRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	periodLock portssvc.PeriodLockSvc,
	events portssvc.EventPublisher,
) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo:     documentRepo,
		accountRepo:      accountRepo,
		organizationRepo: organizationRepo,
		userRepo:         userRepo,
		periodLock:       periodLock,
		events:           events,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// buildItems resolves GL accounts and tax rates for the requested lines and
// returns fully populated document items. The tax rate value is snapshotted
// onto each item so later rate changes never alter the document.
func (s *documentService) buildItems(ctx context.Context, organizationID, documentID, actorID string, reqs []dto.CreateDocumentItemRequest, now time.Time) ([]domain.DocumentItem, error) {
	accountIDs := make([]string, 0, len(reqs))
	taxRateIDs := make([]string, 0, len(reqs))
	for _, item := range reqs {
		accountIDs = append(accountIDs, item.GLAccountID)
		if item.TaxRateID != nil {
			taxRateIDs = append(taxRateIDs, *item.TaxRateID)
		}
	}

	accounts, err := s.accountRepo.FindGLAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find item accounts: %w", err)
	}
	taxRates, err := s.organizationRepo.FindTaxRatesByIDs(ctx, taxRateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find item tax rates: %w", err)
	}

	items := make([]domain.DocumentItem, len(reqs))
	for i, req := range reqs {
		account, ok := accounts[req.GLAccountID]
		if !ok {
			return nil, fmt.Errorf("%w: gl account %s", apperrors.ErrNotFound, req.GLAccountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: gl account %s is inactive", apperrors.ErrValidation, req.GLAccountID)
		}
		if account.OrganizationID != organizationID {
			return nil, fmt.Errorf("%w: gl account %s belongs to a different organization", apperrors.ErrValidation, req.GLAccountID)
		}
		if req.Quantity.IsNegative() || req.UnitCost.IsNegative() || req.Discount.IsNegative() {
			return nil, fmt.Errorf("%w: quantity, unit cost and discount must not be negative", apperrors.ErrValidation)
		}

		item := domain.DocumentItem{
			ItemID:      uuid.NewString(),
			DocumentID:  documentID,
			GSCodeID:    req.GSCodeID,
			GLAccountID: req.GLAccountID,
			TaxRateID:   req.TaxRateID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitCost:    req.UnitCost,
			Discount:    req.Discount,
			Position:    i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		if req.TaxRateID != nil {
			rate, ok := taxRates[*req.TaxRateID]
			if !ok {
				return nil, fmt.Errorf("%w: tax rate %s", apperrors.ErrNotFound, *req.TaxRateID)
			}
			item.TaxRate = rate.Rate
		}
		items[i] = item
	}
	return items, nil
}

// CreateDocument creates a DRAFT document with its items.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*domain.FinancialDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find acting user: %w", err)
	}
	if !actor.AttachedToLocation(req.LocationID) {
		return nil, fmt.Errorf("%w: user is not attached to location %s", apperrors.ErrForbidden, req.LocationID)
	}

	org, err := s.organizationRepo.FindOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", req.OrganizationID, err)
	}
	if !org.ServesLocation(req.LocationID) {
		return nil, fmt.Errorf("%w: organization does not serve location %s", apperrors.ErrValidation, req.LocationID)
	}

	if err := s.periodLock.CheckDateAllowed(ctx, req.OrganizationID, req.Date); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := domain.FinancialDocument{
		DocumentID:         uuid.NewString(),
		DocumentType:       req.DocumentType,
		DocumentNumber:     req.DocumentNumber,
		LocationID:         req.LocationID,
		OrganizationID:     req.OrganizationID,
		JobID:              req.JobID,
		RecipientContactID: req.RecipientContactID,
		RecipientName:      req.RecipientName,
		RecipientAddress:   req.RecipientAddress,
		Date:               req.Date,
		DueAt:              req.DueAt,
		Reference:          req.Reference,
		Status:             domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	doc.Items, err = s.buildItems(ctx, req.OrganizationID, doc.DocumentID, actorID, req.Items, now)
	if err != nil {
		return nil, err
	}

	entry := domain.DocumentStatusEntry{
		StatusEntryID: uuid.NewString(),
		DocumentID:    doc.DocumentID,
		UserID:        actorID,
		Status:        domain.StatusDraft,
		CreatedAt:     now,
	}
	if err := s.documentRepo.SaveDocument(ctx, doc, entry); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Document created",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_type", string(doc.DocumentType)),
		slog.String("organization_id", doc.OrganizationID),
	)

	// Downstream job costing counters recalculate off this event.
	s.events.Publish(ctx, actorID, portssvc.EventDocumentCreated, map[string]any{
		"document_id":   doc.DocumentID,
		"document_type": string(doc.DocumentType),
		"job_id":        doc.JobID,
		"total":         doc.TotalAmount().String(),
	})
	return &doc, nil
}

// GetDocumentByID retrieves a document with its items. The acting user must
// be attached to the document's location.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string, actorID string) (*domain.FinancialDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find acting user: %w", err)
	}
	if !actor.AttachedToLocation(doc.LocationID) {
		return nil, fmt.Errorf("%w: user is not attached to location %s", apperrors.ErrForbidden, doc.LocationID)
	}
	return doc, nil
}

// ListDocuments retrieves a keyset-paginated list of an organization's
// documents, newest first.
func (s *documentService) ListDocuments(ctx context.Context, organizationID string, actorID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	if _, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID); err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if params.NextToken != nil {
		if _, _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
	}

	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, organizationID, params.DocumentType, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	resp := dto.ListDocumentsResponse{
		Documents: make([]dto.DocumentResponse, len(docs)),
		NextToken: nextToken,
	}
	for i := range docs {
		resp.Documents[i] = dto.ToDocumentResponse(&docs[i])
	}
	return &resp, nil
}

// UpdateDocument patches a document header and optionally replaces its items.
// DRAFT documents accept all mutable fields; locked or approved documents
// accept only the per-type safe-field allow-list, and only from an actor
// holding the manage-locked capability.
func (s *documentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.FinancialDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	if doc.Status == domain.StatusDeleted {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find acting user: %w", err)
	}
	if !actor.AttachedToLocation(doc.LocationID) {
		return nil, fmt.Errorf("%w: user is not attached to location %s", apperrors.ErrForbidden, doc.LocationID)
	}

	restricted := doc.IsLocked() || doc.Status != domain.StatusDraft
	if restricted {
		if !actor.CanManageLocked {
			return nil, fmt.Errorf("%w: %s is locked", apperrors.ErrNotAllowed, doc.DocumentType.Label())
		}
		if err := s.checkLockedFields(doc.DocumentType, req); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	dateChanged := false
	if req.Date != nil && !req.Date.Equal(doc.Date) {
		doc.Date = *req.Date
		dateChanged = true
	}
	if req.RecipientContactID != nil {
		doc.RecipientContactID = *req.RecipientContactID
	}
	if req.RecipientName != nil {
		doc.RecipientName = *req.RecipientName
	}
	if req.RecipientAddress != nil {
		doc.RecipientAddress = *req.RecipientAddress
	}
	if req.DueAt != nil {
		doc.DueAt = req.DueAt
	}
	if req.Reference != nil {
		doc.Reference = *req.Reference
	}
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID

	// Date moves are always re-checked against the period lock, even for
	// manage-locked actors.
	if dateChanged {
		if err := s.periodLock.CheckDateAllowed(ctx, doc.OrganizationID, doc.Date); err != nil {
			return nil, err
		}
	}

	var items []domain.DocumentItem
	if req.Items != nil {
		if !doc.ItemsMutable() {
			return nil, fmt.Errorf("%w: items cannot be changed on a %s %s", apperrors.ErrNotAllowed, doc.Status, doc.DocumentType.Label())
		}
		items, err = s.buildItems(ctx, doc.OrganizationID, doc.DocumentID, actorID, req.Items, now)
		if err != nil {
			return nil, err
		}
		doc.Items = items
	}

	if err := s.documentRepo.UpdateDocument(ctx, *doc, items); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	logger.Info("Document updated", slog.String("document_id", doc.DocumentID), slog.Bool("restricted", restricted))
	return doc, nil
}

// checkLockedFields rejects any patched field outside the per-type allow-list
// for locked documents.
func (s *documentService) checkLockedFields(docType domain.DocumentType, req dto.UpdateDocumentRequest) error {
	patched := map[string]bool{
		"date":                 req.Date != nil,
		"reference":            req.Reference != nil,
		"recipient_contact_id": req.RecipientContactID != nil,
		"recipient_name":       req.RecipientName != nil,
		"recipient_address":    req.RecipientAddress != nil,
		"due_at":               req.DueAt != nil,
	}
	for field, set := range patched {
		if set && !domain.LockedFieldEditable(docType, field) {
			return fmt.Errorf("%w: field %s cannot be changed on a locked %s", apperrors.ErrNotAllowed, field, docType.Label())
		}
	}
	if req.Items != nil {
		return fmt.Errorf("%w: items cannot be changed on a locked %s", apperrors.ErrNotAllowed, docType.Label())
	}
	return nil
}

// DeleteDocument removes a DRAFT document. Approval requests or downstream
// ledger activity make a document permanent.
func (s *documentService) DeleteDocument(ctx context.Context, documentID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to find acting user: %w", err)
	}
	if !actor.AttachedToLocation(doc.LocationID) {
		return fmt.Errorf("%w: user is not attached to location %s", apperrors.ErrForbidden, doc.LocationID)
	}

	if !domain.CanTransition(doc.Status, domain.StatusDeleted) {
		return fmt.Errorf("%w: a %s %s cannot be deleted", apperrors.ErrNotAllowed, doc.Status, doc.DocumentType.Label())
	}
	if doc.JobID != nil {
		return fmt.Errorf("%w: %s is assigned to a job and cannot be deleted", apperrors.ErrNotAllowed, doc.DocumentType.Label())
	}

	entry := domain.DocumentStatusEntry{
		StatusEntryID: uuid.NewString(),
		DocumentID:    doc.DocumentID,
		UserID:        actorID,
		Status:        domain.StatusDeleted,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.documentRepo.MarkDeleted(ctx, doc.DocumentID, entry); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	logger.Info("Document deleted", slog.String("document_id", doc.DocumentID))
	return nil
}
