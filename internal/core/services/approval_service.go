package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
	"github.com/jobfin/finance_approval_app/internal/utils/accounting"
)

// approvalService drives the approval workflow: selecting approvers,
// recording requests and the guarded transition to APPROVED with its ledger
// posting.
type approvalService struct {
	documentRepo     portsrepo.DocumentRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	organizationRepo portsrepo.OrganizationRepositoryFacade
	events           portssvc.EventPublisher
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(
	documentRepo portsrepo.DocumentRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	organizationRepo portsrepo.OrganizationRepositoryFacade,
	events portssvc.EventPublisher,
) portssvc.ApprovalSvcFacade {
	return &approvalService{
		documentRepo:     documentRepo,
		userRepo:         userRepo,
		organizationRepo: organizationRepo,
		events:           events,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// GetApproversList lists users eligible to approve the document: attached to
// its location with a per-type limit covering the document total.
func (s *approvalService) GetApproversList(ctx context.Context, documentID string, actorID string) ([]dto.ApproverResponse, error) {
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

	candidates, err := s.userRepo.FindUsersByLocation(ctx, doc.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find users for location %s: %w", doc.LocationID, err)
	}

	approvers := make([]dto.ApproverResponse, 0, len(candidates))
	for i := range candidates {
		user := &candidates[i]
		if !user.IsActive || !user.CanApprove(doc) {
			continue
		}
		approvers = append(approvers, dto.ApproverResponse{
			UserID: user.UserID,
			Name:   user.Name,
			Limit:  *user.ApproveLimitFor(doc.DocumentType),
		})
	}
	return approvers, nil
}

// CreateApproveRequest records one pending request per approver and moves the
// document to PENDING_APPROVAL. Every approver's eligibility is re-validated
// here, never trusted from the caller.
func (s *approvalService) CreateApproveRequest(ctx context.Context, documentID string, requesterID string, approverIDs []string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	if !domain.CanTransition(doc.Status, domain.StatusPendingApproval) {
		return fmt.Errorf("%w: unable to change %s status", apperrors.ErrNotAllowed, doc.DocumentType.Label())
	}
	if len(doc.Items) == 0 {
		return fmt.Errorf("%w: a %s without items cannot be sent for approval", apperrors.ErrValidation, doc.DocumentType.Label())
	}

	requester, err := s.userRepo.FindUserByID(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to find requesting user: %w", err)
	}
	if !requester.AttachedToLocation(doc.LocationID) {
		return fmt.Errorf("%w: user is not attached to location %s", apperrors.ErrForbidden, doc.LocationID)
	}

	now := time.Now().UTC()
	seen := make(map[string]bool, len(approverIDs))
	requests := make([]domain.ApproveRequest, 0, len(approverIDs))
	for _, approverID := range approverIDs {
		if seen[approverID] {
			continue
		}
		seen[approverID] = true

		approver, err := s.userRepo.FindUserByID(ctx, approverID)
		if err != nil {
			return fmt.Errorf("failed to find approver %s: %w", approverID, err)
		}
		if !approver.IsActive || !approver.CanApprove(doc) {
			return fmt.Errorf("%w: user %s cannot approve this %s", apperrors.ErrValidation, approverID, doc.DocumentType.Label())
		}

		requests = append(requests, domain.ApproveRequest{
			ApproveRequestID: uuid.NewString(),
			DocumentID:       doc.DocumentID,
			RequesterID:      requesterID,
			ApproverID:       approverID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requesterID,
				LastUpdatedAt: now,
				LastUpdatedBy: requesterID,
			},
		})
	}
	if len(requests) == 0 {
		return fmt.Errorf("%w: at least one approver is required", apperrors.ErrValidation)
	}

	entry := domain.DocumentStatusEntry{
		StatusEntryID: uuid.NewString(),
		DocumentID:    doc.DocumentID,
		UserID:        requesterID,
		Status:        domain.StatusPendingApproval,
		CreatedAt:     now,
	}
	if err := s.documentRepo.SaveApproveRequests(ctx, doc.DocumentID, requests, entry); err != nil {
		return fmt.Errorf("failed to save approve requests: %w", err)
	}

	logger.Info("Approve requests created",
		slog.String("document_id", doc.DocumentID),
		slog.Int("approver_count", len(requests)),
	)
	s.events.Publish(ctx, requesterID, portssvc.EventApproveRequestsAdded, map[string]any{
		"document_id":   doc.DocumentID,
		"document_type": string(doc.DocumentType),
		"total":         doc.TotalAmount().String(),
	})
	return nil
}

// Approve satisfies the acting user's outstanding request, transitions the
// document to APPROVED, locks it and posts any required ledger entries. The
// status update is guarded on the current status, so of two concurrent
// approvals exactly one commits.
func (s *approvalService) Approve(ctx context.Context, documentID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	if !domain.CanTransition(doc.Status, domain.StatusApproved) {
		return fmt.Errorf("%w: unable to change %s status", apperrors.ErrNotAllowed, doc.DocumentType.Label())
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to find acting user: %w", err)
	}
	// Eligibility is re-checked at approval time: limits or location links
	// may have changed since the request was created.
	if !actor.CanApprove(doc) {
		return fmt.Errorf("%w: user cannot approve this %s", apperrors.ErrNotAllowed, doc.DocumentType.Label())
	}

	requests, err := s.documentRepo.FindApproveRequests(ctx, doc.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to find approve requests: %w", err)
	}
	var outstanding *domain.ApproveRequest
	for i := range requests {
		if requests[i].ApproverID == actorID && requests[i].ApprovedAt == nil {
			outstanding = &requests[i]
			break
		}
	}
	if outstanding == nil {
		return fmt.Errorf("%w: no outstanding approve request for this user", apperrors.ErrNotAllowed)
	}

	now := time.Now().UTC()
	txn, err := s.buildApprovalPosting(ctx, doc, actorID, now)
	if err != nil {
		return err
	}

	entry := domain.DocumentStatusEntry{
		StatusEntryID: uuid.NewString(),
		DocumentID:    doc.DocumentID,
		UserID:        actorID,
		Status:        domain.StatusApproved,
		CreatedAt:     now,
	}
	if err := s.documentRepo.ApproveDocument(ctx, doc.DocumentID, actorID, now, entry, txn); err != nil {
		return fmt.Errorf("failed to approve document: %w", err)
	}

	logger.Info("Document approved",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_type", string(doc.DocumentType)),
	)
	s.events.Publish(ctx, actorID, portssvc.EventDocumentApproved, map[string]any{
		"document_id":   doc.DocumentID,
		"document_type": string(doc.DocumentType),
		"total":         doc.TotalAmount().String(),
	})
	return nil
}

// buildApprovalPosting constructs the balanced ledger transaction an approval
// must post. Invoices debit accounts receivable for the grand total and
// credit each item's revenue account plus tax payable; credit notes post the
// mirror image; purchase orders post nothing and return nil.
func (s *approvalService) buildApprovalPosting(ctx context.Context, doc *domain.FinancialDocument, actorID string, now time.Time) (*domain.Transaction, error) {
	if doc.DocumentType == domain.DocTypePurchaseOrder {
		return nil, nil
	}

	org, err := s.organizationRepo.FindOrganizationByID(ctx, doc.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization %s: %w", doc.OrganizationID, err)
	}

	total := doc.TotalAmount()
	if total.IsZero() {
		return nil, nil
	}

	// Invoices debit AR; credit notes credit it back.
	arIsDebit := doc.DocumentType == domain.DocTypeInvoice

	legs := []postingLeg{{glAccountID: org.AccountsReceivableAccountID, amount: total, isDebit: arIsDebit}}
	// Item subtotals group per GL account on the opposite side.
	byAccount := make(map[string]int)
	for i := range doc.Items {
		item := &doc.Items[i]
		subTotal := item.SubTotal().Round(2)
		if subTotal.IsZero() {
			continue
		}
		if idx, ok := byAccount[item.GLAccountID]; ok {
			legs[idx].amount = legs[idx].amount.Add(subTotal)
			continue
		}
		byAccount[item.GLAccountID] = len(legs)
		legs = append(legs, postingLeg{glAccountID: item.GLAccountID, amount: subTotal, isDebit: !arIsDebit})
	}
	if tax := doc.TaxAmount(); !tax.IsZero() {
		legs = append(legs, postingLeg{glAccountID: org.TaxPayableAccountID, amount: tax, isDebit: !arIsDebit})
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		OrganizationID:  doc.OrganizationID,
		TransactionDate: now,
		Notes:           fmt.Sprintf("Approval of %s %s", doc.DocumentType.Label(), doc.DocumentNumber),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	for _, leg := range legs {
		txn.Records = append(txn.Records, domain.TransactionRecord{
			RecordID:      uuid.NewString(),
			TransactionID: txn.TransactionID,
			GLAccountID:   leg.glAccountID,
			Amount:        leg.amount,
			IsDebit:       leg.isDebit,
			AuditFields:   txn.AuditFields,
		})
	}
	if err := accounting.ValidateTransactionBalance(txn.Records); err != nil {
		return nil, fmt.Errorf("%w: approval posting for %s: %s", apperrors.ErrUnbalancedTransaction, doc.DocumentID, err.Error())
	}
	return &txn, nil
}

// postingLeg is one side of an approval posting before record IDs are
// assigned.
type postingLeg struct {
	glAccountID string
	amount      decimal.Decimal
	isDebit     bool
}
