package services

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/dto"
)

// ApprovalSvcFacade exposes the approval workflow.
type ApprovalSvcFacade interface {
	// GetApproversList lists users eligible to approve the document:
	// attached to its location with a per-type limit covering the total.
	GetApproversList(ctx context.Context, documentID string, actorID string) ([]dto.ApproverResponse, error)

	// CreateApproveRequest records one pending request per approver and
	// moves the document to PENDING_APPROVAL. Approver eligibility is
	// re-validated server-side, never trusted from the caller.
	CreateApproveRequest(ctx context.Context, documentID string, requesterID string, approverIDs []string) error

	// Approve satisfies the acting user's outstanding request, transitions
	// the document to APPROVED, locks it and posts any required ledger
	// entries.
	Approve(ctx context.Context, documentID string, actorID string) error
}
