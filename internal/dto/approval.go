package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateApproveRequestRequest asks the listed approvers to approve a
// document. The eligibility of every approver is re-validated server-side.
type CreateApproveRequestRequest struct {
	ApproverIDs []string `json:"approverIDs" binding:"required,min=1"`
}

// ApproverResponse is one eligible approver for a document.
type ApproverResponse struct {
	UserID string          `json:"userID"`
	Name   string          `json:"name"`
	Limit  decimal.Decimal `json:"limit"`
}

// ApproveRequestResponse is the API shape of an approve request.
type ApproveRequestResponse struct {
	ApproveRequestID string     `json:"approveRequestID"`
	DocumentID       string     `json:"documentID"`
	RequesterID      string     `json:"requesterID"`
	ApproverID       string     `json:"approverID"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
}
