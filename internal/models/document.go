package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialDocument is an invoice, credit note or purchase order row.
type FinancialDocument struct {
	DocumentID         string     `db:"document_id"`
	DocumentType       string     `db:"document_type"`
	DocumentNumber     string     `db:"document_number"`
	LocationID         string     `db:"location_id"`
	OrganizationID     string     `db:"organization_id"`
	JobID              *string    `db:"job_id"`
	RecipientContactID string     `db:"recipient_contact_id"`
	RecipientName      string     `db:"recipient_name"`
	RecipientAddress   string     `db:"recipient_address"`
	Date               time.Time  `db:"date"`
	DueAt              *time.Time `db:"due_at"`
	Reference          string     `db:"reference"`
	Status             string     `db:"status"`
	LockedAt           *time.Time `db:"locked_at"`
	AuditFields
}

// DocumentItem is a line of a financial document.
type DocumentItem struct {
	ItemID      string          `db:"item_id"`
	DocumentID  string          `db:"document_id"`
	GSCodeID    string          `db:"gs_code_id"`
	GLAccountID string          `db:"gl_account_id"`
	TaxRateID   *string         `db:"tax_rate_id"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
	Discount    decimal.Decimal `db:"discount"`
	Position    int             `db:"position"`
	AuditFields
}

// DocumentStatusEntry is one row of the append-only status audit trail.
type DocumentStatusEntry struct {
	StatusEntryID string    `db:"status_entry_id"`
	DocumentID    string    `db:"document_id"`
	UserID        string    `db:"user_id"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

// ApproveRequest is a pending authorization row for a document.
type ApproveRequest struct {
	ApproveRequestID string     `db:"approve_request_id"`
	DocumentID       string     `db:"document_id"`
	RequesterID      string     `db:"requester_id"`
	ApproverID       string     `db:"approver_id"`
	ApprovedAt       *time.Time `db:"approved_at"`
	AuditFields
}
