package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType discriminates the three structurally parallel financial
// documents. Approval limits and ledger postings differ per type; everything
// else is shared.
type DocumentType string

const (
	DocTypeInvoice       DocumentType = "INVOICE"
	DocTypeCreditNote    DocumentType = "CREDIT_NOTE"
	DocTypePurchaseOrder DocumentType = "PURCHASE_ORDER"
)

// Label returns a lowercase human-readable name used in error reasons.
func (t DocumentType) Label() string {
	switch t {
	case DocTypeInvoice:
		return "invoice"
	case DocTypeCreditNote:
		return "credit note"
	case DocTypePurchaseOrder:
		return "purchase order"
	}
	return string(t)
}

// DocumentStatus is the authoritative current state of a financial document.
// The append-only status history is kept separately as an audit trail.
type DocumentStatus string

const (
	StatusDraft           DocumentStatus = "DRAFT"
	StatusPendingApproval DocumentStatus = "PENDING_APPROVAL"
	StatusApproved        DocumentStatus = "APPROVED"
	StatusDeleted         DocumentStatus = "DELETED"
)

// validTransitions is the status transition table. No backward edges.
var validTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:           {StatusPendingApproval, StatusDeleted},
	StatusPendingApproval: {StatusApproved},
	StatusApproved:        {},
	StatusDeleted:         {},
}

// CanTransition reports whether moving from one status to another is a valid
// edge in the document lifecycle.
func CanTransition(from, to DocumentStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FinancialDocument is the shared shape of Invoice, CreditNote and
// PurchaseOrder.
type FinancialDocument struct {
	DocumentID     string       `json:"documentID"`
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"` // Immutable after creation
	LocationID     string       `json:"locationID"`     // Immutable after creation
	OrganizationID string       `json:"organizationID"` // FK -> accounting_organizations
	JobID          *string      `json:"jobID"`          // Optional FK -> jobs

	RecipientContactID string `json:"recipientContactID"`
	RecipientName      string `json:"recipientName"`
	RecipientAddress   string `json:"recipientAddress"`

	Date      time.Time  `json:"date"`
	DueAt     *time.Time `json:"dueAt"`
	Reference string     `json:"reference"`

	Status   DocumentStatus `json:"status"`
	LockedAt *time.Time     `json:"lockedAt"` // Set once at approval; never cleared
	AuditFields

	Items    []DocumentItem        `json:"items,omitempty"`
	Statuses []DocumentStatusEntry `json:"statuses,omitempty"`
}

// DocumentItem is a single line of a financial document. TaxRate is
// snapshotted from the referenced tax rate at creation time so later rate
// changes do not alter historical documents.
type DocumentItem struct {
	ItemID      string          `json:"itemID"`
	DocumentID  string          `json:"documentID"`
	GSCodeID    string          `json:"gsCodeID"`
	GLAccountID string          `json:"glAccountID"`
	TaxRateID   *string         `json:"taxRateID"`
	TaxRate     decimal.Decimal `json:"taxRate"` // Fractional rate, 0 if none
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Discount    decimal.Decimal `json:"discount"`
	Position    int             `json:"position"`
	AuditFields
}

// DocumentStatusEntry is one row of the append-only status audit trail.
type DocumentStatusEntry struct {
	StatusEntryID string         `json:"statusEntryID"`
	DocumentID    string         `json:"documentID"`
	UserID        string         `json:"userID"`
	Status        DocumentStatus `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// ApproveRequest asks a specific user (within limit) to approve a document.
// ApprovedAt stays nil until the approver acts.
type ApproveRequest struct {
	ApproveRequestID string     `json:"approveRequestID"`
	DocumentID       string     `json:"documentID"`
	RequesterID      string     `json:"requesterID"`
	ApproverID       string     `json:"approverID"`
	ApprovedAt       *time.Time `json:"approvedAt"`
	AuditFields
}

// SubTotal returns the item subtotal of the line: quantity * unit cost minus
// discount.
func (i *DocumentItem) SubTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost).Sub(i.Discount)
}

// TaxAmount returns the tax charged on the line, rounded to 2 decimals.
func (i *DocumentItem) TaxAmount() decimal.Decimal {
	return i.SubTotal().Mul(i.TaxRate).Round(2)
}

// Total returns the line total including tax, rounded to 2 decimals. The
// rounded subtotal and tax legs are summed separately so the ledger posting
// built from them balances the document total exactly.
func (i *DocumentItem) Total() decimal.Decimal {
	return i.SubTotal().Round(2).Add(i.TaxAmount())
}

// SubTotalAmount returns the pre-tax total of all items.
func (d *FinancialDocument) SubTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Items {
		total = total.Add(d.Items[i].SubTotal())
	}
	return total.Round(2)
}

// TaxAmount returns the total tax across all items.
func (d *FinancialDocument) TaxAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Items {
		total = total.Add(d.Items[i].TaxAmount())
	}
	return total.Round(2)
}

// TotalAmount returns the grand total of the document: subtotal plus tax,
// rounded to 2 decimals.
func (d *FinancialDocument) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Items {
		total = total.Add(d.Items[i].Total())
	}
	return total
}

// AmountDue returns the grand total minus the payments already allocated to
// the document.
func (d *FinancialDocument) AmountDue(allocated decimal.Decimal) decimal.Decimal {
	return d.TotalAmount().Sub(allocated)
}

// IsLocked reports whether the document has been locked for editing.
func (d *FinancialDocument) IsLocked() bool {
	return d.LockedAt != nil
}

// ItemsMutable reports whether items may still be added, edited or removed:
// only while the document is DRAFT and not locked.
func (d *FinancialDocument) ItemsMutable() bool {
	return d.Status == StatusDraft && !d.IsLocked()
}

// lockedEditableFields is the per-type allow-list of header fields a
// manage_locked actor may still change on a locked or approved document.
// Location, organization and document number are never editable post-creation.
var lockedEditableFields = map[DocumentType][]string{
	DocTypeInvoice:       {"date", "reference", "recipient_contact_id", "recipient_name", "recipient_address", "due_at"},
	DocTypeCreditNote:    {"date", "reference", "recipient_contact_id", "recipient_name", "recipient_address", "due_at"},
	DocTypePurchaseOrder: {"date", "reference", "recipient_contact_id", "recipient_name", "recipient_address"},
}

// LockedFieldEditable reports whether the named header field may be changed
// on a locked document of this type by a manage_locked actor.
func LockedFieldEditable(docType DocumentType, field string) bool {
	for _, f := range lockedEditableFields[docType] {
		if f == field {
			return true
		}
	}
	return false
}
