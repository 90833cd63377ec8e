package domain

import "github.com/shopspring/decimal"

// User is an actor in the finance core. Approval limits are per document
// type; a nil limit means the user can never approve documents of that type.
type User struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`

	InvoiceApproveLimit       *decimal.Decimal `json:"invoiceApproveLimit"`
	CreditNoteApproveLimit    *decimal.Decimal `json:"creditNoteApproveLimit"`
	PurchaseOrderApproveLimit *decimal.Decimal `json:"purchaseOrderApproveLimit"`

	// CanManageLocked grants the elevated capability to edit the safe-field
	// allow-list of locked/approved documents.
	CanManageLocked bool `json:"canManageLocked"`

	// LocationIDs are the locations the user is attached to (many-to-many).
	LocationIDs []string `json:"locationIDs,omitempty"`
	AuditFields
}

// ApproveLimitFor returns the user's approval limit for the given document
// type, or nil if the user has none.
func (u *User) ApproveLimitFor(docType DocumentType) *decimal.Decimal {
	switch docType {
	case DocTypeInvoice:
		return u.InvoiceApproveLimit
	case DocTypeCreditNote:
		return u.CreditNoteApproveLimit
	case DocTypePurchaseOrder:
		return u.PurchaseOrderApproveLimit
	}
	return nil
}

// AttachedToLocation reports whether the user is attached to locationID.
func (u *User) AttachedToLocation(locationID string) bool {
	for _, id := range u.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// CanApprove reports whether the user may approve the document: attached to
// its location and holding a per-type limit covering the document total.
func (u *User) CanApprove(doc *FinancialDocument) bool {
	if !u.AttachedToLocation(doc.LocationID) {
		return false
	}
	limit := u.ApproveLimitFor(doc.DocumentType)
	return limit != nil && limit.GreaterThanOrEqual(doc.TotalAmount())
}
