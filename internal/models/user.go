package models

import "github.com/shopspring/decimal"

// User is an actor row with per-document-type approval limits.
type User struct {
	UserID                    string           `db:"user_id"`
	Name                      string           `db:"name"`
	Email                     string           `db:"email"`
	PasswordHash              string           `db:"password_hash"`
	IsActive                  bool             `db:"is_active"`
	InvoiceApproveLimit       *decimal.Decimal `db:"invoice_approve_limit"`
	CreditNoteApproveLimit    *decimal.Decimal `db:"credit_note_approve_limit"`
	PurchaseOrderApproveLimit *decimal.Decimal `db:"purchase_order_approve_limit"`
	CanManageLocked           bool             `db:"can_manage_locked"`
	AuditFields
}
