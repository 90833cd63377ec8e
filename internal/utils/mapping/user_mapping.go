package mapping

import (
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/models"
)

// ToModelUser converts a domain User to its model row.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                    d.UserID,
		Name:                      d.Name,
		Email:                     d.Email,
		PasswordHash:              d.PasswordHash,
		IsActive:                  d.IsActive,
		InvoiceApproveLimit:       d.InvoiceApproveLimit,
		CreditNoteApproveLimit:    d.CreditNoteApproveLimit,
		PurchaseOrderApproveLimit: d.PurchaseOrderApproveLimit,
		CanManageLocked:           d.CanManageLocked,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User row.
func ToDomainUser(m models.User, locationIDs []string) domain.User {
	return domain.User{
		UserID:                    m.UserID,
		Name:                      m.Name,
		Email:                     m.Email,
		PasswordHash:              m.PasswordHash,
		IsActive:                  m.IsActive,
		InvoiceApproveLimit:       m.InvoiceApproveLimit,
		CreditNoteApproveLimit:    m.CreditNoteApproveLimit,
		PurchaseOrderApproveLimit: m.PurchaseOrderApproveLimit,
		CanManageLocked:           m.CanManageLocked,
		LocationIDs:               locationIDs,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}
