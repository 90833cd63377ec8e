package mapping

import (
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/models"
)

// ToModelDocument converts a domain FinancialDocument header to its model row.
func ToModelDocument(d domain.FinancialDocument) models.FinancialDocument {
	return models.FinancialDocument{
		DocumentID:         d.DocumentID,
		DocumentType:       string(d.DocumentType),
		DocumentNumber:     d.DocumentNumber,
		LocationID:         d.LocationID,
		OrganizationID:     d.OrganizationID,
		JobID:              d.JobID,
		RecipientContactID: d.RecipientContactID,
		RecipientName:      d.RecipientName,
		RecipientAddress:   d.RecipientAddress,
		Date:               d.Date,
		DueAt:              d.DueAt,
		Reference:          d.Reference,
		Status:             string(d.Status),
		LockedAt:           d.LockedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model row to a domain FinancialDocument header.
func ToDomainDocument(m models.FinancialDocument) domain.FinancialDocument {
	return domain.FinancialDocument{
		DocumentID:         m.DocumentID,
		DocumentType:       domain.DocumentType(m.DocumentType),
		DocumentNumber:     m.DocumentNumber,
		LocationID:         m.LocationID,
		OrganizationID:     m.OrganizationID,
		JobID:              m.JobID,
		RecipientContactID: m.RecipientContactID,
		RecipientName:      m.RecipientName,
		RecipientAddress:   m.RecipientAddress,
		Date:               m.Date,
		DueAt:              m.DueAt,
		Reference:          m.Reference,
		Status:             domain.DocumentStatus(m.Status),
		LockedAt:           m.LockedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentItem converts a domain item to its model row.
func ToModelDocumentItem(d domain.DocumentItem) models.DocumentItem {
	return models.DocumentItem{
		ItemID:      d.ItemID,
		DocumentID:  d.DocumentID,
		GSCodeID:    d.GSCodeID,
		GLAccountID: d.GLAccountID,
		TaxRateID:   d.TaxRateID,
		TaxRate:     d.TaxRate,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitCost:    d.UnitCost,
		Discount:    d.Discount,
		Position:    d.Position,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocumentItem converts a model item row to a domain item.
func ToDomainDocumentItem(m models.DocumentItem) domain.DocumentItem {
	return domain.DocumentItem{
		ItemID:      m.ItemID,
		DocumentID:  m.DocumentID,
		GSCodeID:    m.GSCodeID,
		GLAccountID: m.GLAccountID,
		TaxRateID:   m.TaxRateID,
		TaxRate:     m.TaxRate,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		Discount:    m.Discount,
		Position:    m.Position,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDocumentItemSlice converts a slice of model item rows.
func ToDomainDocumentItemSlice(ms []models.DocumentItem) []domain.DocumentItem {
	ds := make([]domain.DocumentItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocumentItem(m)
	}
	return ds
}

// ToDomainStatusEntry converts a model status audit row.
func ToDomainStatusEntry(m models.DocumentStatusEntry) domain.DocumentStatusEntry {
	return domain.DocumentStatusEntry{
		StatusEntryID: m.StatusEntryID,
		DocumentID:    m.DocumentID,
		UserID:        m.UserID,
		Status:        domain.DocumentStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainApproveRequest converts a model approve request row.
func ToDomainApproveRequest(m models.ApproveRequest) domain.ApproveRequest {
	return domain.ApproveRequest{
		ApproveRequestID: m.ApproveRequestID,
		DocumentID:       m.DocumentID,
		RequesterID:      m.RequesterID,
		ApproverID:       m.ApproverID,
		ApprovedAt:       m.ApprovedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainApproveRequestSlice converts a slice of approve request rows.
func ToDomainApproveRequestSlice(ms []models.ApproveRequest) []domain.ApproveRequest {
	ds := make([]domain.ApproveRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApproveRequest(m)
	}
	return ds
}
