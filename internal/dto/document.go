package dto

import (
	"time"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentItemRequest is one line of a document creation request.
type CreateDocumentItemRequest struct {
	GSCodeID    string          `json:"gsCodeID" binding:"required"`
	GLAccountID string          `json:"glAccountID" binding:"required"`
	TaxRateID   *string         `json:"taxRateID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unitCost" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
}

// CreateDocumentRequest creates an invoice, credit note or purchase order in
// DRAFT status.
type CreateDocumentRequest struct {
	DocumentType       domain.DocumentType         `json:"documentType" binding:"required,doctype"`
	DocumentNumber     string                      `json:"documentNumber" binding:"required"`
	LocationID         string                      `json:"locationID" binding:"required"`
	OrganizationID     string                      `json:"organizationID" binding:"required"`
	JobID              *string                     `json:"jobID"`
	RecipientContactID string                      `json:"recipientContactID" binding:"required"`
	RecipientName      string                      `json:"recipientName"`
	RecipientAddress   string                      `json:"recipientAddress"`
	Date               time.Time                   `json:"date" binding:"required"`
	DueAt              *time.Time                  `json:"dueAt"`
	Reference          string                      `json:"reference"`
	Items              []CreateDocumentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateDocumentRequest patches a document header and optionally replaces its
// items. Nil fields are left untouched. Location, organization and document
// number are immutable and deliberately absent.
type UpdateDocumentRequest struct {
	RecipientContactID *string                     `json:"recipientContactID"`
	RecipientName      *string                     `json:"recipientName"`
	RecipientAddress   *string                     `json:"recipientAddress"`
	Date               *time.Time                  `json:"date"`
	DueAt              *time.Time                  `json:"dueAt"`
	Reference          *string                     `json:"reference"`
	Items              []CreateDocumentItemRequest `json:"items"`
}

// DocumentItemResponse is one line of a document response.
type DocumentItemResponse struct {
	ItemID      string          `json:"itemID"`
	GSCodeID    string          `json:"gsCodeID"`
	GLAccountID string          `json:"glAccountID"`
	TaxRateID   *string         `json:"taxRateID"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Discount    decimal.Decimal `json:"discount"`
	Position    int             `json:"position"`
	Total       decimal.Decimal `json:"total"`
}

// DocumentResponse is the API shape of a financial document.
type DocumentResponse struct {
	DocumentID         string                 `json:"documentID"`
	DocumentType       domain.DocumentType    `json:"documentType"`
	DocumentNumber     string                 `json:"documentNumber"`
	LocationID         string                 `json:"locationID"`
	OrganizationID     string                 `json:"organizationID"`
	JobID              *string                `json:"jobID,omitempty"`
	RecipientContactID string                 `json:"recipientContactID"`
	RecipientName      string                 `json:"recipientName"`
	RecipientAddress   string                 `json:"recipientAddress"`
	Date               time.Time              `json:"date"`
	DueAt              *time.Time             `json:"dueAt,omitempty"`
	Reference          string                 `json:"reference"`
	Status             domain.DocumentStatus  `json:"status"`
	LockedAt           *time.Time             `json:"lockedAt,omitempty"`
	SubTotal           decimal.Decimal        `json:"subTotal"`
	TaxAmount          decimal.Decimal        `json:"taxAmount"`
	Total              decimal.Decimal        `json:"total"`
	Items              []DocumentItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time              `json:"createdAt"`
}

// ListDocumentsParams controls document listing.
type ListDocumentsParams struct {
	DocumentType *domain.DocumentType
	Limit        int
	NextToken    *string
}

// ListDocumentsResponse is a page of documents plus the next-page cursor.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentResponse converts a domain document to its API shape.
func ToDocumentResponse(d *domain.FinancialDocument) DocumentResponse {
	items := make([]DocumentItemResponse, len(d.Items))
	for i := range d.Items {
		it := &d.Items[i]
		items[i] = DocumentItemResponse{
			ItemID:      it.ItemID,
			GSCodeID:    it.GSCodeID,
			GLAccountID: it.GLAccountID,
			TaxRateID:   it.TaxRateID,
			TaxRate:     it.TaxRate,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Discount:    it.Discount,
			Position:    it.Position,
			Total:       it.Total(),
		}
	}
	return DocumentResponse{
		DocumentID:         d.DocumentID,
		DocumentType:       d.DocumentType,
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
		Status:             d.Status,
		LockedAt:           d.LockedAt,
		SubTotal:           d.SubTotalAmount(),
		TaxAmount:          d.TaxAmount(),
		Total:              d.TotalAmount(),
		Items:              items,
		CreatedAt:          d.CreatedAt,
	}
}
