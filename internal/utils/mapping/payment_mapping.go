package mapping

import (
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/models"
)

// ToModelPayment converts a domain Payment to its model row.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		OrganizationID: d.OrganizationID,
		Type:           string(d.Type),
		Amount:         d.Amount,
		TransactionID:  d.TransactionID,
		Reference:      d.Reference,
		PaidAt:         d.PaidAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment row.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		OrganizationID: m.OrganizationID,
		Type:           domain.PaymentType(m.Type),
		Amount:         m.Amount,
		TransactionID:  m.TransactionID,
		Reference:      m.Reference,
		PaidAt:         m.PaidAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelForwardedPayment converts a domain ForwardedPayment to its model row.
func ToModelForwardedPayment(d domain.ForwardedPayment) models.ForwardedPayment {
	return models.ForwardedPayment{
		ForwardedPaymentID:     d.ForwardedPaymentID,
		OrganizationID:         d.OrganizationID,
		SourceGLAccountID:      d.SourceGLAccountID,
		DestinationGLAccountID: d.DestinationGLAccount,
		Amount:                 d.Amount,
		TransactionID:          d.TransactionID,
		Remittance:             d.Remittance,
		TransferredAt:          d.TransferredAt,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainForwardedPayment converts a model ForwardedPayment row.
func ToDomainForwardedPayment(m models.ForwardedPayment) domain.ForwardedPayment {
	return domain.ForwardedPayment{
		ForwardedPaymentID:   m.ForwardedPaymentID,
		OrganizationID:       m.OrganizationID,
		SourceGLAccountID:    m.SourceGLAccountID,
		DestinationGLAccount: m.DestinationGLAccountID,
		Amount:               m.Amount,
		TransactionID:        m.TransactionID,
		Remittance:           m.Remittance,
		TransferredAt:        m.TransferredAt,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
