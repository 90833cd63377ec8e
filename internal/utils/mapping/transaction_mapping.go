package mapping

import (
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/models"
)

// ToModelTransaction converts a domain Transaction header to its model row.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		OrganizationID:  d.OrganizationID,
		TransactionDate: d.TransactionDate,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model row to a domain Transaction header.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		OrganizationID:  m.OrganizationID,
		TransactionDate: m.TransactionDate,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionRecord converts a domain record leg to its model row.
func ToModelTransactionRecord(d domain.TransactionRecord) models.TransactionRecord {
	return models.TransactionRecord{
		RecordID:      d.RecordID,
		TransactionID: d.TransactionID,
		GLAccountID:   d.GLAccountID,
		Amount:        d.Amount,
		IsDebit:       d.IsDebit,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionRecord converts a model row to a domain record leg.
func ToDomainTransactionRecord(m models.TransactionRecord) domain.TransactionRecord {
	return domain.TransactionRecord{
		RecordID:      m.RecordID,
		TransactionID: m.TransactionID,
		GLAccountID:   m.GLAccountID,
		Amount:        m.Amount,
		IsDebit:       m.IsDebit,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionRecordSlice converts a slice of model record rows.
func ToDomainTransactionRecordSlice(ms []models.TransactionRecord) []domain.TransactionRecord {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionRecord(m)
	}
	return ds
}
