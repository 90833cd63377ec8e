package mapping

import (
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/models"
)

// ToModelGLAccount converts a domain GLAccount to its model row.
func ToModelGLAccount(d domain.GLAccount) models.GLAccount {
	return models.GLAccount{
		GLAccountID:             d.GLAccountID,
		OrganizationID:          d.OrganizationID,
		AccountTypeID:           d.AccountTypeID,
		Code:                    d.Code,
		Name:                    d.Name,
		Description:             d.Description,
		IsBankAccount:           d.IsBankAccount,
		EnablePaymentsToAccount: d.EnablePaymentsToAccount,
		IsActive:                d.IsActive,
		TaxRateID:               d.TaxRateID,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGLAccount converts a model row (with joined type columns) to a
// domain GLAccount with its AccountType resolved.
func ToDomainGLAccount(m models.GLAccount) domain.GLAccount {
	return domain.GLAccount{
		GLAccountID:             m.GLAccountID,
		OrganizationID:          m.OrganizationID,
		AccountTypeID:           m.AccountTypeID,
		Code:                    m.Code,
		Name:                    m.Name,
		Description:             m.Description,
		IsBankAccount:           m.IsBankAccount,
		EnablePaymentsToAccount: m.EnablePaymentsToAccount,
		IsActive:                m.IsActive,
		TaxRateID:               m.TaxRateID,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
		AccountType: &domain.AccountType{
			AccountTypeID:         m.AccountTypeID,
			Name:                  m.TypeName,
			IncreaseActionIsDebit: m.IncreaseActionIsDebit,
		},
	}
}

// ToDomainAccountType converts a model account type row.
func ToDomainAccountType(m models.AccountType) domain.AccountType {
	return domain.AccountType{
		AccountTypeID:         m.AccountTypeID,
		Name:                  m.Name,
		IncreaseActionIsDebit: m.IncreaseActionIsDebit,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOrganization converts a model organization row.
func ToDomainOrganization(m models.AccountingOrganization, locationIDs []string) domain.AccountingOrganization {
	return domain.AccountingOrganization{
		OrganizationID:              m.OrganizationID,
		Name:                        m.Name,
		LockDayOfMonth:              m.LockDayOfMonth,
		IsActive:                    m.IsActive,
		TaxPayableAccountID:         m.TaxPayableAccountID,
		AccountsReceivableAccountID: m.AccountsReceivableAccountID,
		PaymentDetailsAccountID:     m.PaymentDetailsAccountID,
		LocationIDs:                 locationIDs,
		AuditFields:                 ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaxRate converts a model tax rate row.
func ToDomainTaxRate(m models.TaxRate) domain.TaxRate {
	return domain.TaxRate{
		TaxRateID:   m.TaxRateID,
		Name:        m.Name,
		Rate:        m.Rate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
