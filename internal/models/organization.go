package models

import "github.com/shopspring/decimal"

// AccountingOrganization is an organization row plus its designated accounts.
type AccountingOrganization struct {
	OrganizationID              string `db:"organization_id"`
	Name                        string `db:"name"`
	LockDayOfMonth              int    `db:"lock_day_of_month"`
	IsActive                    bool   `db:"is_active"`
	TaxPayableAccountID         string `db:"tax_payable_account_id"`
	AccountsReceivableAccountID string `db:"accounts_receivable_account_id"`
	PaymentDetailsAccountID     string `db:"payment_details_account_id"`
	AuditFields
}

// TaxRate is a named tax percentage.
type TaxRate struct {
	TaxRateID string          `db:"tax_rate_id"`
	Name      string          `db:"name"`
	Rate      decimal.Decimal `db:"rate"`
	AuditFields
}
