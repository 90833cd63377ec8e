package models

// AccountType is the immutable classification row referenced by GL accounts.
type AccountType struct {
	AccountTypeID         string `db:"account_type_id"`
	Name                  string `db:"name"`
	IncreaseActionIsDebit bool   `db:"increase_action_is_debit"`
	AuditFields
}

// GLAccount is a chart-of-accounts row. Balance is never stored; it is
// derived from transaction_records.
type GLAccount struct {
	GLAccountID             string  `db:"gl_account_id"`
	OrganizationID          string  `db:"organization_id"`
	AccountTypeID           string  `db:"account_type_id"`
	Code                    string  `db:"code"`
	Name                    string  `db:"name"`
	Description             string  `db:"description"`
	IsBankAccount           bool    `db:"is_bank_account"`
	EnablePaymentsToAccount bool    `db:"enable_payments_to_account"`
	IsActive                bool    `db:"is_active"`
	TaxRateID               *string `db:"tax_rate_id"`
	AuditFields

	// Joined columns from account_types, populated by repository queries.
	TypeName              string `db:"type_name"`
	IncreaseActionIsDebit bool   `db:"increase_action_is_debit"`
}
