package domain

// Well-known GL account codes referenced by the payment processor.
// Codes are unique within an accounting organization.
const (
	ClearingAccountCode          = "CLEARING_ACCOUNT"
	FranchisePaymentsAccountCode = "FRANCHISE_PAYMENTS_ACCOUNT"
)

// AccountType is the immutable accounting classification of a GL account
// (Asset, Liability, Revenue, ...). IncreaseActionIsDebit defines whether a
// debit record increases the balance of accounts of this type.
type AccountType struct {
	AccountTypeID         string `json:"accountTypeID"`
	Name                  string `json:"name"`
	IncreaseActionIsDebit bool   `json:"increaseActionIsDebit"`
	AuditFields
}

// GLAccount is a named bucket in an accounting organization's chart of
// accounts. Its balance is derived from transaction records, never stored.
type GLAccount struct {
	GLAccountID             string  `json:"glAccountID"`
	OrganizationID          string  `json:"organizationID"` // FK -> accounting_organizations
	AccountTypeID           string  `json:"accountTypeID"`  // FK -> account_types
	Code                    string  `json:"code"`           // Unique within organization
	Name                    string  `json:"name"`
	Description             string  `json:"description"`
	IsBankAccount           bool    `json:"isBankAccount"`
	EnablePaymentsToAccount bool    `json:"enablePaymentsToAccount"`
	IsActive                bool    `json:"isActive"`
	TaxRateID               *string `json:"taxRateID"` // Nullable FK -> tax_rates
	AuditFields

	// AccountType is resolved alongside the account by repositories so sign
	// conventions are available without a second lookup.
	AccountType *AccountType `json:"accountType,omitempty"`
}

// IncreaseActionIsDebit reports the debit/credit convention for the account.
// Requires AccountType to be resolved; unresolved accounts behave like
// credit-increase accounts, so callers must fetch accounts via repositories
// that join the type.
func (a *GLAccount) IncreaseActionIsDebit() bool {
	return a.AccountType != nil && a.AccountType.IncreaseActionIsDebit
}
