package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one balanced financial event within an accounting
// organization (a payment, an approval posting, a fund transfer). It is
// composed of at least two TransactionRecords whose debit and credit legs
// sum to the same amount.
type Transaction struct {
	TransactionID   string    `json:"transactionID"`
	OrganizationID  string    `json:"organizationID"` // FK -> accounting_organizations
	TransactionDate time.Time `json:"transactionDate"`
	Notes           string    `json:"notes"`
	AuditFields

	Records []TransactionRecord `json:"records,omitempty"`
}

// TransactionRecord is a single debit or credit leg against one GL account.
type TransactionRecord struct {
	RecordID      string          `json:"recordID"`
	TransactionID string          `json:"transactionID"`
	GLAccountID   string          `json:"glAccountID"`
	Amount        decimal.Decimal `json:"amount"` // Always positive
	IsDebit       bool            `json:"isDebit"`
	AuditFields
}

// DebitTotal sums the debit legs of the transaction.
func (t *Transaction) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Records {
		if r.IsDebit {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// CreditTotal sums the credit legs of the transaction.
func (t *Transaction) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Records {
		if !r.IsDebit {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// IsBalanced reports whether debit and credit legs sum to the same amount.
// Uses exact decimal comparison.
func (t *Transaction) IsBalanced() bool {
	return t.DebitTotal().Equal(t.CreditTotal())
}
