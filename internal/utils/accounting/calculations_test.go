package accounting_test

import (
	"testing"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	assetType     = domain.AccountType{Name: "Asset", IncreaseActionIsDebit: true}
	liabilityType = domain.AccountType{Name: "Liability", IncreaseActionIsDebit: false}
)

func amt(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		record      domain.TransactionRecord
		accountType domain.AccountType
		want        string
	}{
		{"debit to asset increases", domain.TransactionRecord{Amount: amt("120.00"), IsDebit: true}, assetType, "120.00"},
		{"credit to asset decreases", domain.TransactionRecord{Amount: amt("50.00"), IsDebit: false}, assetType, "-50.00"},
		{"credit to liability increases", domain.TransactionRecord{Amount: amt("75.25"), IsDebit: false}, liabilityType, "75.25"},
		{"debit to liability decreases", domain.TransactionRecord{Amount: amt("75.25"), IsDebit: true}, liabilityType, "-75.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.SignedAmount(tt.record, tt.accountType)
			assert.True(t, amt(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestSumBalance(t *testing.T) {
	// Asset account: one debit of 120.00 then a credit of 50.00 -> 70.00.
	records := []domain.TransactionRecord{
		{Amount: amt("120.00"), IsDebit: true},
	}
	assert.True(t, amt("120.00").Equal(accounting.SumBalance(records, assetType)))

	records = append(records, domain.TransactionRecord{Amount: amt("50.00"), IsDebit: false})
	assert.True(t, amt("70.00").Equal(accounting.SumBalance(records, assetType)))

	// No records -> zero, not an error.
	assert.True(t, accounting.SumBalance(nil, assetType).IsZero())
}

func TestSufficientFunds(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    bool
	}{
		{"amount below balance", "100.00", "99.99", true},
		{"amount equal to balance", "100.00", "100.00", true},
		{"amount just above balance", "100.00", "100.01", false},
		{"zero balance rejects any amount", "0", "0.01", false},
		{"zero amount on zero balance", "0", "0", true},
		{"exact equality with trailing precision", "70.10", "70.1000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.SufficientFunds(amt(tt.balance), amt(tt.amount)))
		})
	}
}

func TestValidateTransactionBalance(t *testing.T) {
	balanced := []domain.TransactionRecord{
		{GLAccountID: "bank", Amount: amt("110.00"), IsDebit: true},
		{GLAccountID: "receivable", Amount: amt("100.00"), IsDebit: false},
		{GLAccountID: "tax", Amount: amt("10.00"), IsDebit: false},
	}
	assert.NoError(t, accounting.ValidateTransactionBalance(balanced))

	unbalanced := []domain.TransactionRecord{
		{GLAccountID: "bank", Amount: amt("110.00"), IsDebit: true},
		{GLAccountID: "receivable", Amount: amt("100.00"), IsDebit: false},
	}
	assert.Error(t, accounting.ValidateTransactionBalance(unbalanced))

	single := []domain.TransactionRecord{
		{GLAccountID: "bank", Amount: amt("10.00"), IsDebit: true},
	}
	assert.Error(t, accounting.ValidateTransactionBalance(single))

	negative := []domain.TransactionRecord{
		{GLAccountID: "bank", Amount: amt("-5.00"), IsDebit: true},
		{GLAccountID: "receivable", Amount: amt("-5.00"), IsDebit: false},
	}
	assert.Error(t, accounting.ValidateTransactionBalance(negative))
}
