package accounting

import (
	"fmt"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to a transaction record amount based
// on the account type's increase convention. A record whose debit/credit flag
// matches the type's increase action adds to the balance; otherwise it
// subtracts. Used by services and repositories alike so balance math stays
// consistent.
func SignedAmount(record domain.TransactionRecord, accountType domain.AccountType) decimal.Decimal {
	if record.IsDebit == accountType.IncreaseActionIsDebit {
		return record.Amount
	}
	return record.Amount.Neg()
}

// ValidateTransactionBalance checks the double-entry invariant for a set of
// transaction records: at least two legs, all amounts strictly positive, and
// debit and credit totals exactly equal.
func ValidateTransactionBalance(records []domain.TransactionRecord) error {
	if len(records) < 2 {
		return fmt.Errorf("transaction must have at least two records")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, rec := range records {
		if rec.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("record amount must be positive for account %s", rec.GLAccountID)
		}
		if rec.IsDebit {
			debits = debits.Add(rec.Amount)
		} else {
			credits = credits.Add(rec.Amount)
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("debits sum is %s and credits sum is %s", debits.String(), credits.String())
	}
	return nil
}

// SufficientFunds reports whether a balance covers a transfer amount. A
// transfer of exactly the current balance is allowed; only amounts strictly
// greater than the balance are insufficient.
func SufficientFunds(balance, amount decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(amount)
}

// SumBalance computes an account balance from its records given the account
// type convention. An account with no records has balance zero.
func SumBalance(records []domain.TransactionRecord, accountType domain.AccountType) decimal.Decimal {
	balance := decimal.Zero
	for _, rec := range records {
		balance = balance.Add(SignedAmount(rec, accountType))
	}
	return balance
}
