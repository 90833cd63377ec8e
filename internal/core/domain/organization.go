package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingOrganization is a legal/billing entity owning its own chart of
// accounts and period-lock schedule.
type AccountingOrganization struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	// LockDayOfMonth (1-31) defines the monthly period-close boundary.
	LockDayOfMonth int  `json:"lockDayOfMonth"`
	IsActive       bool `json:"isActive"`

	// Designated accounts used by approval postings and payment processing.
	TaxPayableAccountID         string `json:"taxPayableAccountID"`
	AccountsReceivableAccountID string `json:"accountsReceivableAccountID"`
	PaymentDetailsAccountID     string `json:"paymentDetailsAccountID"`

	// LocationIDs are the locations this organization serves (many-to-many).
	LocationIDs []string `json:"locationIDs,omitempty"`
	AuditFields
}

// ServesLocation reports whether the organization is attached to locationID.
func (o *AccountingOrganization) ServesLocation(locationID string) bool {
	for _, id := range o.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// LockBoundary computes the current period-close boundary for the
// organization as of "today": if today's day-of-month has reached the lock
// day, the boundary is the lock day of the current month, otherwise the lock
// day of the previous month. Lock days past the end of a month clamp to that
// month's last day (a lock day of 31 means end of month).
func (o *AccountingOrganization) LockBoundary(today time.Time) time.Time {
	year, month, day := today.Date()
	if day >= o.LockDayOfMonth {
		return dayOfMonth(year, month, o.LockDayOfMonth, today.Location())
	}
	// Walk back to the previous month.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	prev := firstOfMonth.AddDate(0, -1, 0)
	return dayOfMonth(prev.Year(), prev.Month(), o.LockDayOfMonth, today.Location())
}

// dayOfMonth returns midnight of the given day, clamped to the month length.
func dayOfMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// TaxRate is a named tax percentage applied to document items.
type TaxRate struct {
	TaxRateID string `json:"taxRateID"`
	Name      string `json:"name"`
	// Rate is the fractional rate, e.g. 0.10 for 10%.
	Rate decimal.Decimal `json:"rate"`
	AuditFields
}
