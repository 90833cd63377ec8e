package domain_test

import (
	"testing"
	"time"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAccountingOrganization_LockBoundary(t *testing.T) {
	tests := []struct {
		name    string
		lockDay int
		today   time.Time
		want    time.Time
	}{
		{
			name:    "today past lock day uses current month",
			lockDay: 15,
			today:   date(2026, time.March, 20),
			want:    date(2026, time.March, 15),
		},
		{
			name:    "today exactly on lock day uses current month",
			lockDay: 15,
			today:   date(2026, time.March, 15),
			want:    date(2026, time.March, 15),
		},
		{
			name:    "today before lock day uses previous month",
			lockDay: 15,
			today:   date(2026, time.March, 10),
			want:    date(2026, time.February, 15),
		},
		{
			name:    "january before lock day crosses into december",
			lockDay: 20,
			today:   date(2026, time.January, 5),
			want:    date(2025, time.December, 20),
		},
		{
			name:    "lock day 31 clamps to end of february",
			lockDay: 31,
			today:   date(2026, time.March, 10),
			want:    date(2026, time.February, 28),
		},
		{
			name:    "lock day 31 clamps in leap february",
			lockDay: 31,
			today:   date(2024, time.March, 1),
			want:    date(2024, time.February, 29),
		},
		{
			name:    "lock day 1 always current month",
			lockDay: 1,
			today:   date(2026, time.June, 1),
			want:    date(2026, time.June, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := domain.AccountingOrganization{LockDayOfMonth: tt.lockDay}
			assert.Equal(t, tt.want, org.LockBoundary(tt.today))
		})
	}
}

func TestAccountingOrganization_ServesLocation(t *testing.T) {
	org := domain.AccountingOrganization{LocationIDs: []string{"loc-1", "loc-2"}}
	assert.True(t, org.ServesLocation("loc-2"))
	assert.False(t, org.ServesLocation("loc-3"))
}
