// internal/circulation/policy_test.go
package circulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestStandardLoanPolicy(t *testing.T) {
	policy := StandardLoanPolicy{Days: 14}

	due := policy.DueDate(date(2025, 11, 1))
	assert.Equal(t, date(2025, 11, 15), due)
}

func TestStandardFinePolicy(t *testing.T) {
	policy := StandardFinePolicy{PencePerDay: 50}

	// 5 days late at 50p/day.
	assert.Equal(t, 250, policy.Fine(date(2025, 11, 15), date(2025, 11, 20)))

	// On time or early is never fined.
	assert.Equal(t, 0, policy.Fine(date(2025, 11, 15), date(2025, 11, 15)))
	assert.Equal(t, 0, policy.Fine(date(2025, 11, 15), date(2025, 11, 10)))
}

func TestFineMonotonicity(t *testing.T) {
	policy := StandardFinePolicy{PencePerDay: 50}
	due := date(2025, 11, 15)

	rapid.Check(t, func(t *rapid.T) {
		early := rapid.IntRange(-30, 365).Draw(t, "early")
		late := rapid.IntRange(0, 30).Draw(t, "late")

		a := policy.Fine(due, due.AddDate(0, 0, early))
		b := policy.Fine(due, due.AddDate(0, 0, early+late))

		if a < 0 {
			t.Fatalf("fine went negative: %d", a)
		}
		if b < a {
			t.Fatalf("fine decreased as return moved later: %d -> %d", a, b)
		}
		if early <= 0 && a != 0 {
			t.Fatalf("fine %d for a return on or before the due date", a)
		}
	})
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 5, DaysBetween(date(2025, 11, 15), date(2025, 11, 20)))
	assert.Equal(t, -5, DaysBetween(date(2025, 11, 20), date(2025, 11, 15)))
	assert.Equal(t, 0, DaysBetween(date(2025, 11, 15), date(2025, 11, 15)))

	// Time of day never changes the civil-date arithmetic.
	noon := time.Date(2025, 11, 20, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, 5, DaysBetween(date(2025, 11, 15), noon))
}
