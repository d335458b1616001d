// internal/circulation/policy.go
package circulation

import "time"

// LoanPolicy computes the due date for a loan started on the given date.
// Implementations must be pure.
type LoanPolicy interface {
	DueDate(loanDate time.Time) time.Time
}

// FinePolicy computes the fine, in pence, for an item due on dueDate and
// returned on returnDate. The result is never negative and is zero
// whenever the return is on or before the due date.
type FinePolicy interface {
	Fine(dueDate, returnDate time.Time) int
}

// StandardLoanPolicy grants a fixed number of days per loan.
type StandardLoanPolicy struct {
	Days int
}

func (p StandardLoanPolicy) DueDate(loanDate time.Time) time.Time {
	return loanDate.AddDate(0, 0, p.Days)
}

// StandardFinePolicy charges a flat rate per day late.
type StandardFinePolicy struct {
	PencePerDay int
}

func (p StandardFinePolicy) Fine(dueDate, returnDate time.Time) int {
	late := DaysBetween(dueDate, returnDate)
	if late < 0 {
		late = 0
	}
	return late * p.PencePerDay
}

// Day truncates t to a civil date: midnight UTC. All loan arithmetic works
// on civil dates so a same-day return is never late.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole days from one civil date to another. The result
// is negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)) / (24 * time.Hour))
}
