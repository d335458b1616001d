// internal/circulation/domain_test.go
package circulation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/liberr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewLoanRejectsDueBeforeLoanDate(t *testing.T) {
	_, err := NewLoan(uuid.New(), uuid.New(), date(2025, 11, 10), date(2025, 11, 1))
	require.ErrorIs(t, err, liberr.ErrValidation)
}

func TestMarkReturned(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), date(2025, 11, 10), date(2025, 11, 25))
	require.NoError(t, err)

	returnDate := date(2025, 11, 20)
	require.NoError(t, loan.MarkReturned(returnDate, 0))

	assert.Equal(t, LoanReturned, loan.Status)
	assert.Equal(t, returnDate, loan.ReturnDate)
}

func TestMarkReturnedCannotBeCalledTwice(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), date(2025, 11, 1), date(2025, 11, 10))
	require.NoError(t, err)

	require.NoError(t, loan.MarkReturned(date(2025, 11, 20), 500))

	err = loan.MarkReturned(date(2025, 11, 21), 550)
	require.ErrorIs(t, err, liberr.ErrConflict)
	assert.Equal(t, date(2025, 11, 20), loan.ReturnDate)
	assert.Equal(t, 500, loan.FineAccrued)
}

func TestMarkReturnedRejectsNegativeFine(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), date(2025, 11, 1), date(2025, 11, 10))
	require.NoError(t, err)

	err = loan.MarkReturned(date(2025, 11, 20), -1)
	require.ErrorIs(t, err, liberr.ErrValidation)
	assert.Equal(t, LoanOutstanding, loan.Status)
}

func TestOverdue(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), date(2025, 11, 10), date(2025, 11, 20))
	require.NoError(t, err)

	assert.False(t, loan.Overdue(date(2025, 11, 15)))
	assert.False(t, loan.Overdue(date(2025, 11, 20)))
	assert.True(t, loan.Overdue(date(2025, 11, 25)))

	require.NoError(t, loan.MarkReturned(date(2025, 11, 25), 250))
	assert.False(t, loan.Overdue(date(2025, 11, 26)), "returned loans are never overdue")
}

func TestReservationTransitionsAreTerminal(t *testing.T) {
	r := NewReservation(uuid.New(), uuid.New(), date(2025, 11, 1))
	require.Equal(t, ReservationActive, r.Status)

	require.NoError(t, r.Fulfil())
	assert.Equal(t, ReservationFulfilled, r.Status)
	require.ErrorIs(t, r.Fulfil(), liberr.ErrConflict)
	require.ErrorIs(t, r.Cancel(), liberr.ErrConflict)

	c := NewReservation(uuid.New(), uuid.New(), date(2025, 11, 1))
	require.NoError(t, c.Cancel())
	assert.Equal(t, ReservationCancelled, c.Status)
	require.ErrorIs(t, c.Fulfil(), liberr.ErrConflict)
}
