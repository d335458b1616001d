// internal/circulation/domain.go
package circulation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"libris/internal/liberr"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanOutstanding LoanStatus = "outstanding"
	LoanReturned    LoanStatus = "returned"
)

// ReservationStatus is the lifecycle state of a reservation. Fulfilled and
// cancelled are terminal.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationFulfilled ReservationStatus = "fulfilled"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Loan records one member borrowing one media item for a bounded period.
// Loans are closed on return, never deleted.
type Loan struct {
	ID          uuid.UUID  `json:"id"`
	MemberID    uuid.UUID  `json:"member_id"`
	MediaID     uuid.UUID  `json:"media_id"`
	LoanDate    time.Time  `json:"loan_date"`
	DueDate     time.Time  `json:"due_date"`
	ReturnDate  time.Time  `json:"return_date,omitempty"`
	Status      LoanStatus `json:"status"`
	FineAccrued int        `json:"fine_accrued"` // pence
}

// NewLoan creates an outstanding loan. The due date may not precede the
// loan date.
func NewLoan(memberID, mediaID uuid.UUID, loanDate, dueDate time.Time) (*Loan, error) {
	if dueDate.Before(loanDate) {
		return nil, fmt.Errorf("%w: due date cannot precede loan date", liberr.ErrValidation)
	}
	return &Loan{
		ID:       uuid.New(),
		MemberID: memberID,
		MediaID:  mediaID,
		LoanDate: loanDate,
		DueDate:  dueDate,
		Status:   LoanOutstanding,
	}, nil
}

// MarkReturned closes the loan, recording the return date and the fine in
// one transition so a fine can never be recorded on an open loan. A second
// call fails with a conflict.
func (l *Loan) MarkReturned(returnDate time.Time, finePence int) error {
	if l.Status == LoanReturned {
		return fmt.Errorf("%w: loan %s is already returned", liberr.ErrConflict, l.ID)
	}
	if finePence < 0 {
		return fmt.Errorf("%w: fine cannot be negative", liberr.ErrValidation)
	}
	l.ReturnDate = returnDate
	l.FineAccrued = finePence
	l.Status = LoanReturned
	return nil
}

// Overdue reports whether the loan is still outstanding past its due date
// as of the reference date.
func (l *Loan) Overdue(ref time.Time) bool {
	return l.Status == LoanOutstanding && ref.After(l.DueDate)
}

// Reservation is a member's queued claim on a media item, served in strict
// creation order.
type Reservation struct {
	ID          uuid.UUID         `json:"id"`
	MemberID    uuid.UUID         `json:"member_id"`
	MediaID     uuid.UUID         `json:"media_id"`
	CreatedDate time.Time         `json:"created_date"`
	Status      ReservationStatus `json:"status"`
}

// NewReservation creates an active reservation.
func NewReservation(memberID, mediaID uuid.UUID, createdDate time.Time) *Reservation {
	return &Reservation{
		ID:          uuid.New(),
		MemberID:    memberID,
		MediaID:     mediaID,
		CreatedDate: createdDate,
		Status:      ReservationActive,
	}
}

// Fulfil marks the reservation fulfilled. Terminal states are final.
func (r *Reservation) Fulfil() error {
	if r.Status != ReservationActive {
		return fmt.Errorf("%w: reservation %s is already %s", liberr.ErrConflict, r.ID, r.Status)
	}
	r.Status = ReservationFulfilled
	return nil
}

// Cancel marks the reservation cancelled. Terminal states are final.
func (r *Reservation) Cancel() error {
	if r.Status != ReservationActive {
		return fmt.Errorf("%w: reservation %s is already %s", liberr.ErrConflict, r.ID, r.Status)
	}
	r.Status = ReservationCancelled
	return nil
}
