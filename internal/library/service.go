// internal/library/service.go
package library

import (
	"context"

	"github.com/google/uuid"

	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/membership"
)

// Service is the circulation desk aggregate: the single owner of the
// catalogue, the membership roster, the loan ledger, and the per-item
// reservation queues. Every cross-entity invariant is enforced here, and
// every operation either fully applies or leaves state untouched.
type Service interface {
	// Catalogue.
	AddItem(ctx context.Context, item *catalog.Item) (*catalog.Item, error)
	RemoveItem(ctx context.Context, mediaID uuid.UUID) error
	ListItems(ctx context.Context) []*catalog.Item
	SearchMedia(ctx context.Context, query string) []*catalog.Item

	// Roster.
	AddMember(ctx context.Context, member *membership.Member) (*membership.Member, error)
	RegisterMember(ctx context.Context, name, email, password string) (*membership.Member, error)
	Authenticate(ctx context.Context, email, password string) (*membership.Member, error)
	DeactivateMember(ctx context.Context, memberID uuid.UUID) (*membership.Member, error)
	RemoveMember(ctx context.Context, memberID uuid.UUID) error
	ListMembers(ctx context.Context) []*membership.Member
	SearchMembers(ctx context.Context, query string) []*membership.Member
	AddLibrarian(ctx context.Context, librarian *membership.Librarian) (*membership.Librarian, error)
	ListLibrarians(ctx context.Context) []*membership.Librarian

	// Circulation.
	LoanItem(ctx context.Context, memberID, mediaID uuid.UUID) (*circulation.Loan, error)
	ReturnItem(ctx context.Context, mediaID uuid.UUID) (*circulation.Loan, error)
	FindOpenLoan(ctx context.Context, mediaID uuid.UUID) (*circulation.Loan, error)

	// Reservations.
	PlaceReservation(ctx context.Context, memberID, mediaID uuid.UUID) (*circulation.Reservation, error)
	CancelReservation(ctx context.Context, reservationID uuid.UUID) (*circulation.Reservation, error)
	FulfillReservation(ctx context.Context, mediaID uuid.UUID) (bool, error)
}
