// internal/library/implementation.go
package library

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/liberr"
	"libris/internal/membership"
)

// service implements the Service interface. All collections are owned
// exclusively by the aggregate; callers only ever see copies. A single
// mutex serialises operations so no caller can observe a half-applied
// transition.
type service struct {
	mu sync.Mutex

	loanPolicy circulation.LoanPolicy
	finePolicy circulation.FinePolicy

	items     map[uuid.UUID]*catalog.Item
	itemOrder []uuid.UUID

	members        map[uuid.UUID]*membership.Member
	memberOrder    []uuid.UUID
	membersByEmail map[string]uuid.UUID
	credentials    map[uuid.UUID]*membership.Credential
	librarians     []*membership.Librarian

	loans     map[uuid.UUID]*circulation.Loan
	loanOrder []uuid.UUID

	queues       map[uuid.UUID][]*circulation.Reservation
	reservations map[uuid.UUID]*circulation.Reservation

	now             func() time.Time
	registerLimiter *rate.Limiter
	tracer          trace.Tracer
}

// Option configures optional service behaviour.
type Option func(*service)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithRegistrationLimiter overrides the member-registration rate limiter.
func WithRegistrationLimiter(l *rate.Limiter) Option {
	return func(s *service) {
		s.registerLimiter = l
	}
}

// NewService creates the circulation desk aggregate. Both policies are
// required.
func NewService(loanPolicy circulation.LoanPolicy, finePolicy circulation.FinePolicy, opts ...Option) (Service, error) {
	if loanPolicy == nil || finePolicy == nil {
		return nil, fmt.Errorf("%w: loan and fine policies are required", liberr.ErrValidation)
	}

	s := &service{
		loanPolicy:      loanPolicy,
		finePolicy:      finePolicy,
		items:           make(map[uuid.UUID]*catalog.Item),
		members:         make(map[uuid.UUID]*membership.Member),
		membersByEmail:  make(map[string]uuid.UUID),
		credentials:     make(map[uuid.UUID]*membership.Credential),
		loans:           make(map[uuid.UUID]*circulation.Loan),
		queues:          make(map[uuid.UUID][]*circulation.Reservation),
		reservations:    make(map[uuid.UUID]*circulation.Reservation),
		now:             time.Now,
		registerLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5),
		tracer:          otel.Tracer("libris/library"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// today is the current civil date.
func (s *service) today() time.Time {
	return circulation.Day(s.now())
}

// ---------------------------------------------------------------- catalogue

// AddItem inserts an item into the catalogue under its id.
func (s *service) AddItem(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: item is required", liberr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		s.itemOrder = append(s.itemOrder, item.ID)
	}
	stored := cloneItem(item)
	s.items[item.ID] = stored
	return cloneItem(stored), nil
}

// RemoveItem deletes an item that is available and has no active
// reservation.
func (s *service) RemoveItem(ctx context.Context, mediaID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[mediaID]
	if !ok {
		return fmt.Errorf("%w: media item %s", liberr.ErrNotFound, mediaID)
	}
	if !item.Available() {
		return fmt.Errorf("%w: cannot remove item %s while %s", liberr.ErrConflict, mediaID, item.Status)
	}
	if s.hasActiveReservation(mediaID) {
		return fmt.Errorf("%w: cannot remove item %s with an active reservation", liberr.ErrConflict, mediaID)
	}

	delete(s.items, mediaID)
	s.itemOrder = removeID(s.itemOrder, mediaID)
	return nil
}

// ListItems returns the catalogue in insertion order.
func (s *service) ListItems(ctx context.Context) []*catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*catalog.Item, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		out = append(out, cloneItem(s.items[id]))
	}
	return out
}

// SearchMedia finds items whose title, author, or publisher contains the
// query, case-insensitively, in catalogue insertion order.
func (s *service) SearchMedia(ctx context.Context, query string) []*catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*catalog.Item
	for _, id := range s.itemOrder {
		if s.items[id].Matches(query) {
			out = append(out, cloneItem(s.items[id]))
		}
	}
	return out
}

// ------------------------------------------------------------------ roster

// AddMember inserts a fully-constructed member into the roster.
func (s *service) AddMember(ctx context.Context, member *membership.Member) (*membership.Member, error) {
	if member == nil {
		return nil, fmt.Errorf("%w: member is required", liberr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addMemberLocked(member)
}

func (s *service) addMemberLocked(member *membership.Member) (*membership.Member, error) {
	email := strings.ToLower(member.Email)
	if existing, taken := s.membersByEmail[email]; taken && existing != member.ID {
		return nil, fmt.Errorf("%w: email %s is already registered", liberr.ErrConflict, member.Email)
	}

	if _, exists := s.members[member.ID]; !exists {
		s.memberOrder = append(s.memberOrder, member.ID)
	}
	stored := *member
	s.members[member.ID] = &stored
	s.membersByEmail[email] = member.ID
	copied := stored
	return &copied, nil
}

// RegisterMember creates a member with a hashed credential. Registration
// bursts are rate limited.
func (s *service) RegisterMember(ctx context.Context, name, email, password string) (*membership.Member, error) {
	ctx, span := s.tracer.Start(ctx, "library.register_member")
	defer span.End()

	if !s.registerLimiter.Allow() {
		return nil, ErrRateLimited
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", liberr.ErrValidation)
	}

	member, err := membership.NewMember(name, email)
	if err != nil {
		return nil, err
	}
	credential, err := membership.NewCredential(member.ID, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	registered, err := s.addMemberLocked(member)
	if err != nil {
		return nil, err
	}
	s.credentials[member.ID] = credential
	span.SetAttributes(attribute.String("member.id", member.ID.String()))
	return registered, nil
}

// Authenticate verifies a member's login against the stored credential.
func (s *service) Authenticate(ctx context.Context, email, password string) (*membership.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.membersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	credential, ok := s.credentials[id]
	if !ok {
		return nil, ErrInvalidCredentials
	}

	match, err := credential.Verify(password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	member := *s.members[id]
	return &member, nil
}

// DeactivateMember switches a member to inactive. Inactive members keep
// their loan history but can no longer borrow or reserve.
func (s *service) DeactivateMember(ctx context.Context, memberID uuid.UUID) (*membership.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("%w: member %s", liberr.ErrNotFound, memberID)
	}
	member.Active = false
	copied := *member
	return &copied, nil
}

// RemoveMember deletes a member with no outstanding loans.
func (s *service) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return fmt.Errorf("%w: member %s", liberr.ErrNotFound, memberID)
	}
	for _, id := range s.loanOrder {
		loan := s.loans[id]
		if loan.MemberID == memberID && loan.Status == circulation.LoanOutstanding {
			return fmt.Errorf("%w: member %s has outstanding loans", liberr.ErrConflict, memberID)
		}
	}

	delete(s.members, memberID)
	delete(s.credentials, memberID)
	delete(s.membersByEmail, strings.ToLower(member.Email))
	s.memberOrder = removeID(s.memberOrder, memberID)
	return nil
}

// ListMembers returns the roster in registration order.
func (s *service) ListMembers(ctx context.Context) []*membership.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*membership.Member, 0, len(s.memberOrder))
	for _, id := range s.memberOrder {
		member := *s.members[id]
		out = append(out, &member)
	}
	return out
}

// SearchMembers finds members whose name or email contains the query,
// case-insensitively, in registration order.
func (s *service) SearchMembers(ctx context.Context, query string) []*membership.Member {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*membership.Member
	if q == "" {
		return out
	}
	for _, id := range s.memberOrder {
		m := s.members[id]
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Email), q) {
			member := *m
			out = append(out, &member)
		}
	}
	return out
}

// AddLibrarian adds a staff account to the roster.
func (s *service) AddLibrarian(ctx context.Context, librarian *membership.Librarian) (*membership.Librarian, error) {
	if librarian == nil {
		return nil, fmt.Errorf("%w: librarian is required", liberr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *librarian
	s.librarians = append(s.librarians, &stored)
	copied := stored
	return &copied, nil
}

// ListLibrarians returns the staff roster in insertion order.
func (s *service) ListLibrarians(ctx context.Context) []*membership.Librarian {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*membership.Librarian, 0, len(s.librarians))
	for _, l := range s.librarians {
		librarian := *l
		out = append(out, &librarian)
	}
	return out
}

// ------------------------------------------------------------- circulation

// LoanItem creates a loan on an available item for an eligible member.
// The member must be active with no overdue loans, and the item must be
// available.
func (s *service) LoanItem(ctx context.Context, memberID, mediaID uuid.UUID) (*circulation.Loan, error) {
	ctx, span := s.tracer.Start(ctx, "library.loan_item",
		trace.WithAttributes(
			attribute.String("member.id", memberID.String()),
			attribute.String("media.id", mediaID.String()),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("%w: member %s", liberr.ErrNotFound, memberID)
	}
	item, ok := s.items[mediaID]
	if !ok {
		return nil, fmt.Errorf("%w: media item %s", liberr.ErrNotFound, mediaID)
	}

	today := s.today()
	if !member.Active {
		return nil, fmt.Errorf("%w: member %s is inactive", liberr.ErrConflict, memberID)
	}
	if s.hasOverdueLoans(memberID, today) {
		return nil, fmt.Errorf("%w: member %s has overdue loans", liberr.ErrConflict, memberID)
	}
	if !item.Available() {
		return nil, fmt.Errorf("%w: item %s is not available", liberr.ErrConflict, mediaID)
	}

	loan, err := circulation.NewLoan(memberID, mediaID, today, s.loanPolicy.DueDate(today))
	if err != nil {
		return nil, err
	}

	s.loans[loan.ID] = loan
	s.loanOrder = append(s.loanOrder, loan.ID)
	item.Status = catalog.StatusOnLoan

	copied := *loan
	return &copied, nil
}

// ReturnItem closes the open loan on an item, records the fine, and hands
// the item to the next active reservation holder if one is queued.
func (s *service) ReturnItem(ctx context.Context, mediaID uuid.UUID) (*circulation.Loan, error) {
	ctx, span := s.tracer.Start(ctx, "library.return_item",
		trace.WithAttributes(attribute.String("media.id", mediaID.String())),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	loan := s.findOpenLoanLocked(mediaID)
	if loan == nil {
		if s.hasReturnedLoan(mediaID) {
			return nil, fmt.Errorf("%w: item %s is already returned", liberr.ErrConflict, mediaID)
		}
		return nil, fmt.Errorf("%w: no open loan for media item %s", liberr.ErrNotFound, mediaID)
	}
	item, ok := s.items[mediaID]
	if !ok {
		return nil, fmt.Errorf("%w: media item %s", liberr.ErrNotFound, mediaID)
	}

	today := s.today()
	if err := loan.MarkReturned(today, s.finePolicy.Fine(loan.DueDate, today)); err != nil {
		return nil, err
	}

	// Hand-off: the dequeue is the only mutation; checking the queue never
	// changes it.
	if s.fulfilNextLocked(mediaID) {
		item.Status = catalog.StatusReserved
	} else {
		item.Status = catalog.StatusAvailable
	}

	span.SetAttributes(attribute.Int("loan.fine_pence", loan.FineAccrued))
	copied := *loan
	return &copied, nil
}

// FindOpenLoan returns the single outstanding loan for a media item.
func (s *service) FindOpenLoan(ctx context.Context, mediaID uuid.UUID) (*circulation.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan := s.findOpenLoanLocked(mediaID)
	if loan == nil {
		return nil, fmt.Errorf("%w: no open loan for media item %s", liberr.ErrNotFound, mediaID)
	}
	copied := *loan
	return &copied, nil
}

// ------------------------------------------------------------ reservations

// PlaceReservation appends an active reservation to the item's FIFO queue.
// Reserving an available item is allowed; it acts as a booking for future
// pickup.
func (s *service) PlaceReservation(ctx context.Context, memberID, mediaID uuid.UUID) (*circulation.Reservation, error) {
	ctx, span := s.tracer.Start(ctx, "library.place_reservation",
		trace.WithAttributes(
			attribute.String("member.id", memberID.String()),
			attribute.String("media.id", mediaID.String()),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("%w: member %s", liberr.ErrNotFound, memberID)
	}
	if !member.Active {
		return nil, fmt.Errorf("%w: member %s is inactive", liberr.ErrConflict, memberID)
	}
	if _, ok := s.items[mediaID]; !ok {
		return nil, fmt.Errorf("%w: media item %s", liberr.ErrNotFound, mediaID)
	}

	reservation := circulation.NewReservation(memberID, mediaID, s.today())
	s.queues[mediaID] = append(s.queues[mediaID], reservation)
	s.reservations[reservation.ID] = reservation

	copied := *reservation
	return &copied, nil
}

// CancelReservation cancels an active reservation and frees its queue
// slot.
func (s *service) CancelReservation(ctx context.Context, reservationID uuid.UUID) (*circulation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, ok := s.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", liberr.ErrNotFound, reservationID)
	}
	if err := reservation.Cancel(); err != nil {
		return nil, err
	}
	s.queues[reservation.MediaID] = removeReservation(s.queues[reservation.MediaID], reservationID)

	copied := *reservation
	return &copied, nil
}

// FulfillReservation manually serves the next active reservation on an
// item, independent of the return flow. It reports false when nothing was
// queued.
func (s *service) FulfillReservation(ctx context.Context, mediaID uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "library.fulfill_reservation",
		trace.WithAttributes(attribute.String("media.id", mediaID.String())),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[mediaID]
	if !ok {
		return false, fmt.Errorf("%w: media item %s", liberr.ErrNotFound, mediaID)
	}
	if !s.fulfilNextLocked(mediaID) {
		return false, nil
	}
	item.Status = catalog.StatusReserved
	return true, nil
}

// ----------------------------------------------------------------- helpers

func (s *service) hasOverdueLoans(memberID uuid.UUID, ref time.Time) bool {
	for _, id := range s.loanOrder {
		loan := s.loans[id]
		if loan.MemberID == memberID && loan.Overdue(ref) {
			return true
		}
	}
	return false
}

func (s *service) findOpenLoanLocked(mediaID uuid.UUID) *circulation.Loan {
	for _, id := range s.loanOrder {
		loan := s.loans[id]
		if loan.MediaID == mediaID && loan.Status == circulation.LoanOutstanding {
			return loan
		}
	}
	return nil
}

func (s *service) hasReturnedLoan(mediaID uuid.UUID) bool {
	for _, id := range s.loanOrder {
		loan := s.loans[id]
		if loan.MediaID == mediaID && loan.Status == circulation.LoanReturned {
			return true
		}
	}
	return false
}

func (s *service) hasActiveReservation(mediaID uuid.UUID) bool {
	for _, r := range s.queues[mediaID] {
		if r.Status == circulation.ReservationActive {
			return true
		}
	}
	return false
}

// fulfilNextLocked serves the first active reservation in the item's queue
// and removes it, skipping any terminal entries ahead of it.
func (s *service) fulfilNextLocked(mediaID uuid.UUID) bool {
	queue := s.queues[mediaID]
	for i, r := range queue {
		if r.Status != circulation.ReservationActive {
			continue
		}
		if err := r.Fulfil(); err != nil {
			return false
		}
		s.queues[mediaID] = append(queue[:i:i], queue[i+1:]...)
		return true
	}
	return false
}

func cloneItem(item *catalog.Item) *catalog.Item {
	copied := *item
	copied.Categories = append([]string(nil), item.Categories...)
	copied.Authors = append([]string(nil), item.Authors...)
	return &copied
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeReservation(queue []*circulation.Reservation, target uuid.UUID) []*circulation.Reservation {
	for i, r := range queue {
		if r.ID == target {
			return append(queue[:i:i], queue[i+1:]...)
		}
	}
	return queue
}
