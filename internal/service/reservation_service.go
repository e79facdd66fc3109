package service

import (
	"context"
	"log"
	"time"

	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/queue"
)

// ReservationStore is the reservation storage consumed by the lifecycle
// service.  Not-found conditions surface as repository sentinel errors.
type ReservationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) error
	Update(ctx context.Context, r *model.Reservation) error
	Delete(ctx context.Context, id uint64) error
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	ListByTour(ctx context.Context, tourID uint64) ([]model.Reservation, error)
	ListByStatus(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error)
	ListByPaymentStatus(ctx context.Context, status model.PaymentStatus) ([]model.Reservation, error)
	ListByUserAndStatus(ctx context.Context, userID uint64, status model.ReservationStatus) ([]model.Reservation, error)
	ListCreatedAfter(ctx context.Context, since time.Time) ([]model.Reservation, error)
	ListByDestinationCountry(ctx context.Context, country string) ([]model.Reservation, error)
	CountConfirmedByTour(ctx context.Context, tourID uint64) (int64, error)
}

// UserStore is the minimal user lookup needed to validate that the
// booking user exists.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// TourGetter loads a tour without going through the ledger's exclusive
// scope; used for read-only lookups such as event enrichment.
type TourGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Tour, error)
}

// ConfirmationPublisher emits an event when a reservation is confirmed.
// Publishing is best effort: failures are logged, never surfaced.
type ConfirmationPublisher interface {
	PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// ReservationService owns the reservation lifecycle: creation,
// modification, confirmation, cancellation and deletion, plus the
// filtered reads exposed to the HTTP layer.  Every capacity movement
// goes through the ledger so tour capacity and status can never drift
// from the set of live reservations.
type ReservationService struct {
	reservations ReservationStore
	users        UserStore
	tours        TourGetter
	ledger       *CapacityLedger
	publisher    ConfirmationPublisher
	clock        clock.Clock

	compensateAttempts int
	compensateBackoff  time.Duration
}

// ReservationServiceOption customises a ReservationService.
type ReservationServiceOption func(*ReservationService)

// WithCompensateRetry overrides how often and how fast a failed
// compensating release is retried; tests shrink the backoff.
func WithCompensateRetry(attempts int, backoff time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if attempts > 0 {
			s.compensateAttempts = attempts
		}
		if backoff > 0 {
			s.compensateBackoff = backoff
		}
	}
}

// NewReservationService constructs the lifecycle service.  publisher
// may be nil when messaging is disabled.
func NewReservationService(
	reservations ReservationStore,
	users UserStore,
	tours TourGetter,
	ledger *CapacityLedger,
	publisher ConfirmationPublisher,
	clk clock.Clock,
	opts ...ReservationServiceOption,
) *ReservationService {
	if reservations == nil || users == nil || tours == nil || ledger == nil {
		panic("nil dependency passed to NewReservationService")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	s := &ReservationService{
		reservations:       reservations,
		users:              users,
		tours:              tours,
		ledger:             ledger,
		publisher:          publisher,
		clock:              clk,
		compensateAttempts: 3,
		compensateBackoff:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReservationInput carries the caller-supplied fields for a new
// reservation.  UserID and TourID become immutable once created.
type CreateReservationInput struct {
	UserID          uint64
	TourID          uint64
	NumberOfPeople  int
	SpecialRequests string
	ContactPhone    string
	ContactEmail    string
}

// Create books seats on a tour.  The capacity debit happens first,
// inside the ledger's exclusive scope; the reservation row is written
// afterwards.  If that write fails the debited seats are returned via a
// retried compensating release, otherwise they would be lost forever.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	if in.NumberOfPeople <= 0 {
		return nil, ErrInvalidPeopleCount
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	tour, err := s.ledger.TryReserve(ctx, in.TourID, in.NumberOfPeople)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	res := &model.Reservation{
		UserID:          in.UserID,
		TourID:          in.TourID,
		NumberOfPeople:  in.NumberOfPeople,
		TotalPriceCents: tour.PriceCents * int64(in.NumberOfPeople),
		Status:          model.ReservationStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		SpecialRequests: in.SpecialRequests,
		ContactPhone:    in.ContactPhone,
		ContactEmail:    in.ContactEmail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		s.compensateReserve(ctx, in.TourID, in.NumberOfPeople)
		return nil, err
	}
	return res, nil
}

// compensateReserve returns seats debited by a create whose persistence
// step failed.  A lost release silently overstates scarcity forever, so
// the release is retried with doubling backoff before giving up; every
// failure is logged.
func (s *ReservationService) compensateReserve(ctx context.Context, tourID uint64, count int) {
	backoff := s.compensateBackoff
	for attempt := 1; attempt <= s.compensateAttempts; attempt++ {
		if _, err := s.ledger.Release(ctx, tourID, count); err == nil {
			return
		} else {
			log.Printf("reservation: compensating release of %d seat(s) on tour %d failed (attempt %d/%d): %v",
				count, tourID, attempt, s.compensateAttempts, err)
		}
		if attempt < s.compensateAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	log.Printf("reservation: compensating release abandoned: tour %d is overstating scarcity by %d seat(s)", tourID, count)
}

// validTransition encodes the reservation state machine.  Updating to
// the same status is always allowed.
func validTransition(from, to model.ReservationStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case model.ReservationStatusPending:
		return to == model.ReservationStatusConfirmed || to == model.ReservationStatusCancelled
	case model.ReservationStatusConfirmed:
		return to == model.ReservationStatusCancelled || to == model.ReservationStatusCompleted
	}
	return false
}

// UpdateReservationInput is a full replacement of a reservation's
// mutable fields, mirroring what the HTTP layer accepts on PUT.
type UpdateReservationInput struct {
	NumberOfPeople  int
	Status          model.ReservationStatus
	PaymentStatus   model.PaymentStatus
	SpecialRequests string
	ContactPhone    string
	ContactEmail    string
}

// Update applies a general modification.  A people-count change moves
// capacity through the ledger with an explicit branch per direction:
// fewer people releases the difference, more people must win a
// capacity-checked reserve.  The total price is recomputed from the
// tour's current price whenever the count changes.  Status changes are
// validated against the state machine; a reservation already in a
// terminal state rejects any modification.  Note that updating the
// status to CANCELLED here does not return seats; capacity-restoring
// cancellation is the dedicated Cancel operation.
func (s *ReservationService) Update(ctx context.Context, id uint64, in UpdateReservationInput) (*model.Reservation, error) {
	if in.NumberOfPeople <= 0 {
		return nil, ErrInvalidPeopleCount
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidTransition
	}
	if !in.PaymentStatus.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		return nil, ErrInvalidTransition
	}
	if !validTransition(res.Status, in.Status) {
		return nil, ErrInvalidTransition
	}

	if in.NumberOfPeople != res.NumberOfPeople {
		delta := res.NumberOfPeople - in.NumberOfPeople
		var tour *model.Tour
		if delta > 0 {
			tour, err = s.ledger.Release(ctx, res.TourID, delta)
		} else {
			tour, err = s.ledger.TryReserve(ctx, res.TourID, -delta)
		}
		if err != nil {
			return nil, err
		}
		res.NumberOfPeople = in.NumberOfPeople
		res.TotalPriceCents = tour.PriceCents * int64(in.NumberOfPeople)
	}

	res.Status = in.Status
	res.PaymentStatus = in.PaymentStatus
	res.SpecialRequests = in.SpecialRequests
	res.ContactPhone = in.ContactPhone
	res.ContactEmail = in.ContactEmail
	res.UpdatedAt = s.clock.Now()
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes a reservation.  Seats are released unless the
// reservation was already cancelled, in which case its capacity has
// been returned once and must not be returned again.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status != model.ReservationStatusCancelled {
		if _, err := s.ledger.Release(ctx, res.TourID, res.NumberOfPeople); err != nil {
			return err
		}
	}
	return s.reservations.Delete(ctx, id)
}

// Confirm moves a PENDING reservation to CONFIRMED.  Capacity was
// committed at creation, so no ledger interaction happens here.
// Confirming an already-confirmed reservation is a no-op.
func (s *ReservationService) Confirm(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == model.ReservationStatusConfirmed {
		return res, nil
	}
	if res.Status != model.ReservationStatusPending {
		return nil, ErrInvalidTransition
	}
	res.Status = model.ReservationStatusConfirmed
	res.UpdatedAt = s.clock.Now()
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	s.publishConfirmed(ctx, res)
	return res, nil
}

// publishConfirmed emits the confirmation event, enriched with tour
// details when they can be loaded.  Failures only log.
func (s *ReservationService) publishConfirmed(ctx context.Context, res *model.Reservation) {
	if s.publisher == nil {
		return
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID:   res.ID,
		UserID:          res.UserID,
		TourID:          res.TourID,
		NumberOfPeople:  res.NumberOfPeople,
		TotalPriceCents: res.TotalPriceCents,
		ConfirmedAt:     s.clock.Now().Format(time.RFC3339),
	}
	if tour, err := s.tours.GetByID(ctx, res.TourID); err == nil {
		ev.TourName = tour.Name
		ev.StartDate = tour.StartDate.Format("2006-01-02")
	}
	if err := s.publisher.PublishReservationConfirmed(ctx, ev); err != nil {
		log.Printf("reservation: publish confirmation for reservation %d failed: %v", res.ID, err)
	}
}

// Cancel releases the reservation's seats and marks it CANCELLED.
// Already-terminal reservations cannot be cancelled (again).
func (s *ReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		return nil, ErrInvalidTransition
	}
	if _, err := s.ledger.Release(ctx, res.TourID, res.NumberOfPeople); err != nil {
		return nil, err
	}
	res.Status = model.ReservationStatusCancelled
	res.UpdatedAt = s.clock.Now()
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdatePaymentStatus sets the payment axis directly.  Payment status
// is deliberately not coupled to the reservation state machine; any
// known value may be set at any time.
func (s *ReservationService) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) (*model.Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res.PaymentStatus = status
	res.UpdatedAt = s.clock.Now()
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetByID loads a single reservation.
func (s *ReservationService) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// ListAll returns every reservation.
func (s *ReservationService) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// ListByUser returns the reservations made by one user.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// ListByTour returns the reservations on one tour.
func (s *ReservationService) ListByTour(ctx context.Context, tourID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByTour(ctx, tourID)
}

// ListByStatus filters reservations by lifecycle status.
func (s *ReservationService) ListByStatus(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	return s.reservations.ListByStatus(ctx, status)
}

// ListByPaymentStatus filters reservations by payment status.
func (s *ReservationService) ListByPaymentStatus(ctx context.Context, status model.PaymentStatus) ([]model.Reservation, error) {
	return s.reservations.ListByPaymentStatus(ctx, status)
}

// ListByUserAndStatus combines the user and status filters.
func (s *ReservationService) ListByUserAndStatus(ctx context.Context, userID uint64, status model.ReservationStatus) ([]model.Reservation, error) {
	return s.reservations.ListByUserAndStatus(ctx, userID, status)
}

// ListCreatedAfter returns reservations created at or after since.
func (s *ReservationService) ListCreatedAfter(ctx context.Context, since time.Time) ([]model.Reservation, error) {
	return s.reservations.ListCreatedAfter(ctx, since)
}

// ListByDestinationCountry returns reservations whose tour travels to
// the given country, resolved through the tour's destination.
func (s *ReservationService) ListByDestinationCountry(ctx context.Context, country string) ([]model.Reservation, error) {
	return s.reservations.ListByDestinationCountry(ctx, country)
}

// CountConfirmedByTour counts CONFIRMED reservations on a tour.
func (s *ReservationService) CountConfirmedByTour(ctx context.Context, tourID uint64) (int64, error) {
	return s.reservations.CountConfirmedByTour(ctx, tourID)
}
