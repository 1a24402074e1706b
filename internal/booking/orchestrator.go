package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reservas-backend/internal/model"
	"reservas-backend/internal/schedule"
)

// ErrForbidden is returned when the acting user may not cancel the target
// reservation.
var ErrForbidden = errors.New("not allowed to cancel this reservation")

// Store captures the persistence interactions the orchestrator needs.
type Store interface {
	ListBookings(ctx context.Context, environmentID int64) ([]schedule.Booking, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	CreateReservation(ctx context.Context, reservation *model.Reservation) error
	CreateReservations(ctx context.Context, reservations []*model.Reservation) error
	DeleteReservation(ctx context.Context, id int64) error
}

// Notifier dispatches a booking-activity message for an environment. The
// orchestrator treats it as fire-and-forget.
type Notifier interface {
	Notify(environmentID int64, message string)
}

// Orchestrator is the only component that creates reservations. It runs the
// in-memory validation against a fresh snapshot, persists on acceptance, and
// relies on the store to re-check at write time; conflicts from either layer
// arrive as the same *schedule.ConflictError.
type Orchestrator struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

// NewOrchestrator wires the orchestrator. notifier may be nil; now defaults
// to time.Now.
func NewOrchestrator(store Store, notifier Notifier, now func() time.Time) *Orchestrator {
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{store: store, notifier: notifier, now: now}
}

// Reserve validates and persists a single reservation.
func (o *Orchestrator) Reserve(ctx context.Context, proposal schedule.Proposal) (model.Reservation, error) {
	existing, err := o.store.ListBookings(ctx, proposal.EnvironmentID)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("failed to load booking snapshot: %w", err)
	}
	if err := schedule.ValidateProposal(proposal, existing, o.now()); err != nil {
		return model.Reservation{}, err
	}

	reservation := model.Reservation{
		EnvironmentID: proposal.EnvironmentID,
		UserID:        proposal.UserID,
		StartTime:     proposal.Start,
		EndTime:       proposal.End,
		Status:        model.StatusApproved,
	}
	if err := o.store.CreateReservation(ctx, &reservation); err != nil {
		return model.Reservation{}, err
	}
	o.notify(reservation.EnvironmentID, "A new reservation was booked")
	return reservation, nil
}

// ReserveSeries validates and persists a batch atomically: every proposal is
// checked against the existing snapshot and pairwise against the rest of the
// batch, and any conflict rejects the series with nothing persisted. All
// reservations in the series share one series id.
func (o *Orchestrator) ReserveSeries(ctx context.Context, proposals []schedule.Proposal) ([]model.Reservation, error) {
	if len(proposals) == 0 {
		return nil, schedule.ErrMissingSelection
	}

	// One snapshot covering every environment the batch touches.
	existing, err := o.store.ListBookings(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking snapshot: %w", err)
	}
	if err := schedule.ValidateSeries(proposals, existing, o.now()); err != nil {
		return nil, err
	}

	seriesID := uuid.New()
	reservations := make([]*model.Reservation, len(proposals))
	for i, p := range proposals {
		reservations[i] = &model.Reservation{
			EnvironmentID: p.EnvironmentID,
			UserID:        p.UserID,
			StartTime:     p.Start,
			EndTime:       p.End,
			Status:        model.StatusApproved,
			SeriesID:      &seriesID,
		}
	}
	if err := o.store.CreateReservations(ctx, reservations); err != nil {
		return nil, err
	}

	created := make([]model.Reservation, len(reservations))
	notified := make(map[int64]bool)
	for i, r := range reservations {
		created[i] = *r
		if !notified[r.EnvironmentID] {
			notified[r.EnvironmentID] = true
			o.notify(r.EnvironmentID, "A reservation series was booked")
		}
	}
	return created, nil
}

// Cancel hard-deletes a reservation. The owner may cancel their own;
// manager roles and admins may cancel anyone's.
func (o *Orchestrator) Cancel(ctx context.Context, reservationID int64, actor model.User) error {
	reservation, err := o.store.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.UserID != actor.ID && !model.ManagerRole(actor.Role) {
		return ErrForbidden
	}
	if err := o.store.DeleteReservation(ctx, reservationID); err != nil {
		return err
	}
	o.notify(reservation.EnvironmentID, "A reservation was cancelled")
	return nil
}

func (o *Orchestrator) notify(environmentID int64, message string) {
	if o.notifier != nil {
		o.notifier.Notify(environmentID, message)
	}
}
