package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reservas-backend/internal/model"
	"reservas-backend/internal/schedule"
)

// ReservationFilter narrows a reservation listing. Zero values mean "no
// filter". Month selects the calendar month containing the given instant.
type ReservationFilter struct {
	EnvironmentID int64
	UserID        int64
	Month         *time.Time
}

// ListReservations returns reservations with their user and environment
// resolved, ordered by start time, for calendar rendering.
func (s *gormStore) ListReservations(ctx context.Context, filter ReservationFilter) ([]model.Reservation, error) {
	query := s.db.WithContext(ctx).
		Preload("User").
		Preload("Environment").
		Preload("Environment.Type").
		Order("start_time")

	if filter.EnvironmentID != 0 {
		query = query.Where("environment_id = ?", filter.EnvironmentID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Month != nil {
		monthStart := time.Date(filter.Month.Year(), filter.Month.Month(), 1, 0, 0, 0, 0, filter.Month.Location())
		monthEnd := monthStart.AddDate(0, 1, 0)
		query = query.Where("start_time < ? AND end_time > ?", monthEnd, monthStart)
	}

	var reservations []model.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// ListBookings returns the occupancy snapshot for one environment, shaped
// for the availability engine. Cancelled reservations are excluded at the
// query level. environmentID 0 returns the snapshot for all environments.
func (s *gormStore) ListBookings(ctx context.Context, environmentID int64) ([]schedule.Booking, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Select("reservations.id, reservations.environment_id, reservations.start_time, reservations.end_time, users.name AS occupant").
		Joins("JOIN users ON users.id = reservations.user_id").
		Where("reservations.status <> ?", model.StatusCancelled)
	if environmentID != 0 {
		query = query.Where("reservations.environment_id = ?", environmentID)
	}

	var rows []struct {
		ID            int64
		EnvironmentID int64
		StartTime     time.Time
		EndTime       time.Time
		Occupant      string
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings for environment %d: %w", environmentID, err)
	}

	bookings := make([]schedule.Booking, 0, len(rows))
	for _, r := range rows {
		bookings = append(bookings, schedule.Booking{
			ReservationID: r.ID,
			EnvironmentID: r.EnvironmentID,
			OccupantName:  r.Occupant,
			Interval:      schedule.Interval{Start: r.StartTime, End: r.EndTime},
		})
	}
	return bookings, nil
}

func (s *gormStore) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	var reservation model.Reservation
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Environment").
		First(&reservation, id).Error
	if err != nil {
		return model.Reservation{}, translateError(err, "reservation", "id")
	}
	return reservation, nil
}

// CreateReservation persists a single reservation. The overlap check runs
// again inside the transaction: the caller's in-memory validation may have
// used a stale snapshot, and on Postgres the exclusion constraint is the
// final authority. Both paths surface the same conflict shape.
func (s *gormStore) CreateReservation(ctx context.Context, reservation *model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createReservationTx(tx, reservation)
	})
}

// CreateReservations persists a batch atomically. Any conflict rolls back
// the whole batch; no partial application.
func (s *gormStore) CreateReservations(ctx context.Context, reservations []*model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, reservation := range reservations {
			if err := createReservationTx(tx, reservation); err != nil {
				return err
			}
		}
		return nil
	})
}

func createReservationTx(tx *gorm.DB, reservation *model.Reservation) error {
	if conflict, err := findConflict(tx, reservation); err != nil {
		return err
	} else if conflict != nil {
		return conflict
	}

	if reservation.Status == "" {
		reservation.Status = model.StatusApproved
	}
	if err := tx.Omit("User", "Environment").Create(reservation).Error; err != nil {
		if isExclusionViolation(err) {
			// A concurrent writer won the race between our check and the
			// insert. Report the row it persisted.
			if conflict, lookupErr := findConflict(tx, reservation); lookupErr == nil && conflict != nil {
				return conflict
			}
			return &schedule.ConflictError{Existing: schedule.Booking{
				EnvironmentID: reservation.EnvironmentID,
				Interval:      schedule.Interval{Start: reservation.StartTime, End: reservation.EndTime},
			}}
		}
		return translateError(err, "reservation", "id")
	}
	return nil
}

// findConflict locks and scans the environment's non-cancelled reservations
// overlapping the proposed interval, returning a typed conflict when found.
func findConflict(tx *gorm.DB, reservation *model.Reservation) (*schedule.ConflictError, error) {
	var rows []struct {
		ID        int64
		StartTime time.Time
		EndTime   time.Time
		Occupant  string
	}
	query := tx.Model(&model.Reservation{}).
		Select("reservations.id, reservations.start_time, reservations.end_time, users.name AS occupant").
		Joins("JOIN users ON users.id = reservations.user_id").
		Where("reservations.environment_id = ?", reservation.EnvironmentID).
		Where("reservations.status <> ?", model.StatusCancelled).
		Where("reservations.start_time < ? AND reservations.end_time > ?", reservation.EndTime, reservation.StartTime)
	if tx.Dialector.Name() == "postgres" {
		// SQLite serializes writers on its own; row locks only exist on
		// Postgres.
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "reservations"}})
	}
	err := query.Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &schedule.ConflictError{Existing: schedule.Booking{
		ReservationID: row.ID,
		EnvironmentID: reservation.EnvironmentID,
		OccupantName:  row.Occupant,
		Interval:      schedule.Interval{Start: row.StartTime, End: row.EndTime},
	}}, nil
}

// DeleteReservation hard-deletes a reservation. Cancellation does not keep
// an audit row.
func (s *gormStore) DeleteReservation(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&model.Reservation{}, id)
	if result.Error != nil {
		return translateError(result.Error, "reservation", "id")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
