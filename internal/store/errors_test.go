package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reservas-backend/internal/model"
	"reservas-backend/internal/schedule"
)

// newMockDB builds a gorm handle over sqlmock so Postgres driver errors can
// be injected.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil, "user", "email"))

	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound, "user", "email"), ErrNotFound)

	var dup *DuplicateError
	err := translateError(&pgconn.PgError{Code: pgUniqueViolation}, "user", "email")
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "user", dup.Entity)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "user with this email already exists", dup.Error())

	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: pgForeignKeyViolated}, "resource", "name"), ErrInUse)

	assert.ErrorAs(t, translateError(gorm.ErrDuplicatedKey, "resource", "name"), &dup)
	assert.ErrorIs(t, translateError(gorm.ErrForeignKeyViolated, "resource", "name"), ErrInUse)

	opaque := errors.New("connection reset")
	assert.Equal(t, opaque, translateError(opaque, "user", "email"))

	assert.True(t, isExclusionViolation(&pgconn.PgError{Code: pgExclusionViolation}))
	assert.False(t, isExclusionViolation(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.False(t, isExclusionViolation(errors.New("other")))
}

// TestCreateReservation_ExclusionConstraint simulates the Postgres exclusion
// constraint firing after the in-transaction check passed: the race where a
// concurrent writer commits between our SELECT and our INSERT. The store
// must surface the winner as a slot conflict, not a generic failure.
func TestCreateReservation_ExclusionConstraint(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormStore(db)

	start := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectBegin()
	// First overlap check sees nothing.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT reservations.id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time", "occupant"}))
	// The insert trips the exclusion constraint.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservations"`)).
		WillReturnError(&pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "reservations_no_overlap"})
	// The store re-queries to identify the winning reservation.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT reservations.id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time", "occupant"}).
			AddRow(42, start, end, "Maria"))
	mock.ExpectRollback()

	err := s.CreateReservation(context.Background(), &model.Reservation{
		EnvironmentID: 1,
		UserID:        2,
		StartTime:     start.Add(30 * time.Minute),
		EndTime:       end.Add(30 * time.Minute),
	})

	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(42), conflict.Existing.ReservationID)
	assert.Equal(t, "Maria", conflict.Existing.OccupantName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
