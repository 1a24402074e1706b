package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"reservas-backend/internal/model"
)

// newTestStore opens a per-test in-memory SQLite database with gorm's error
// translation enabled, so constraint failures map onto the same sentinels
// the Postgres path produces.
func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.EnvironmentType{},
		&model.Resource{},
		&model.User{},
		&model.Environment{},
		&model.Reservation{},
		&model.PushSubscription{},
	))
	return NewGormStore(db)
}

func seedEnvironment(t *testing.T, s Store, name string, resourceIDs []int64) model.Environment {
	t.Helper()
	ctx := context.Background()

	envType := model.EnvironmentType{Name: "lab-" + name}
	require.NoError(t, s.CreateEnvironmentType(ctx, &envType))

	env := model.Environment{Name: name, Location: "Block A", TypeID: envType.ID}
	require.NoError(t, s.CreateEnvironment(ctx, &env, resourceIDs))
	return env
}

func seedUser(t *testing.T, s Store, name, email string) model.User {
	t.Helper()
	user := model.User{Name: name, Email: email, PasswordHash: "x", Role: model.RoleAluno}
	require.NoError(t, s.CreateUser(context.Background(), &user))
	return user
}

func TestStore_DuplicateNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateEnvironmentType(ctx, &model.EnvironmentType{Name: "Lab"}))
	err := s.CreateEnvironmentType(ctx, &model.EnvironmentType{Name: "Lab"})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "environment type", dup.Entity)
	assert.Equal(t, "name", dup.Field)

	require.NoError(t, s.CreateResource(ctx, &model.Resource{Name: "Projector"}))
	assert.ErrorAs(t, s.CreateResource(ctx, &model.Resource{Name: "Projector"}), &dup)

	seedUser(t, s, "Ana", "ana@example.edu")
	err = s.CreateUser(ctx, &model.User{Name: "Other", Email: "ana@example.edu", PasswordHash: "x", Role: model.RoleAluno})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestStore_EnvironmentResourceReplacement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	projector := model.Resource{Name: "Projector"}
	whiteboard := model.Resource{Name: "Whiteboard"}
	require.NoError(t, s.CreateResource(ctx, &projector))
	require.NoError(t, s.CreateResource(ctx, &whiteboard))

	env := seedEnvironment(t, s, "Lab B", []int64{projector.ID, whiteboard.ID})

	got, err := s.GetEnvironment(ctx, env.ID)
	require.NoError(t, err)
	assert.Len(t, got.Resources, 2)
	assert.NotZero(t, got.Type.ID)

	// Edits replace the junction rows wholesale.
	env.Location = "Block C"
	require.NoError(t, s.UpdateEnvironment(ctx, &env, []int64{whiteboard.ID}))

	got, err = s.GetEnvironment(ctx, env.ID)
	require.NoError(t, err)
	assert.Equal(t, "Block C", got.Location)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "Whiteboard", got.Resources[0].Name)

	// Unknown resource ids fail the whole update.
	err = s.UpdateEnvironment(ctx, &env, []int64{9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeletionGuards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	projector := model.Resource{Name: "Projector"}
	require.NoError(t, s.CreateResource(ctx, &projector))
	env := seedEnvironment(t, s, "Lab B", []int64{projector.ID})
	user := seedUser(t, s, "Ana", "ana@example.edu")

	reservation := model.Reservation{
		EnvironmentID: env.ID,
		UserID:        user.ID,
		StartTime:     time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateReservation(ctx, &reservation))

	assert.ErrorIs(t, s.DeleteEnvironmentType(ctx, env.TypeID), ErrInUse)
	assert.ErrorIs(t, s.DeleteResource(ctx, projector.ID), ErrInUse)
	assert.ErrorIs(t, s.DeleteEnvironment(ctx, env.ID), ErrInUse)
	assert.ErrorIs(t, s.DeleteUser(ctx, user.ID), ErrInUse)

	// Once the reservation is gone, the chain unwinds.
	require.NoError(t, s.DeleteReservation(ctx, reservation.ID))
	require.NoError(t, s.DeleteUser(ctx, user.ID))
	require.NoError(t, s.DeleteEnvironment(ctx, env.ID))
	require.NoError(t, s.DeleteResource(ctx, projector.ID))
	require.NoError(t, s.DeleteEnvironmentType(ctx, env.TypeID))

	assert.ErrorIs(t, s.DeleteEnvironment(ctx, env.ID), ErrNotFound)
}

func TestStore_ListReservationsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	labB := seedEnvironment(t, s, "Lab B", nil)
	labC := seedEnvironment(t, s, "Lab C", nil)
	ana := seedUser(t, s, "Ana", "ana@example.edu")
	bia := seedUser(t, s, "Bia", "bia@example.edu")

	mk := func(env model.Environment, user model.User, day int) {
		r := model.Reservation{
			EnvironmentID: env.ID, UserID: user.ID,
			StartTime: time.Date(2030, 3, day, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2030, 3, day, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.CreateReservation(ctx, &r))
	}
	mk(labB, ana, 1)
	mk(labB, bia, 2)
	mk(labC, ana, 3)

	all, err := s.ListReservations(ctx, ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Resolved associations come along for calendar rendering.
	assert.Equal(t, "Lab B", all[0].Environment.Name)
	assert.Equal(t, "Ana", all[0].User.Name)

	byEnv, err := s.ListReservations(ctx, ReservationFilter{EnvironmentID: labB.ID})
	require.NoError(t, err)
	assert.Len(t, byEnv, 2)

	byUser, err := s.ListReservations(ctx, ReservationFilter{UserID: ana.ID})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	april := time.Date(2030, 4, 15, 0, 0, 0, 0, time.UTC)
	empty, err := s.ListReservations(ctx, ReservationFilter{Month: &april})
	require.NoError(t, err)
	assert.Empty(t, empty)

	march := time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)
	full, err := s.ListReservations(ctx, ReservationFilter{Month: &march})
	require.NoError(t, err)
	assert.Len(t, full, 3)
}

func TestStore_ListBookings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	labB := seedEnvironment(t, s, "Lab B", nil)
	ana := seedUser(t, s, "Ana", "ana@example.edu")

	active := model.Reservation{
		EnvironmentID: labB.ID, UserID: ana.ID,
		StartTime: time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateReservation(ctx, &active))

	cancelled := model.Reservation{
		EnvironmentID: labB.ID, UserID: ana.ID,
		StartTime: time.Date(2030, 3, 2, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2030, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:    model.StatusCancelled,
	}
	require.NoError(t, s.DB().Omit("User", "Environment").Create(&cancelled).Error)

	bookings, err := s.ListBookings(ctx, labB.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, active.ID, bookings[0].ReservationID)
	assert.Equal(t, "Ana", bookings[0].OccupantName)
	assert.True(t, bookings[0].Start.Equal(active.StartTime))
	assert.True(t, bookings[0].End.Equal(active.EndTime))
}
