package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestValidateProposal(t *testing.T) {
	now := mustTime("2024-02-01T00:00:00Z")
	labB := []Booking{
		{ReservationID: 7, EnvironmentID: 1, OccupantName: "Maria",
			Interval: mustInterval("2024-03-01T09:00:00Z", "2024-03-01T10:00:00Z")},
	}

	t.Run("missing selection", func(t *testing.T) {
		err := ValidateProposal(Proposal{
			UserID: 5,
			Start:  mustTime("2024-03-01T09:00:00Z"),
			End:    mustTime("2024-03-01T10:00:00Z"),
		}, nil, now)
		assert.ErrorIs(t, err, ErrMissingSelection)

		err = ValidateProposal(Proposal{
			EnvironmentID: 1,
			Start:         mustTime("2024-03-01T09:00:00Z"),
			End:           mustTime("2024-03-01T10:00:00Z"),
		}, nil, now)
		assert.ErrorIs(t, err, ErrMissingSelection)
	})

	t.Run("inverted interval", func(t *testing.T) {
		err := ValidateProposal(Proposal{
			EnvironmentID: 1, UserID: 5,
			Start: mustTime("2024-03-01T10:00:00Z"),
			End:   mustTime("2024-03-01T09:00:00Z"),
		}, labB, now)
		assert.ErrorIs(t, err, ErrInvertedInterval)
	})

	t.Run("inverted interval wins over conflict", func(t *testing.T) {
		// Inverted AND inside Maria's slot: the fail-fast order reports the
		// inversion, never the conflict.
		err := ValidateProposal(Proposal{
			EnvironmentID: 1, UserID: 5,
			Start: mustTime("2024-03-01T09:45:00Z"),
			End:   mustTime("2024-03-01T09:15:00Z"),
		}, labB, now)
		assert.ErrorIs(t, err, ErrInvertedInterval)
	})

	t.Run("past dated", func(t *testing.T) {
		err := ValidateProposal(Proposal{
			EnvironmentID: 1, UserID: 5,
			Start: mustTime("2024-01-31T09:00:00Z"),
			End:   mustTime("2024-01-31T10:00:00Z"),
		}, nil, now)
		assert.ErrorIs(t, err, ErrPastDated)
	})

	t.Run("conflict carries the occupant", func(t *testing.T) {
		err := ValidateProposal(Proposal{
			EnvironmentID: 1, UserID: 5,
			Start: mustTime("2024-03-01T09:30:00Z"),
			End:   mustTime("2024-03-01T10:30:00Z"),
		}, labB, now)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "Maria", conflict.Existing.OccupantName)
		assert.Equal(t, mustTime("2024-03-01T09:00:00Z"), conflict.Existing.Start)
		assert.Equal(t, mustTime("2024-03-01T10:00:00Z"), conflict.Existing.End)
	})

	t.Run("boundary adjacent slot is accepted", func(t *testing.T) {
		err := ValidateProposal(Proposal{
			EnvironmentID: 1, UserID: 5,
			Start: mustTime("2024-03-01T10:00:00Z"),
			End:   mustTime("2024-03-01T11:00:00Z"),
		}, labB, now)
		assert.NoError(t, err)
	})

	t.Run("other environment is unaffected", func(t *testing.T) {
		err := ValidateProposal(Proposal{
			EnvironmentID: 2, UserID: 5,
			Start: mustTime("2024-03-01T09:30:00Z"),
			End:   mustTime("2024-03-01T10:30:00Z"),
		}, labB, now)
		assert.NoError(t, err)
	})

	t.Run("cancelled booking does not conflict", func(t *testing.T) {
		cancelled := []Booking{
			{ReservationID: 8, EnvironmentID: 1, Cancelled: true,
				Interval: mustInterval("2024-03-01T09:00:00Z", "2024-03-01T10:00:00Z")},
		}
		err := ValidateProposal(Proposal{
			EnvironmentID: 1, UserID: 5,
			Start: mustTime("2024-03-01T09:00:00Z"),
			End:   mustTime("2024-03-01T10:00:00Z"),
		}, cancelled, now)
		assert.NoError(t, err)
	})
}

func TestValidateSeries(t *testing.T) {
	now := mustTime("2024-02-01T00:00:00Z")

	t.Run("internally conflicting batch is rejected", func(t *testing.T) {
		proposals := []Proposal{
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-05T09:00:00Z"), End: mustTime("2024-03-05T10:00:00Z")},
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-05T09:30:00Z"), End: mustTime("2024-03-05T10:30:00Z")},
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-05T11:00:00Z"), End: mustTime("2024-03-05T12:00:00Z")},
		}
		var conflict *ConflictError
		assert.ErrorAs(t, ValidateSeries(proposals, nil, now), &conflict)
	})

	t.Run("weekly series in one environment passes", func(t *testing.T) {
		proposals := []Proposal{
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-05T09:00:00Z"), End: mustTime("2024-03-05T10:00:00Z")},
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-12T09:00:00Z"), End: mustTime("2024-03-12T10:00:00Z")},
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-19T09:00:00Z"), End: mustTime("2024-03-19T10:00:00Z")},
		}
		assert.NoError(t, ValidateSeries(proposals, nil, now))
	})

	t.Run("same slot in different environments passes", func(t *testing.T) {
		proposals := []Proposal{
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-05T09:00:00Z"), End: mustTime("2024-03-05T10:00:00Z")},
			{EnvironmentID: 2, UserID: 5, Start: mustTime("2024-03-05T09:00:00Z"), End: mustTime("2024-03-05T10:00:00Z")},
		}
		assert.NoError(t, ValidateSeries(proposals, nil, now))
	})

	t.Run("conflict with pre-existing booking rejects the batch", func(t *testing.T) {
		existing := []Booking{
			{EnvironmentID: 1, OccupantName: "Maria",
				Interval: mustInterval("2024-03-12T09:00:00Z", "2024-03-12T10:00:00Z")},
		}
		proposals := []Proposal{
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-05T09:00:00Z"), End: mustTime("2024-03-05T10:00:00Z")},
			{EnvironmentID: 1, UserID: 5, Start: mustTime("2024-03-12T09:00:00Z"), End: mustTime("2024-03-12T10:00:00Z")},
		}
		var conflict *ConflictError
		assert.ErrorAs(t, ValidateSeries(proposals, existing, now), &conflict)
	})
}
