package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Validation failures a proposal can be rejected with. Checks run in a fixed
// order and the first failure wins, so a proposal that is both inverted and
// conflicting is reported as inverted.
var (
	ErrMissingSelection = errors.New("environment and user must be selected")
	ErrInvertedInterval = errors.New("end time must be after start time")
	ErrPastDated        = errors.New("start time must not be in the past")
)

// ConflictError reports the existing booking a proposal collides with, so
// callers can tell the user who holds the slot and when it frees up.
type ConflictError struct {
	Existing Booking
}

func (e *ConflictError) Error() string {
	occupant := e.Existing.OccupantName
	if occupant == "" {
		occupant = "another reservation"
	}
	return fmt.Sprintf("slot already reserved by %s from %s to %s",
		occupant,
		e.Existing.Start.Format(time.RFC3339),
		e.Existing.End.Format(time.RFC3339))
}

// Proposal is a reservation request before it is persisted.
type Proposal struct {
	EnvironmentID int64
	UserID        int64
	Start         time.Time
	End           time.Time
}

// Interval returns the proposed time range.
func (p Proposal) Interval() Interval {
	return Interval{Start: p.Start, End: p.End}
}

// ValidateProposal checks a proposed reservation against the given snapshot
// of existing bookings. It returns nil when the proposal is acceptable and a
// typed error naming the first failing check otherwise. It never persists;
// the storage layer must re-check on write because the snapshot can be stale.
func ValidateProposal(p Proposal, existing []Booking, now time.Time) error {
	if p.EnvironmentID == 0 || p.UserID == 0 {
		return ErrMissingSelection
	}
	iv := p.Interval()
	if !iv.IsValid() {
		return ErrInvertedInterval
	}
	if p.Start.Before(now) {
		return ErrPastDated
	}
	for _, b := range existing {
		if b.Cancelled || b.EnvironmentID != p.EnvironmentID {
			continue
		}
		if Overlaps(b.Interval, iv) {
			return &ConflictError{Existing: b}
		}
	}
	return nil
}

// ValidateSeries checks every proposal in a batch against the existing
// bookings and pairwise against the other proposals in the same batch. The
// first failure rejects the whole series.
func ValidateSeries(proposals []Proposal, existing []Booking, now time.Time) error {
	for i, p := range proposals {
		if err := ValidateProposal(p, existing, now); err != nil {
			return err
		}
		for j := 0; j < i; j++ {
			prev := proposals[j]
			if prev.EnvironmentID != p.EnvironmentID {
				continue
			}
			if Overlaps(prev.Interval(), p.Interval()) {
				return &ConflictError{Existing: Booking{
					EnvironmentID: prev.EnvironmentID,
					Interval:      prev.Interval(),
				}}
			}
		}
	}
	return nil
}
