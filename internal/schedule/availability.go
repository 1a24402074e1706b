package schedule

// Booking is the slice of an existing reservation the engine needs: which
// environment it occupies, for which interval, and who holds it. Cancelled
// reservations never count toward occupancy.
type Booking struct {
	ReservationID int64
	EnvironmentID int64
	OccupantName  string
	Interval
	Cancelled bool
}

// Candidate pairs an environment with the resource tags it carries.
type Candidate struct {
	EnvironmentID int64
	ResourceIDs   []int64
}

// FilterAvailable returns the subset of candidates that are simultaneously
// free for the whole requested interval and carry every required resource.
// The result preserves candidate order. An invalid interval has no available
// environments; an empty result is a normal outcome, not an error.
func FilterAvailable(candidates []Candidate, iv Interval, requiredResources []int64, existing []Booking) []Candidate {
	available := make([]Candidate, 0, len(candidates))
	if !iv.IsValid() {
		return available
	}

	occupied := make(map[int64]bool)
	for _, b := range existing {
		if b.Cancelled {
			continue
		}
		if Overlaps(b.Interval, iv) {
			occupied[b.EnvironmentID] = true
		}
	}

	for _, c := range candidates {
		if occupied[c.EnvironmentID] {
			continue
		}
		if !hasAllResources(c.ResourceIDs, requiredResources) {
			continue
		}
		available = append(available, c)
	}
	return available
}

// hasAllResources reports whether have contains every id in want.
func hasAllResources(have, want []int64) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[int64]bool, len(have))
	for _, id := range have {
		set[id] = true
	}
	for _, id := range want {
		if !set[id] {
			return false
		}
	}
	return true
}
