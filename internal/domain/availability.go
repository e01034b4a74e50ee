package domain

import "time"

// Interval is a time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if End is strictly after Start
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// ConflictsWith reports whether i conflicts with an existing booking,
// with buffer minutes required on both sides of the existing booking.
// Comparisons are strict: touching the buffer edge is not a conflict.
func (i Interval) ConflictsWith(existing Interval, buffer time.Duration) bool {
	return i.Start.Before(existing.End.Add(buffer)) && i.End.Add(buffer).After(existing.Start)
}

// IsSlotAvailable returns true if the candidate conflicts with none of the existing bookings
func IsSlotAvailable(candidate Interval, existing []Interval, buffer time.Duration) bool {
	for _, booked := range existing {
		if candidate.ConflictsWith(booked, buffer) {
			return false
		}
	}
	return true
}

// BusyIntervals returns the intervals of appointments that occupy the schedule
func BusyIntervals(appointments []*Appointment) []Interval {
	busy := make([]Interval, 0, len(appointments))
	for _, a := range appointments {
		if a.Status.IsBlocking() {
			busy = append(busy, a.Interval())
		}
	}
	return busy
}
