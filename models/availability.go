package models

import "time"

// AvailabilityWindow is a coarse interval during which a doctor is nominally
// bookable on a specific day. Windows are produced fresh per
// (provider, service, date) query and are never mutated.
type AvailabilityWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BookableSlot is a discrete reservable unit carved out of an
// AvailabilityWindow. End minus Start always equals the service duration
// exactly; partial slots are never emitted.
type BookableSlot struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DisplayLabel string    `json:"displayLabel"`
}

// Availability is the discretized result attached to a booking session for
// the selected date.
type Availability struct {
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []BookableSlot `json:"slots"`
}
