package models

import "time"

// FlowState identifies where a booking session currently sits in the
// date -> slot -> form -> payment progression.
type FlowState string

const (
	// StateIdle: session created, no date chosen yet.
	StateIdle FlowState = "idle"
	// StateLoading: a date was accepted and an availability fetch is in flight.
	StateLoading FlowState = "loading"
	// StateNoSlots: the fetch succeeded but the provider has no windows that day.
	StateNoSlots FlowState = "no_slots"
	// StateSlotsReady: discretized slots are available for selection.
	StateSlotsReady FlowState = "slots_ready"
	// StateFetchError: the availability fetch failed; cleared by the next date pick.
	StateFetchError FlowState = "fetch_error"
	// StateFormOpen: a slot is selected and the booking form is open.
	StateFormOpen FlowState = "form_open"
	// StateSubmitting: a submission is in flight; blocks re-submission.
	StateSubmitting FlowState = "submitting"
	// StateAwaitingPayment: the appointment is recorded and awaits payment handoff.
	StateAwaitingPayment FlowState = "awaiting_payment"
	// StatePaymentRedirected: terminal; the caller was handed the gateway URL.
	StatePaymentRedirected FlowState = "payment_redirected"
)

// Notice is a user-facing message attached to a session. Transient notices
// are cleared automatically by the flow's clock after a fixed delay; blocking
// notices (payment failures) stay until the next transition.
type Notice struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking,omitempty"`
}

// BookingSession holds the full context of one in-progress booking flow.
// It is persisted between requests and mutated only through flow transitions.
type BookingSession struct {
	SessionID  string `json:"sessionId"`
	PatientID  string `json:"patientId"`
	ProviderID string `json:"providerId"`
	ServiceID  string `json:"serviceId"`

	State   FlowState    `json:"state"`
	Date    CalendarDate `json:"date"`
	Service *ServiceInfo `json:"service,omitempty"`

	// FetchGeneration increases on every accepted date pick; availability
	// responses carrying an older generation are discarded as stale.
	FetchGeneration uint64 `json:"fetchGeneration"`

	Availability *Availability `json:"availability,omitempty"`
	Slot         *BookableSlot `json:"slot,omitempty"`
	Note         string        `json:"note,omitempty"`

	Record *BookingRecord `json:"record,omitempty"`
	Amount float64        `json:"amount,omitempty"`

	Notice    *Notice   `json:"notice,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingRecord is the server-confirmed appointment returned after a
// successful submission. Immutable once created; only its payment status is
// changed externally by the gateway.
type BookingRecord struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"providerId"`
	ServiceID  string    `json:"serviceId"`
	PatientID  string    `json:"patientId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}
