package models

// Roles recognized by the booking flow.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Identity is the authenticated caller extracted from the bearer token.
// Booking submission is gated on Role == RolePatient and a non-empty UserID.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Token  string `json:"-"`
}

// CanBook reports whether this identity may submit a booking.
func (id *Identity) CanBook() bool {
	return id != nil && id.Role == RolePatient && id.UserID != ""
}
