package models

// PaymentRequest is the body sent to the payment gateway to start a
// redirect-based payment for a recorded appointment.
type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	AppointmentID string  `json:"appointment_id"`
}

// PaymentResult is the gateway's answer. URL is only meaningful when Success
// is true; the caller then redirects the patient's browser to it.
type PaymentResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
}
