package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"medibook/models"
	"medibook/services/booking"
)

// AppointmentClient implements booking.AppointmentSubmitter against the
// medical API's appointment endpoint.
type AppointmentClient struct {
	*Client
}

// NewAppointmentClient returns an appointment submitter for the given API
// base URL.
func NewAppointmentClient(baseURL string) *AppointmentClient {
	return &AppointmentClient{Client: NewClient(baseURL)}
}

type appointmentRequest struct {
	ProviderID  string   `json:"provider_id"`
	ServiceID   string   `json:"service_id"`
	PatientID   string   `json:"patient_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Description string   `json:"description"`
	Attachments []string `json:"attachments"`
}

type appointmentResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Submit records the appointment upstream and returns the confirmed record.
func (c *AppointmentClient) Submit(ctx context.Context, req booking.SubmissionRequest) (*models.BookingRecord, error) {
	body := appointmentRequest{
		ProviderID:  req.ProviderID,
		ServiceID:   req.ServiceID,
		PatientID:   req.PatientID,
		StartDate:   req.Start.Format(WireTimeLayout),
		EndDate:     req.End.Format(WireTimeLayout),
		Description: req.Description,
		Attachments: []string{},
	}

	var resp appointmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/appointments", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("upstream did not assign an appointment id")
	}

	record := &models.BookingRecord{
		ID:         resp.ID,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		PatientID:  req.PatientID,
		Start:      req.Start,
		End:        req.End,
		CreatedAt:  time.Now(),
	}
	// Prefer the upstream echo of the booked times when parseable.
	if t, err := time.ParseInLocation(WireTimeLayout, resp.StartDate, time.Local); err == nil {
		record.Start = t
	}
	if t, err := time.ParseInLocation(WireTimeLayout, resp.EndDate, time.Local); err == nil {
		record.End = t
	}
	return record, nil
}
