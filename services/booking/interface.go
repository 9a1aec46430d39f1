package booking

import (
	"context"
	"time"

	"medibook/models"

	"go.uber.org/zap"
)

// AvailabilityResult is what the upstream schedule endpoint yields for one
// (provider, service, date) query: coarse windows plus the service duration
// attached to the first window. An empty Windows slice means no availability,
// not an error.
type AvailabilityResult struct {
	Windows         []models.AvailabilityWindow
	DurationMinutes int
}

// AvailabilityFetcher looks up a provider's coarse availability windows for
// a calendar date.
type AvailabilityFetcher interface {
	FetchWindows(ctx context.Context, providerID, serviceID string, date models.CalendarDate) (*AvailabilityResult, error)
}

// SubmissionRequest carries everything the upstream needs to record an
// appointment.
type SubmissionRequest struct {
	ProviderID  string
	ServiceID   string
	PatientID   string
	Start       time.Time
	End         time.Time
	Description string
}

// AppointmentSubmitter records a booking with the upstream medical API.
type AppointmentSubmitter interface {
	Submit(ctx context.Context, req SubmissionRequest) (*models.BookingRecord, error)
}

// PaymentInitiator requests a redirect URL from the payment gateway.
type PaymentInitiator interface {
	Initiate(ctx context.Context, token string, req models.PaymentRequest) (*models.PaymentResult, error)
}

// CatalogSource fetches the current service record, used to recompute the
// payment amount at redirect time.
type CatalogSource interface {
	GetService(ctx context.Context, serviceID string) (*models.ServiceInfo, error)
}

// ReminderScheduler queues an appointment reminder after a successful
// submission. Failures are logged, never surfaced to the patient.
type ReminderScheduler interface {
	ScheduleReminder(record models.BookingRecord) error
}

// FlowService drives a booking session through the
// date -> slot -> form -> payment state machine.
type FlowService interface {
	StartSession(ctx context.Context, identity *models.Identity, providerID, serviceID string, svc *models.ServiceInfo) (*models.BookingSession, error)
	SelectDate(ctx context.Context, sessionID string, rawDate any) (*models.BookingSession, error)
	SelectSlot(ctx context.Context, sessionID string, slotStart time.Time) (*models.BookingSession, error)
	Submit(ctx context.Context, sessionID, note string, identity *models.Identity) (*models.BookingSession, error)
	InitiatePayment(ctx context.Context, sessionID string, identity *models.Identity) (string, *models.BookingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// DefaultFlowService implements FlowService.
type DefaultFlowService struct {
	Store     SessionStore
	Fetcher   AvailabilityFetcher
	Submitter AppointmentSubmitter
	Payments  PaymentInitiator
	Catalog   CatalogSource
	Reminders ReminderScheduler
	Clock     Clock
	Logger    *zap.Logger

	// DefaultFee is charged when a service carries no price data at all.
	DefaultFee float64
}

// Fallbacks are returned rather than assigned so a service shared across
// requests is never mutated after construction.
func (s *DefaultFlowService) clock() Clock {
	if s.Clock == nil {
		return realClock{}
	}
	return s.Clock
}

func (s *DefaultFlowService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.L()
	}
	return s.Logger
}
