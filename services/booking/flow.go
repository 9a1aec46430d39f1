package booking

import (
	"context"
	"time"

	"medibook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// noticeTTL is how long a transient notice stays on a session before the
	// flow's clock clears it.
	noticeTTL = 3 * time.Second
	// paymentProcessingDelay is the fixed user-facing pause before handing
	// out the gateway redirect URL. A UX pause, not a network timeout.
	paymentProcessingDelay = 2 * time.Second
)

// StartSession creates a new booking session in the idle state and persists
// it. The service snapshot (price, discount, duration) travels with the
// session so the flow can price the visit without re-fetching on every step.
func (s *DefaultFlowService) StartSession(ctx context.Context, identity *models.Identity, providerID, serviceID string, svc *models.ServiceInfo) (*models.BookingSession, error) {
	if !identity.CanBook() {
		return nil, newFlowError(KindValidation, "only authenticated patients can start a booking", nil)
	}
	if providerID == "" || serviceID == "" {
		return nil, newFlowError(KindValidation, "provider and service are required", nil)
	}

	session := &models.BookingSession{
		SessionID:  uuid.New().String(),
		PatientID:  identity.UserID,
		ProviderID: providerID,
		ServiceID:  serviceID,
		Service:    svc,
		State:      models.StateIdle,
		CreatedAt:  s.clock().Now(),
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectDate accepts a candidate calendar date, guards it against the past,
// and on acceptance fetches availability and discretizes it into slots.
// Valid from any state. A past date leaves the session untouched apart from
// a transient notice. Each accepted date bumps the fetch generation; a
// response that comes back for an older generation is discarded so a slow
// earlier fetch can never clobber newer data.
func (s *DefaultFlowService) SelectDate(ctx context.Context, sessionID string, rawDate any) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	date, perr := ParseSelectedDate(rawDate)
	if perr != nil {
		return session, newFlowError(KindValidation, "unrecognized date", perr)
	}

	if IsPastDate(date, s.clock().Now()) {
		s.setTransientNotice(session, string(KindValidation), "Cannot book an appointment in the past")
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, newFlowError(KindValidation, "selected date is in the past", nil)
	}

	// Accept: reset selection and any prior submission state.
	session.Date = date
	session.Slot = nil
	session.Note = ""
	session.Record = nil
	session.Amount = 0
	session.Availability = nil
	session.Notice = nil
	session.State = models.StateLoading
	session.FetchGeneration++
	generation := session.FetchGeneration
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	result, fetchErr := s.Fetcher.FetchWindows(ctx, session.ProviderID, session.ServiceID, date)

	// Re-read the session: another date pick may have superseded this fetch
	// while it was in flight. Stale responses are dropped on the floor.
	current, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.FetchGeneration != generation {
		s.logger().Debug("discarding stale availability response",
			zap.String("sessionID", sessionID),
			zap.Uint64("generation", generation),
			zap.Uint64("current", current.FetchGeneration))
		return current, nil
	}

	if fetchErr != nil {
		s.logger().Warn("availability fetch failed",
			zap.String("sessionID", sessionID),
			zap.String("providerID", current.ProviderID),
			zap.Error(fetchErr))
		current.State = models.StateFetchError
		s.setTransientNotice(current, string(KindFetch), "Could not load available times, please pick a date again")
		if err := s.Store.Save(ctx, current); err != nil {
			return nil, err
		}
		return current, newFlowError(KindFetch, "failed to fetch availability", fetchErr)
	}

	if len(result.Windows) == 0 {
		current.State = models.StateNoSlots
		if err := s.Store.Save(ctx, current); err != nil {
			return nil, err
		}
		return current, nil
	}

	duration := result.DurationMinutes
	if duration <= 0 {
		duration = DefaultServiceDurationMinutes
	}
	current.Availability = &models.Availability{
		Date:            date.String(),
		DurationMinutes: duration,
		Slots:           DeriveSlots(result.Windows, duration, date),
	}
	if len(current.Availability.Slots) == 0 {
		current.State = models.StateNoSlots
	} else {
		current.State = models.StateSlotsReady
	}
	if err := s.Store.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// SelectSlot picks one of the derived slots and opens the booking form.
// Valid only once slots are ready; re-selecting while the form is open
// simply replaces the slot and keeps the form open.
func (s *DefaultFlowService) SelectSlot(ctx context.Context, sessionID string, slotStart time.Time) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateSlotsReady && session.State != models.StateFormOpen {
		return session, newFlowError(KindConflict, "no slots to select in the current step", nil)
	}

	var picked *models.BookableSlot
	if session.Availability != nil {
		for i := range session.Availability.Slots {
			if session.Availability.Slots[i].Start.Equal(slotStart) {
				picked = &session.Availability.Slots[i]
				break
			}
		}
	}
	if picked == nil {
		return session, newFlowError(KindValidation, "selected time is not among the available slots", nil)
	}

	slot := *picked
	session.Slot = &slot
	session.State = models.StateFormOpen
	session.Notice = nil
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit records the appointment with the upstream API. Valid only while the
// form is open and only for an authenticated patient. Missing date or slot
// never reaches the network. On failure the form stays open with a transient
// notice; on success the session moves to awaiting_payment carrying the
// record and the resolved amount.
func (s *DefaultFlowService) Submit(ctx context.Context, sessionID, note string, identity *models.Identity) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State == models.StateSubmitting {
		return session, newFlowError(KindConflict, "a submission is already in progress", nil)
	}
	if session.State != models.StateFormOpen {
		return session, newFlowError(KindConflict, "the booking form is not open", nil)
	}
	if !identity.CanBook() || identity.UserID != session.PatientID {
		return session, newFlowError(KindValidation, "booking requires an authenticated patient", nil)
	}
	if session.Date.IsZero() || session.Slot == nil {
		s.setTransientNotice(session, string(KindValidation), "Pick a date and time before submitting")
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, newFlowError(KindValidation, "date and time slot are required", nil)
	}

	session.Note = note
	session.State = models.StateSubmitting
	session.Notice = nil
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	record, subErr := s.Submitter.Submit(ctx, SubmissionRequest{
		ProviderID:  session.ProviderID,
		ServiceID:   session.ServiceID,
		PatientID:   session.PatientID,
		Start:       session.Slot.Start,
		End:         session.Slot.End,
		Description: note,
	})
	if subErr != nil {
		s.logger().Warn("booking submission failed",
			zap.String("sessionID", sessionID),
			zap.Error(subErr))
		session.State = models.StateFormOpen
		s.setTransientNotice(session, string(KindSubmission), "Could not register the appointment, please try again")
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, newFlowError(KindSubmission, "failed to register the appointment", subErr)
	}

	amount := ResolveAmount(session.Service, s.DefaultFee)
	record.Amount = amount
	session.Record = record
	session.Amount = amount
	session.Note = ""
	session.State = models.StateAwaitingPayment
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(*record); err != nil {
			s.logger().Warn("failed to schedule appointment reminder",
				zap.String("appointmentID", record.ID), zap.Error(err))
		}
	}

	s.logger().Info("appointment recorded",
		zap.String("sessionID", sessionID),
		zap.String("appointmentID", record.ID),
		zap.Float64("amount", amount))
	return session, nil
}

// InitiatePayment asks the gateway for a redirect URL. Valid only from
// awaiting_payment. The amount is recomputed against the current service
// record rather than the cached figure, so a price change between
// confirmation and redirect is charged correctly. On success the session
// terminates in payment_redirected after a fixed processing pause; on
// failure it stays in awaiting_payment with a blocking notice so the patient
// must acknowledge before retrying.
func (s *DefaultFlowService) InitiatePayment(ctx context.Context, sessionID string, identity *models.Identity) (string, *models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	if session.State != models.StateAwaitingPayment || session.Record == nil {
		return "", session, newFlowError(KindConflict, "there is no appointment awaiting payment", nil)
	}
	if identity == nil || identity.UserID != session.PatientID {
		return "", session, newFlowError(KindValidation, "payment requires the booking patient", nil)
	}

	if s.Catalog != nil {
		if fresh, err := s.Catalog.GetService(ctx, session.ServiceID); err == nil && fresh != nil {
			session.Service = fresh
		} else if err != nil {
			// Fall back to the session snapshot.
			s.logger().Warn("service refresh failed, using cached price data",
				zap.String("serviceID", session.ServiceID), zap.Error(err))
		}
	}
	amount := ResolveAmount(session.Service, s.DefaultFee)
	session.Amount = amount

	result, payErr := s.Payments.Initiate(ctx, identity.Token, models.PaymentRequest{
		Amount:        amount,
		AppointmentID: session.Record.ID,
	})
	if payErr != nil || result == nil || !result.Success || result.URL == "" {
		s.logger().Error("payment initiation failed",
			zap.String("sessionID", sessionID),
			zap.String("appointmentID", session.Record.ID),
			zap.Error(payErr))
		session.Notice = &models.Notice{
			ID:       uuid.New().String(),
			Kind:     string(KindPayment),
			Message:  "Payment could not be started. The appointment is reserved; please retry the payment.",
			Blocking: true,
		}
		if err := s.Store.Save(ctx, session); err != nil {
			return "", nil, err
		}
		return "", session, newFlowError(KindPayment, "payment gateway did not return a redirect URL", payErr)
	}

	// Fixed user-facing processing pause before the redirect.
	if err := s.clock().Sleep(ctx, paymentProcessingDelay); err != nil {
		return "", session, err
	}

	session.Notice = nil
	session.State = models.StatePaymentRedirected
	if err := s.Store.Save(ctx, session); err != nil {
		return "", nil, err
	}
	return result.URL, session, nil
}

// CancelSession discards an in-progress booking session.
func (s *DefaultFlowService) CancelSession(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

// setTransientNotice attaches a notice to the session and schedules its
// removal after noticeTTL. The notice ID guards against a stale timer
// clearing a newer notice.
func (s *DefaultFlowService) setTransientNotice(session *models.BookingSession, kind, message string) {
	notice := &models.Notice{
		ID:      uuid.New().String(),
		Kind:    kind,
		Message: message,
	}
	session.Notice = notice

	sessionID := session.SessionID
	noticeID := notice.ID
	s.clock().AfterFunc(noticeTTL, func() {
		s.clearNotice(sessionID, noticeID)
	})
}

func (s *DefaultFlowService) clearNotice(sessionID, noticeID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return
	}
	if session.Notice == nil || session.Notice.ID != noticeID {
		return
	}
	session.Notice = nil
	if err := s.Store.Save(ctx, session); err != nil {
		s.logger().Warn("failed to clear session notice",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
}
