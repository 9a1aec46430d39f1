package handlers

import (
	"errors"
	"net/http"
	"time"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/booking"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// BookingHandler exposes the booking flow over HTTP.
type BookingHandler struct {
	Flow   booking.FlowService
	Logger *zap.Logger
}

// NewBookingHandler builds the handler around a flow service.
func NewBookingHandler(flow booking.FlowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Flow: flow, Logger: logger}
}

type startSessionInput struct {
	ProviderID string              `json:"providerId" validate:"required"`
	ServiceID  string              `json:"serviceId" validate:"required"`
	Service    *models.ServiceInfo `json:"service"`
}

// StartSession creates a new booking session for the authenticated patient.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input startSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	identity := middleware.IdentityFromContext(c)
	session, err := h.Flow.StartSession(c.Request.Context(), identity, input.ProviderID, input.ServiceID, input.Service)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

type selectDateInput struct {
	// Date deliberately stays untyped: clients send strings, epoch millis
	// or {year,month,day} objects. Normalization happens in one place.
	Date any `json:"date"`
}

// SelectDate picks a calendar date and loads the day's bookable slots.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input selectDateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.SelectDate(c.Request.Context(), sessionID, input.Date)
	if err != nil {
		h.respondFlowErrorWithSession(c, err, session)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

type selectSlotInput struct {
	Start time.Time `json:"start" validate:"required"`
}

// SelectSlot picks one of the derived slots and opens the booking form.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input selectSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.SelectSlot(c.Request.Context(), sessionID, input.Start)
	if err != nil {
		h.respondFlowErrorWithSession(c, err, session)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

type submitInput struct {
	Note string `json:"note" validate:"max=2000"`
}

// Submit registers the appointment with the upstream medical API.
func (h *BookingHandler) Submit(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input submitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	identity := middleware.IdentityFromContext(c)
	session, err := h.Flow.Submit(c.Request.Context(), sessionID, input.Note, identity)
	if err != nil {
		h.respondFlowErrorWithSession(c, err, session)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// InitiatePayment asks the gateway for a redirect URL for the recorded
// appointment.
func (h *BookingHandler) InitiatePayment(c *gin.Context) {
	sessionID := c.Param("sessionID")
	identity := middleware.IdentityFromContext(c)

	url, session, err := h.Flow.InitiatePayment(c.Request.Context(), sessionID, identity)
	if err != nil {
		h.respondFlowErrorWithSession(c, err, session)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "session": session})
}

// CancelSession discards an in-progress booking session.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Flow.CancelSession(c.Request.Context(), sessionID); err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}

func (h *BookingHandler) respondFlowError(c *gin.Context, err error) {
	h.respondFlowErrorWithSession(c, err, nil)
}

// respondFlowErrorWithSession converts a flow failure into a JSON response.
// The session snapshot (already persisted with its state and notice) rides
// along so clients can render the failure inline.
func (h *BookingHandler) respondFlowErrorWithSession(c *gin.Context, err error, session *models.BookingSession) {
	if errors.Is(err, booking.ErrSessionNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
		return
	}

	status := http.StatusInternalServerError
	var fe *booking.FlowError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case booking.KindValidation:
			status = http.StatusUnprocessableEntity
		case booking.KindConflict:
			status = http.StatusConflict
		case booking.KindFetch, booking.KindSubmission, booking.KindPayment:
			status = http.StatusBadGateway
		}
		h.Logger.Warn("booking flow error",
			zap.String("kind", string(fe.Kind)),
			zap.String("message", fe.Message))
		c.JSON(status, gin.H{"error": fe.Message, "kind": fe.Kind, "session": session})
		return
	}

	h.Logger.Error("booking flow internal error", zap.Error(err))
	c.JSON(status, gin.H{"error": "internal error"})
}
