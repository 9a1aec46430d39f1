package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medibook/models"
	"medibook/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFlow struct {
	startFn   func(ctx context.Context, identity *models.Identity, providerID, serviceID string, svc *models.ServiceInfo) (*models.BookingSession, error)
	dateFn    func(ctx context.Context, sessionID string, rawDate any) (*models.BookingSession, error)
	slotFn    func(ctx context.Context, sessionID string, slotStart time.Time) (*models.BookingSession, error)
	submitFn  func(ctx context.Context, sessionID, note string, identity *models.Identity) (*models.BookingSession, error)
	paymentFn func(ctx context.Context, sessionID string, identity *models.Identity) (string, *models.BookingSession, error)
	cancelFn  func(ctx context.Context, sessionID string) error
}

func (f *fakeFlow) StartSession(ctx context.Context, identity *models.Identity, providerID, serviceID string, svc *models.ServiceInfo) (*models.BookingSession, error) {
	return f.startFn(ctx, identity, providerID, serviceID, svc)
}

func (f *fakeFlow) SelectDate(ctx context.Context, sessionID string, rawDate any) (*models.BookingSession, error) {
	return f.dateFn(ctx, sessionID, rawDate)
}

func (f *fakeFlow) SelectSlot(ctx context.Context, sessionID string, slotStart time.Time) (*models.BookingSession, error) {
	return f.slotFn(ctx, sessionID, slotStart)
}

func (f *fakeFlow) Submit(ctx context.Context, sessionID, note string, identity *models.Identity) (*models.BookingSession, error) {
	return f.submitFn(ctx, sessionID, note, identity)
}

func (f *fakeFlow) InitiatePayment(ctx context.Context, sessionID string, identity *models.Identity) (string, *models.BookingSession, error) {
	return f.paymentFn(ctx, sessionID, identity)
}

func (f *fakeFlow) CancelSession(ctx context.Context, sessionID string) error {
	return f.cancelFn(ctx, sessionID)
}

func newTestRouter(flow booking.FlowService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(flow, zap.NewNop())

	router := gin.New()
	// Stands in for the JWT middleware: a fixed patient identity.
	router.Use(func(c *gin.Context) {
		c.Set("identity", &models.Identity{UserID: "patient-1", Role: models.RolePatient, Token: "tok"})
	})
	group := router.Group("/api/booking")
	group.POST("/session", handler.StartSession)
	group.PUT("/session/:sessionID/date", handler.SelectDate)
	group.PUT("/session/:sessionID/slot", handler.SelectSlot)
	group.POST("/session/:sessionID/submit", handler.Submit)
	group.POST("/session/:sessionID/payment", handler.InitiatePayment)
	group.DELETE("/session/:sessionID", handler.CancelSession)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStartSessionEndpoint(t *testing.T) {
	flow := &fakeFlow{
		startFn: func(_ context.Context, identity *models.Identity, providerID, serviceID string, _ *models.ServiceInfo) (*models.BookingSession, error) {
			require.NotNil(t, identity)
			assert.Equal(t, "patient-1", identity.UserID)
			return &models.BookingSession{SessionID: "sess-1", ProviderID: providerID, ServiceID: serviceID, State: models.StateIdle}, nil
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPost, "/api/booking/session",
		gin.H{"providerId": "doc-1", "serviceId": "svc-1"})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Session models.BookingSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.Session.SessionID)
	assert.Equal(t, models.StateIdle, resp.Session.State)
}

func TestStartSessionEndpoint_MissingFields(t *testing.T) {
	router := newTestRouter(&fakeFlow{})
	w := doRequest(t, router, http.MethodPost, "/api/booking/session", gin.H{"providerId": "doc-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectDateEndpoint_PassesRawShapeThrough(t *testing.T) {
	var gotDate any
	flow := &fakeFlow{
		dateFn: func(_ context.Context, sessionID string, rawDate any) (*models.BookingSession, error) {
			assert.Equal(t, "sess-1", sessionID)
			gotDate = rawDate
			return &models.BookingSession{SessionID: sessionID, State: models.StateSlotsReady}, nil
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPut, "/api/booking/session/sess-1/date",
		gin.H{"date": gin.H{"year": 2026, "month": 9, "day": 10}})

	require.Equal(t, http.StatusOK, w.Code)
	shape, ok := gotDate.(map[string]any)
	require.True(t, ok, "object date shapes must reach the flow untouched")
	assert.EqualValues(t, 2026, shape["year"])
}

func TestSelectDateEndpoint_PastDate(t *testing.T) {
	flow := &fakeFlow{
		dateFn: func(_ context.Context, sessionID string, _ any) (*models.BookingSession, error) {
			session := &models.BookingSession{
				SessionID: sessionID,
				State:     models.StateIdle,
				Notice:    &models.Notice{ID: "n1", Kind: "validation", Message: "Cannot book an appointment in the past"},
			}
			return session, &booking.FlowError{Kind: booking.KindValidation, Message: "selected date is in the past"}
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPut, "/api/booking/session/sess-1/date", gin.H{"date": "2020-01-01"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		Kind    string                 `json:"kind"`
		Session *models.BookingSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation", resp.Kind)
	require.NotNil(t, resp.Session, "clients get the persisted snapshot with its notice")
	require.NotNil(t, resp.Session.Notice)
}

func TestSubmitEndpoint_ConflictMapsTo409(t *testing.T) {
	flow := &fakeFlow{
		submitFn: func(_ context.Context, sessionID, _ string, _ *models.Identity) (*models.BookingSession, error) {
			return &models.BookingSession{SessionID: sessionID, State: models.StateSubmitting},
				&booking.FlowError{Kind: booking.KindConflict, Message: "a submission is already in progress"}
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPost, "/api/booking/session/sess-1/submit", gin.H{"note": "hi"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitEndpoint_UpstreamFailureMapsTo502(t *testing.T) {
	flow := &fakeFlow{
		submitFn: func(_ context.Context, sessionID, _ string, _ *models.Identity) (*models.BookingSession, error) {
			return &models.BookingSession{SessionID: sessionID, State: models.StateFormOpen},
				&booking.FlowError{Kind: booking.KindSubmission, Message: "failed to register the appointment"}
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPost, "/api/booking/session/sess-1/submit", gin.H{})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestInitiatePaymentEndpoint(t *testing.T) {
	flow := &fakeFlow{
		paymentFn: func(_ context.Context, sessionID string, identity *models.Identity) (string, *models.BookingSession, error) {
			require.NotNil(t, identity)
			return "https://pay.example/r/1",
				&models.BookingSession{SessionID: sessionID, State: models.StatePaymentRedirected}, nil
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPost, "/api/booking/session/sess-1/payment", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://pay.example/r/1", resp.URL)
}

func TestSessionNotFoundMapsTo404(t *testing.T) {
	flow := &fakeFlow{
		dateFn: func(_ context.Context, _ string, _ any) (*models.BookingSession, error) {
			return nil, booking.ErrSessionNotFound
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodPut, "/api/booking/session/missing/date", gin.H{"date": "2026-09-10"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelSessionEndpoint(t *testing.T) {
	var cancelled string
	flow := &fakeFlow{
		cancelFn: func(_ context.Context, sessionID string) error {
			cancelled = sessionID
			return nil
		},
	}
	router := newTestRouter(flow)

	w := doRequest(t, router, http.MethodDelete, "/api/booking/session/sess-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", cancelled)
}
