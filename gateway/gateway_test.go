package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medibook/models"
	"medibook/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = models.CalendarDate{Year: 2026, Month: time.September, Day: 10}

func TestScheduleClient_FetchWindows(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/schedules", r.URL.Path)
		gotQuery = map[string]string{
			"provider_id": r.URL.Query().Get("provider_id"),
			"service_id":  r.URL.Query().Get("service_id"),
			"date":        r.URL.Query().Get("date"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"start_time":"2026-09-10 09:00:00","end_time":"2026-09-10 11:00:00","services":[{"time":30}]},
			{"start_time":"2026-09-10 14:00:00","end_time":"2026-09-10 15:30:00","services":[{"time":30}]}
		]`))
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL)
	result, err := client.FetchWindows(context.Background(), "doc-1", "svc-1", testDate)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"provider_id": "doc-1",
		"service_id":  "svc-1",
		"date":        "2026-09-10",
	}, gotQuery)

	require.Len(t, result.Windows, 2)
	assert.Equal(t, 30, result.DurationMinutes)
	assert.Equal(t, 9, result.Windows[0].Start.Hour())
	assert.Equal(t, 11, result.Windows[0].End.Hour())
	assert.Equal(t, 30, result.Windows[1].End.Minute())
}

func TestScheduleClient_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL)
	result, err := client.FetchWindows(context.Background(), "doc-1", "svc-1", testDate)
	require.NoError(t, err)
	assert.Empty(t, result.Windows)
	assert.Zero(t, result.DurationMinutes)
}

func TestScheduleClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL)
	_, err := client.FetchWindows(context.Background(), "doc-1", "svc-1", testDate)
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadGateway, ue.Status)
}

func TestScheduleClient_BadTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"start_time":"not a time","end_time":"2026-09-10 11:00:00"}]`))
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL)
	_, err := client.FetchWindows(context.Background(), "doc-1", "svc-1", testDate)
	assert.Error(t, err)
}

func TestAppointmentClient_Submit(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/appointments", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"appt-42","start_date":"2026-09-10 09:30:00","end_date":"2026-09-10 10:00:00"}`))
	}))
	defer srv.Close()

	start := time.Date(2026, time.September, 10, 9, 30, 0, 0, time.Local)
	client := NewAppointmentClient(srv.URL)
	record, err := client.Submit(context.Background(), booking.SubmissionRequest{
		ProviderID:  "doc-1",
		ServiceID:   "svc-1",
		PatientID:   "patient-1",
		Start:       start,
		End:         start.Add(30 * time.Minute),
		Description: "follow-up visit",
	})
	require.NoError(t, err)

	assert.Equal(t, "doc-1", gotBody["provider_id"])
	assert.Equal(t, "patient-1", gotBody["patient_id"])
	assert.Equal(t, "2026-09-10 09:30:00", gotBody["start_date"])
	assert.Equal(t, "2026-09-10 10:00:00", gotBody["end_date"])
	assert.Equal(t, "follow-up visit", gotBody["description"])
	attachments, ok := gotBody["attachments"].([]any)
	require.True(t, ok, "attachments must be present as an empty array, not null")
	assert.Empty(t, attachments)

	assert.Equal(t, "appt-42", record.ID)
	assert.True(t, record.Start.Equal(start))
	assert.True(t, record.End.Equal(start.Add(30*time.Minute)))
}

func TestAppointmentClient_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewAppointmentClient(srv.URL)
	_, err := client.Submit(context.Background(), booking.SubmissionRequest{
		ProviderID: "doc-1",
		Start:      time.Now(),
		End:        time.Now().Add(time.Hour),
	})
	assert.Error(t, err)
}

func TestPaymentClient_Initiate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/request", r.URL.Path)
		require.Equal(t, "Bearer patient-token", r.Header.Get("Authorization"))

		var body models.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 80000.0, body.Amount)
		assert.Equal(t, "appt-42", body.AppointmentID)

		w.Write([]byte(`{"success":true,"url":"https://pay.example/r/xyz"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL)
	result, err := client.Initiate(context.Background(), "patient-token", models.PaymentRequest{
		Amount:        80000,
		AppointmentID: "appt-42",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "https://pay.example/r/xyz", result.URL)
}

func TestPaymentClient_GatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL)
	_, err := client.Initiate(context.Background(), "tok", models.PaymentRequest{Amount: 1})
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
}

func TestCatalogClient_GetService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/services/svc-1", r.URL.Path)
		w.Write([]byte(`{"id":"svc-1","name":"Consultation","price":100000,"discount_price":80000,"time":30}`))
	}))
	defer srv.Close()

	client := NewCatalogClient(srv.URL)
	svc, err := client.GetService(context.Background(), "svc-1")
	require.NoError(t, err)
	assert.Equal(t, "svc-1", svc.ID)
	assert.Equal(t, 100000.0, svc.Price)
	assert.Equal(t, 80000.0, svc.DiscountPrice)
	assert.Equal(t, 30, svc.DurationMinutes)
}
