package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"medibook/models"
	"medibook/services/booking"
)

// ScheduleClient implements booking.AvailabilityFetcher against the medical
// API's schedule endpoint.
type ScheduleClient struct {
	*Client
}

// NewScheduleClient returns an availability fetcher for the given API base URL.
func NewScheduleClient(baseURL string) *ScheduleClient {
	return &ScheduleClient{Client: NewClient(baseURL)}
}

// scheduleEntry is the upstream wire shape: timestamps plus the services
// taught in that window, the first of which carries the visit duration.
type scheduleEntry struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Services  []struct {
		Time int `json:"time"`
	} `json:"services"`
}

// FetchWindows queries the provider's coarse availability windows for a
// date. An empty response is valid and means no availability that day.
// The service duration is taken from the first returned window, matching
// how the upstream publishes it.
func (c *ScheduleClient) FetchWindows(ctx context.Context, providerID, serviceID string, date models.CalendarDate) (*booking.AvailabilityResult, error) {
	q := url.Values{}
	q.Set("provider_id", providerID)
	q.Set("service_id", serviceID)
	q.Set("date", date.String())

	var entries []scheduleEntry
	if err := c.doJSON(ctx, http.MethodGet, "/schedules?"+q.Encode(), "", nil, &entries); err != nil {
		return nil, err
	}

	result := &booking.AvailabilityResult{}
	for _, e := range entries {
		start, err := time.ParseInLocation(WireTimeLayout, e.StartTime, time.Local)
		if err != nil {
			return nil, fmt.Errorf("bad start_time %q: %w", e.StartTime, err)
		}
		end, err := time.ParseInLocation(WireTimeLayout, e.EndTime, time.Local)
		if err != nil {
			return nil, fmt.Errorf("bad end_time %q: %w", e.EndTime, err)
		}
		result.Windows = append(result.Windows, models.AvailabilityWindow{Start: start, End: end})
	}
	if len(entries) > 0 && len(entries[0].Services) > 0 {
		result.DurationMinutes = entries[0].Services[0].Time
	}
	return result, nil
}
