package booking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"medibook/models"
)

// Date string shapes accepted from clients, tried in order.
var selectedDateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseSelectedDate normalizes the loose date shapes clients send into the
// one canonical CalendarDate. Accepted inputs: CalendarDate, time.Time,
// date strings (see selectedDateLayouts), epoch milliseconds, and JSON
// objects carrying year/month/day fields. All format sniffing lives here so
// call sites never inspect raw payloads.
func ParseSelectedDate(input any) (models.CalendarDate, error) {
	switch v := input.(type) {
	case models.CalendarDate:
		return v, nil
	case *models.CalendarDate:
		if v == nil {
			return models.CalendarDate{}, fmt.Errorf("selected date is nil")
		}
		return *v, nil
	case time.Time:
		return models.NewCalendarDate(v), nil
	case string:
		for _, layout := range selectedDateLayouts {
			if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
				return models.NewCalendarDate(t), nil
			}
		}
		return models.CalendarDate{}, fmt.Errorf("unrecognized date string %q", v)
	case float64:
		return fromEpochMillis(int64(v))
	case int64:
		return fromEpochMillis(v)
	case int:
		return fromEpochMillis(int64(v))
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return models.CalendarDate{}, fmt.Errorf("unrecognized numeric date %q", v.String())
		}
		return fromEpochMillis(n)
	case map[string]any:
		return fromDateObject(v)
	case nil:
		return models.CalendarDate{}, fmt.Errorf("selected date is missing")
	default:
		return models.CalendarDate{}, fmt.Errorf("unsupported date value of type %T", input)
	}
}

func fromEpochMillis(millis int64) (models.CalendarDate, error) {
	if millis <= 0 {
		return models.CalendarDate{}, fmt.Errorf("invalid epoch milliseconds %d", millis)
	}
	return models.NewCalendarDate(time.UnixMilli(millis).In(time.Local)), nil
}

func fromDateObject(obj map[string]any) (models.CalendarDate, error) {
	year, okY := intField(obj, "year")
	month, okM := intField(obj, "month")
	day, okD := intField(obj, "day")
	if !okY || !okM || !okD {
		return models.CalendarDate{}, fmt.Errorf("date object must carry numeric year, month and day")
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return models.CalendarDate{}, fmt.Errorf("date object out of range: %d-%d-%d", year, month, day)
	}
	return models.CalendarDate{Year: year, Month: time.Month(month), Day: day}, nil
}

func intField(obj map[string]any, key string) (int, bool) {
	switch n := obj[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// IsPastDate reports whether candidate falls strictly before the day of
// "now". Both sides are normalized to local midnight first, so today is
// never past regardless of the time of day. Every date entry point in the
// flow must go through this single guard.
func IsPastDate(candidate models.CalendarDate, now time.Time) bool {
	today := models.NewCalendarDate(now)
	return candidate.Time(now.Location()).Before(today.Time(now.Location()))
}
