package booking

import (
	"time"

	"medibook/models"
)

// DefaultServiceDurationMinutes is assumed when the upstream response carries
// no usable service duration.
const DefaultServiceDurationMinutes = 60

// DeriveSlots converts coarse availability windows into discrete back-to-back
// bookable slots of exactly the service duration. Each window is discretized
// independently: slots never span a window boundary and adjacent windows are
// never merged. Per-window order is preserved and no cross-window sort is
// applied (the upstream orders windows already).
//
// Only the time-of-day component of each window is trusted; it is spliced
// onto the requested calendar date before any arithmetic, which guards
// against date rollover between the upstream clock and ours. All duration
// math is integer, so there is no floating-point drift.
//
// The function is pure: identical inputs always yield identical output.
func DeriveSlots(windows []models.AvailabilityWindow, serviceDurationMinutes int, date models.CalendarDate) []models.BookableSlot {
	if serviceDurationMinutes <= 0 {
		serviceDurationMinutes = DefaultServiceDurationMinutes
	}
	slotDur := time.Duration(serviceDurationMinutes) * time.Minute

	var slots []models.BookableSlot
	for _, w := range windows {
		day := date.Time(w.Start.Location())
		start := day.Add(timeOfDay(w.Start))
		end := day.Add(timeOfDay(w.End))
		if !start.Before(end) {
			continue
		}

		available := end.Sub(start)
		if available < slotDur {
			// Too short to fit even one appointment.
			continue
		}

		count := int(available / slotDur)
		for i := 0; i < count; i++ {
			s := start.Add(time.Duration(i) * slotDur)
			e := s.Add(slotDur)
			if e.After(end) {
				break
			}
			slots = append(slots, models.BookableSlot{
				Start:        s,
				End:          e,
				DisplayLabel: s.Format("15:04") + " - " + e.Format("15:04"),
			})
		}
	}
	return slots
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
