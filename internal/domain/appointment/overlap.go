package appointment

import "time"

// Working day and slot grid used for availability lookups. All slot math
// is done in UTC.
const (
	dayStartHour = 9
	dayEndHour   = 17
	SlotMinutes  = 60
)

// Overlaps reports whether two appointment intervals share any time.
// Intervals are half-open [start, start+duration), so back-to-back
// appointments never overlap.
func Overlaps(aStart time.Time, aMinutes int, bStart time.Time, bMinutes int) bool {
	aEnd := aStart.Add(time.Duration(aMinutes) * time.Minute)
	bEnd := bStart.Add(time.Duration(bMinutes) * time.Minute)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DaySlots builds the hourly slot grid for one calendar day. Slots that
// start before now are omitted entirely; remaining slots are marked
// unavailable when any non-cancelled appointment overlaps them. The
// result is ordered by start time.
func DaySlots(date time.Time, now time.Time, booked []*Appointment) []Slot {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	slots := []Slot{}
	for h := dayStartHour; h < dayEndHour; h++ {
		start := day.Add(time.Duration(h) * time.Hour)
		if start.Before(now) {
			continue
		}
		available := true
		for _, b := range booked {
			if b.Status == StatusCancelled {
				continue
			}
			if Overlaps(start, SlotMinutes, b.StartTime, b.DurationMinutes) {
				available = false
				break
			}
		}
		slots = append(slots, Slot{
			Start:     start,
			End:       start.Add(SlotMinutes * time.Minute),
			Time:      start.Format("15:04"),
			Available: available,
		})
	}
	return slots
}
