package scheduling

import "time"

// TimeSlot is a derived bookable interval. It is never persisted; slot
// listings are recomputed per query against the current appointment set.
type TimeSlot struct {
	Start     TimeOfDay `json:"start_time"`
	End       TimeOfDay `json:"end_time"`
	Available bool      `json:"available"`
}

// GenerateSlots partitions one availability template into fixed-duration
// slots for a given date and marks each free or taken against the doctor's
// existing appointments. A trailing partial slot is dropped. On the current
// date, slots whose start has already passed are marked unavailable.
//
// The result is a pure function of (template, date, appointments, now): the
// same inputs always produce the same sequence. An inactive template, or one
// for a different weekday, yields no slots.
func GenerateSlots(tmpl *AvailabilityTemplate, date Date, appointments []Appointment, now time.Time) []TimeSlot {
	if tmpl == nil || !tmpl.Active || tmpl.Weekday != date.Weekday() {
		return nil
	}

	var slots []TimeSlot
	for cursor := tmpl.Start; !tmpl.End.Before(cursor.Add(tmpl.SlotMinutes)); cursor = cursor.Add(tmpl.SlotMinutes) {
		slot := TimeSlot{
			Start:     cursor,
			End:       cursor.Add(tmpl.SlotMinutes),
			Available: true,
		}
		if slotTaken(slot, date, appointments) || slotElapsed(slot, date, now) {
			slot.Available = false
		}
		slots = append(slots, slot)
	}
	return slots
}

func slotTaken(slot TimeSlot, date Date, appointments []Appointment) bool {
	for i := range appointments {
		appt := &appointments[i]
		if appt.Status.Terminal() {
			continue
		}
		if appt.Overlaps(date, slot.Start, slot.End) {
			return true
		}
	}
	return false
}

func slotElapsed(slot TimeSlot, date Date, now time.Time) bool {
	if !date.Equal(DateOf(now)) {
		return false
	}
	return !slot.Start.After(TimeOfDayFrom(now))
}
