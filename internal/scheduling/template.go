package scheduling

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSlotMinutes = 30
	MaxSlotMinutes     = 240
)

// AvailabilityTemplate is a doctor's recurring open-hours block for one day
// of the week. Templates are soft-deleted (deactivated) rather than removed,
// so historical slot computations stay reproducible.
type AvailabilityTemplate struct {
	ID          uuid.UUID
	DoctorID    uuid.UUID
	Weekday     time.Weekday
	Start       TimeOfDay
	End         TimeOfDay
	SlotMinutes int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAvailabilityTemplate validates and builds an active template. A zero
// slotMinutes selects the default of 30.
func NewAvailabilityTemplate(doctorID uuid.UUID, weekday time.Weekday, start, end TimeOfDay, slotMinutes int, now time.Time) (*AvailabilityTemplate, error) {
	if doctorID == uuid.Nil {
		return nil, NewValidationError("doctor_id", "is required")
	}
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, NewValidationError("day_of_week", "must be between 0 and 6")
	}
	if slotMinutes == 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if err := validateTemplateBounds(start, end, slotMinutes); err != nil {
		return nil, err
	}

	return &AvailabilityTemplate{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		Weekday:     weekday,
		Start:       start,
		End:         end,
		SlotMinutes: slotMinutes,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateTemplateBounds(start, end TimeOfDay, slotMinutes int) error {
	if !start.Before(end) {
		return NewValidationError("start_time", "must be before end time")
	}
	if slotMinutes < 1 || slotMinutes > MaxSlotMinutes {
		return NewValidationError("slot_duration_minutes", "must be between 1 and 240")
	}
	return nil
}

// Update replaces the time bounds and slot duration.
func (t *AvailabilityTemplate) Update(start, end TimeOfDay, slotMinutes int, now time.Time) error {
	if slotMinutes == 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if err := validateTemplateBounds(start, end, slotMinutes); err != nil {
		return err
	}
	t.Start = start
	t.End = end
	t.SlotMinutes = slotMinutes
	t.UpdatedAt = now
	return nil
}

// Deactivate soft-deletes the template. Already-booked appointments are not
// affected.
func (t *AvailabilityTemplate) Deactivate(now time.Time) {
	t.Active = false
	t.UpdatedAt = now
}

func (t *AvailabilityTemplate) Activate(now time.Time) {
	t.Active = true
	t.UpdatedAt = now
}

// Overlaps reports whether two templates on the same weekday have
// intersecting time ranges.
func (t *AvailabilityTemplate) Overlaps(other *AvailabilityTemplate) bool {
	return t.Weekday == other.Weekday &&
		t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Contains reports whether [start,end) lies entirely within the template's
// open hours.
func (t *AvailabilityTemplate) Contains(start, end TimeOfDay) bool {
	return !start.Before(t.Start) && !t.End.Before(end)
}
