package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConflictChecker decides whether a candidate (doctor, date, time range) may
// become a new or rescheduled appointment.
type ConflictChecker struct {
	repo Repository
}

func NewConflictChecker(repo Repository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// Check runs the conflict rules in order, short-circuiting on the first
// failure:
//
//  1. the date must not be in the past,
//  2. start must be before end,
//  3. the doctor must have active availability on that weekday,
//  4. the range must lie inside one availability block,
//  5. the range must not overlap any scheduled, confirmed or in-progress
//     appointment, ignoring the appointment identified by exclude (the one
//     being rescheduled).
//
// A nil return means the slot is bookable at the time of the read.
func (c *ConflictChecker) Check(ctx context.Context, doctorID uuid.UUID, date Date, start, end TimeOfDay, exclude uuid.UUID, now time.Time) error {
	if date.Before(DateOf(now)) {
		return NewValidationError("date", "cannot be in the past")
	}
	if !start.Before(end) {
		return NewValidationError("start_time", "must be before end time")
	}

	templates, err := c.repo.ListActiveTemplates(ctx, doctorID, date.Weekday())
	if err != nil {
		return fmt.Errorf("load availability: %w", err)
	}
	if len(templates) == 0 {
		return ErrDoctorUnavailable
	}
	if !withinAvailability(templates, start, end) {
		// Report the bounds of the first block so the caller can show the
		// doctor's actual hours.
		return &OutsideAvailabilityError{Start: templates[0].Start, End: templates[0].End}
	}

	existing, err := c.repo.ListDoctorAppointments(ctx, doctorID, date, BlockingStatuses)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	for i := range existing {
		appt := &existing[i]
		if appt.ID == exclude {
			continue
		}
		if appt.Overlaps(date, start, end) {
			return fmt.Errorf("%w: %s-%s is taken", ErrSlotConflict, appt.Start, appt.End)
		}
	}
	return nil
}

func withinAvailability(templates []AvailabilityTemplate, start, end TimeOfDay) bool {
	for i := range templates {
		if templates[i].Contains(start, end) {
			return true
		}
	}
	return false
}
