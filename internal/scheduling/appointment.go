package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// BlockingStatuses are the statuses that make an appointment occupy its time
// range for conflict purposes. Cancelled, completed and no-show never conflict.
var BlockingStatuses = []Status{StatusScheduled, StatusConfirmed, StatusInProgress}

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a single booked visit. Status changes go through the named
// transition methods only; nothing else mutates Status.
type Appointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      Date
	Start     TimeOfDay
	End       TimeOfDay
	Status    Status
	Reason    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAppointment validates the booking input and returns a new appointment in
// the scheduled state. It does not check for conflicts; that is the
// scheduling service's job before persisting.
func NewAppointment(patientID, doctorID uuid.UUID, date Date, start, end TimeOfDay, reason string, now time.Time) (*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, NewValidationError("patient_id", "is required")
	}
	if doctorID == uuid.Nil {
		return nil, NewValidationError("doctor_id", "is required")
	}
	if reason == "" {
		return nil, NewValidationError("reason", "is required")
	}
	if err := validateSlotTimes(date, start, end, now); err != nil {
		return nil, err
	}

	return &Appointment{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Start:     start,
		End:       end,
		Status:    StatusScheduled,
		Reason:    reason,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateSlotTimes(date Date, start, end TimeOfDay, now time.Time) error {
	if date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if date.Before(DateOf(now)) {
		return NewValidationError("date", "cannot be in the past")
	}
	if !start.Before(end) {
		return NewValidationError("start_time", "must be before end time")
	}
	return nil
}

// Confirm moves a scheduled appointment to confirmed.
func (a *Appointment) Confirm(now time.Time) error {
	if a.Status != StatusScheduled {
		return &StateTransitionError{Current: a.Status, Operation: "confirm"}
	}
	a.Status = StatusConfirmed
	a.UpdatedAt = now
	return nil
}

// MarkInProgress records that a confirmed visit has started.
func (a *Appointment) MarkInProgress(now time.Time) error {
	if a.Status != StatusConfirmed {
		return &StateTransitionError{Current: a.Status, Operation: "start"}
	}
	a.Status = StatusInProgress
	a.UpdatedAt = now
	return nil
}

// Complete finishes a visit. Completion is allowed straight from scheduled or
// confirmed as well, since front-desk staff often close out a visit without
// stepping it through in-progress.
func (a *Appointment) Complete(notes string, now time.Time) error {
	switch a.Status {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
	default:
		return &StateTransitionError{Current: a.Status, Operation: "complete"}
	}
	a.Status = StatusCompleted
	a.appendNotes(notes)
	a.UpdatedAt = now
	return nil
}

// Cancel cancels a scheduled or confirmed appointment, keeping any prior
// notes and appending the cancellation reason.
func (a *Appointment) Cancel(reason string, now time.Time) error {
	switch a.Status {
	case StatusScheduled, StatusConfirmed:
	default:
		return &StateTransitionError{Current: a.Status, Operation: "cancel"}
	}
	a.Status = StatusCancelled
	a.appendNotes(reason)
	a.UpdatedAt = now
	return nil
}

// MarkNoShow flags a confirmed appointment whose start time passed without
// the patient arriving. Safe to call repeatedly: once the appointment has
// left confirmed, it fails with a transition error and changes nothing.
func (a *Appointment) MarkNoShow(now time.Time) error {
	if a.Status != StatusConfirmed {
		return &StateTransitionError{Current: a.Status, Operation: "mark no-show"}
	}
	a.Status = StatusNoShow
	a.UpdatedAt = now
	return nil
}

// Reschedule moves the appointment to a new slot and resets it to scheduled,
// so a previously confirmed booking needs re-confirmation. Conflict checking
// for the new slot happens before this is called.
func (a *Appointment) Reschedule(newDate Date, newStart, newEnd TimeOfDay, now time.Time) error {
	switch a.Status {
	case StatusScheduled, StatusConfirmed:
	default:
		return &StateTransitionError{Current: a.Status, Operation: "reschedule"}
	}
	if err := validateSlotTimes(newDate, newStart, newEnd, now); err != nil {
		return err
	}
	a.Date = newDate
	a.Start = newStart
	a.End = newEnd
	a.Status = StatusScheduled
	a.UpdatedAt = now
	return nil
}

// StartsBefore reports whether the appointment's scheduled start is before
// the given instant.
func (a *Appointment) StartsBefore(t time.Time) bool {
	return a.Date.At(a.Start).Before(t)
}

// Overlaps reports whether two half-open [start,end) ranges on the same date
// intersect.
func (a *Appointment) Overlaps(date Date, start, end TimeOfDay) bool {
	return a.Date.Equal(date) && a.Start.Before(end) && start.Before(a.End)
}

func (a *Appointment) appendNotes(notes string) {
	if notes == "" {
		return
	}
	if a.Notes == "" {
		a.Notes = notes
		return
	}
	a.Notes = a.Notes + " | " + notes
}
