package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTemplateNotFound    = errors.New("availability template not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")

	// ErrDoctorUnavailable means the doctor has no active availability
	// template for the requested day of week.
	ErrDoctorUnavailable = errors.New("doctor has no availability on this day")

	// ErrOutsideAvailability is the kind matched by errors.Is for
	// OutsideAvailabilityError values.
	ErrOutsideAvailability = errors.New("requested time is outside availability hours")

	// ErrSlotConflict means the candidate range overlaps an existing
	// scheduled, confirmed or in-progress appointment.
	ErrSlotConflict = errors.New("requested time conflicts with an existing appointment")

	// ErrBookingContended means another booking for the same doctor and day
	// holds the lock; the caller should retry shortly.
	ErrBookingContended = errors.New("slot is currently being booked, please retry")

	// ErrInvalidTransition is the kind matched by errors.Is for
	// StateTransitionError values.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation is the kind matched by errors.Is for ValidationError values.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidOperation covers business-rule violations outside the state
	// machine, such as cancelling an appointment that already started.
	ErrInvalidOperation = errors.New("operation not allowed")
)

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StateTransitionError reports an operation attempted on an appointment whose
// current status forbids it.
type StateTransitionError struct {
	Current   Status
	Operation string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an appointment with status %q", e.Operation, e.Current)
}

func (e *StateTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// OutsideAvailabilityError reports the actual availability bounds so callers
// can tell the user which hours are bookable.
type OutsideAvailabilityError struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (e *OutsideAvailabilityError) Error() string {
	return fmt.Sprintf("requested time is outside availability hours (%s-%s)", e.Start, e.End)
}

func (e *OutsideAvailabilityError) Is(target error) bool { return target == ErrOutsideAvailability }
