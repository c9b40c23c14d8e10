package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventBooked      EventKind = "APPOINTMENT_BOOKED"
	EventConfirmed   EventKind = "APPOINTMENT_CONFIRMED"
	EventStarted     EventKind = "APPOINTMENT_STARTED"
	EventCompleted   EventKind = "APPOINTMENT_COMPLETED"
	EventCancelled   EventKind = "APPOINTMENT_CANCELLED"
	EventRescheduled EventKind = "APPOINTMENT_RESCHEDULED"
	EventNoShow      EventKind = "APPOINTMENT_NO_SHOW"
)

// Event is a discrete lifecycle notification handed to the notifier after a
// successful operation. Events are values produced by the service, not state
// accumulated on the entity.
type Event struct {
	Kind          EventKind `json:"kind"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier delivers events best-effort. A failed delivery must never fail
// the scheduling operation; the service logs and discards the error.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Locker serializes the conflict-check-then-write critical section for one
// doctor and date across service instances.
type Locker interface {
	WithBookingLock(ctx context.Context, doctorID uuid.UUID, date Date, fn func(ctx context.Context) error) error
}
