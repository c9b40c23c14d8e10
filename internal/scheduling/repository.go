package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository contains all storage interactions needed by the scheduling core.
//
// Contract toward the implementation: the conflict-check read and the
// subsequent appointment write are not atomic inside this interface, so the
// store must carry a backstop that rejects overlapping blocking appointments
// for the same doctor and date (an exclusion constraint or equivalent) and
// surface that rejection as ErrSlotConflict. The service additionally holds a
// per-(doctor,date) lock around check-then-write, but the constraint is what
// makes a lost race impossible rather than merely unlikely.
type Repository interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CreateAppointment(ctx context.Context, appt *Appointment) error
	// UpdateAppointment persists a mutated appointment. The write is
	// conditional on the row still holding expectedStatus, so a concurrent
	// transition loses cleanly with ErrAppointmentNotFound instead of
	// clobbering.
	UpdateAppointment(ctx context.Context, appt *Appointment, expectedStatus Status) error

	// ListDoctorAppointments returns a doctor's appointments on one date,
	// optionally filtered to a status set. Ordered by start time.
	ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date Date, statuses []Status) ([]Appointment, error)
	ListPatientAppointments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error)

	// FindNoShowCandidates returns confirmed appointments whose scheduled
	// start is before the cutoff instant.
	FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]Appointment, error)

	GetTemplate(ctx context.Context, id uuid.UUID) (*AvailabilityTemplate, error)
	CreateTemplate(ctx context.Context, tmpl *AvailabilityTemplate) error
	UpdateTemplate(ctx context.Context, tmpl *AvailabilityTemplate) error
	// ListActiveTemplates returns the doctor's active templates for one
	// weekday, ordered by start time.
	ListActiveTemplates(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]AvailabilityTemplate, error)
}
