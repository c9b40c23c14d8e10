package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service is the entry point for all booking use cases. It composes the
// conflict checker and the appointment state machine, holds the
// per-(doctor,date) booking lock around check-then-write, and signals the
// notifier after successful mutations.
type Service struct {
	repo        Repository
	checker     *ConflictChecker
	locker      Locker
	notifier    Notifier
	clock       Clock
	noShowGrace time.Duration
	log         zerolog.Logger
}

func NewService(repo Repository, locker Locker, notifier Notifier, clock Clock, noShowGrace time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		checker:     NewConflictChecker(repo),
		locker:      locker,
		notifier:    notifier,
		clock:       clock,
		noShowGrace: noShowGrace,
		log:         log,
	}
}

// CreateAppointment books a new appointment for a patient. The conflict
// check and the insert run inside the booking lock for the doctor and date,
// so two concurrent requests for overlapping slots cannot both pass the
// check. The storage layer's exclusion constraint backs this up.
func (s *Service) CreateAppointment(ctx context.Context, patientID, doctorID uuid.UUID, date Date, start, end TimeOfDay, reason string) (*Appointment, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	appt, err := NewAppointment(patientID, doctorID, date, start, end, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}

	err = s.locker.WithBookingLock(ctx, doctorID, date, func(lockCtx context.Context) error {
		if err := s.checker.Check(lockCtx, doctorID, date, start, end, uuid.Nil, s.clock.Now()); err != nil {
			return err
		}
		if err := s.repo.CreateAppointment(lockCtx, appt); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, EventBooked, appt)
	return appt, nil
}

// RescheduleAppointment moves an existing appointment to a new slot,
// excluding the appointment itself from the conflict check. The status
// resets to scheduled, so a confirmed booking needs re-confirmation.
func (s *Service) RescheduleAppointment(ctx context.Context, id uuid.UUID, newDate Date, newStart, newEnd TimeOfDay) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	switch appt.Status {
	case StatusScheduled, StatusConfirmed:
	default:
		return nil, &StateTransitionError{Current: appt.Status, Operation: "reschedule"}
	}

	prior := appt.Status
	err = s.locker.WithBookingLock(ctx, appt.DoctorID, newDate, func(lockCtx context.Context) error {
		if err := s.checker.Check(lockCtx, appt.DoctorID, newDate, newStart, newEnd, appt.ID, s.clock.Now()); err != nil {
			return err
		}
		if err := appt.Reschedule(newDate, newStart, newEnd, s.clock.Now()); err != nil {
			return err
		}
		if err := s.repo.UpdateAppointment(lockCtx, appt, prior); err != nil {
			return fmt.Errorf("persist reschedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, EventRescheduled, appt)
	return appt, nil
}

// CancelAppointment cancels a future appointment. Appointments whose start
// time already passed cannot be cancelled.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.StartsBefore(s.clock.Now()) {
		return nil, fmt.Errorf("%w: cannot cancel past appointments", ErrInvalidOperation)
	}
	return s.transition(ctx, appt, EventCancelled, func(now time.Time) error {
		return appt.Cancel(reason, now)
	})
}

// CompleteAppointment closes out a visit, appending completion notes.
func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID, notes string) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, EventCompleted, func(now time.Time) error {
		return appt.Complete(notes, now)
	})
}

// ConfirmAppointment moves a scheduled appointment to confirmed.
func (s *Service) ConfirmAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, EventConfirmed, appt.Confirm)
}

// StartAppointment records that a confirmed visit is underway.
func (s *Service) StartAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, EventStarted, appt.MarkInProgress)
}

// MarkNoShow flags a single confirmed appointment as a no-show.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, EventNoShow, appt.MarkNoShow)
}

// MarkOverdueNoShows sweeps confirmed appointments whose start passed by
// more than the grace period and flags each as a no-show. Called
// periodically by the no-show worker. Returns the number flagged.
func (s *Service) MarkOverdueNoShows(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.noShowGrace)
	candidates, err := s.repo.FindNoShowCandidates(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find no-show candidates: %w", err)
	}

	marked := 0
	for i := range candidates {
		appt := &candidates[i]
		if _, err := s.MarkNoShow(ctx, appt.ID); err != nil {
			// Already transitioned away, or lost a concurrent update; both
			// benign for a sweep.
			if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrAppointmentNotFound) {
				continue
			}
			s.log.Error().Err(err).Str("appointment_id", appt.ID.String()).Msg("no-show sweep failed for appointment")
			continue
		}
		marked++
	}
	return marked, nil
}

// GetAvailableSlots lists the doctor's bookable slots for a date, ordered by
// start time. A day with no active availability yields an empty list, never
// an error.
func (s *Service) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date Date) ([]TimeSlot, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	templates, err := s.repo.ListActiveTemplates(ctx, doctorID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}
	if len(templates) == 0 {
		return nil, nil
	}

	appts, err := s.repo.ListDoctorAppointments(ctx, doctorID, date, BlockingStatuses)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	var slots []TimeSlot
	for i := range templates {
		slots = append(slots, GenerateSlots(&templates[i], date, appts, s.clock.Now())...)
	}
	return slots, nil
}

// SetAvailability registers a weekly open-hours block for a doctor. A block
// whose time range intersects an existing active block on the same weekday
// is rejected.
func (s *Service) SetAvailability(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday, start, end TimeOfDay, slotMinutes int) (*AvailabilityTemplate, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	tmpl, err := NewAvailabilityTemplate(doctorID, weekday, start, end, slotMinutes, s.clock.Now())
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListActiveTemplates(ctx, doctorID, weekday)
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}
	for i := range existing {
		if tmpl.Overlaps(&existing[i]) {
			return nil, fmt.Errorf("%w: overlaps availability block %s-%s", ErrInvalidOperation, existing[i].Start, existing[i].End)
		}
	}

	if err := s.repo.CreateTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("create availability template: %w", err)
	}
	return tmpl, nil
}

// RemoveAvailability deactivates an open-hours block. Appointments already
// booked inside it are untouched.
func (s *Service) RemoveAvailability(ctx context.Context, templateID uuid.UUID) error {
	tmpl, err := s.repo.GetTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	tmpl.Deactivate(s.clock.Now())
	if err := s.repo.UpdateTemplate(ctx, tmpl); err != nil {
		return fmt.Errorf("deactivate availability template: %w", err)
	}
	return nil
}

// GetAppointment loads one appointment by id.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointment(ctx, id)
}

// ListDoctorAppointments returns a doctor's appointments for one date, every
// status included.
func (s *Service) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date Date) ([]Appointment, error) {
	return s.repo.ListDoctorAppointments(ctx, doctorID, date, nil)
}

// ListPatientAppointments returns a patient's appointments, newest first.
func (s *Service) ListPatientAppointments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListPatientAppointments(ctx, patientID, limit, offset)
}

// transition applies a state-machine mutation and persists it conditionally
// on the status the appointment had when loaded.
func (s *Service) transition(ctx context.Context, appt *Appointment, kind EventKind, apply func(now time.Time) error) (*Appointment, error) {
	prior := appt.Status
	if err := apply(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAppointment(ctx, appt, prior); err != nil {
		return nil, fmt.Errorf("persist %s: %w", kind, err)
	}
	s.notify(ctx, kind, appt)
	return appt, nil
}

func (s *Service) notify(ctx context.Context, kind EventKind, appt *Appointment) {
	ev := Event{
		Kind:          kind,
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Warn().
			Err(err).
			Str("event", string(kind)).
			Str("appointment_id", appt.ID.String()).
			Msg("notification delivery failed")
	}
}
