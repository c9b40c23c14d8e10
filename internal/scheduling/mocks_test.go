package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time checks
var (
	_ Repository = (*mockRepository)(nil)
	_ Locker     = (*passLocker)(nil)
	_ Notifier   = (*mockNotifier)(nil)
	_ Clock      = fixedClock{}
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// mockRepository is a func-field mock: tests set only the methods an
// operation touches, anything else fails loudly.
type mockRepository struct {
	GetDoctorByIDFunc           func(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetPatientByIDFunc          func(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetAppointmentFunc          func(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CreateAppointmentFunc       func(ctx context.Context, appt *Appointment) error
	UpdateAppointmentFunc       func(ctx context.Context, appt *Appointment, expectedStatus Status) error
	ListDoctorAppointmentsFunc  func(ctx context.Context, doctorID uuid.UUID, date Date, statuses []Status) ([]Appointment, error)
	ListPatientAppointmentsFunc func(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error)
	FindNoShowCandidatesFunc    func(ctx context.Context, cutoff time.Time) ([]Appointment, error)
	GetTemplateFunc             func(ctx context.Context, id uuid.UUID) (*AvailabilityTemplate, error)
	CreateTemplateFunc          func(ctx context.Context, tmpl *AvailabilityTemplate) error
	UpdateTemplateFunc          func(ctx context.Context, tmpl *AvailabilityTemplate) error
	ListActiveTemplatesFunc     func(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]AvailabilityTemplate, error)
}

var errMockNotSet = errors.New("mock func not set")

func (m *mockRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	if m.GetDoctorByIDFunc != nil {
		return m.GetDoctorByIDFunc(ctx, id)
	}
	return &Doctor{ID: id, Name: "Dr. Mock"}, nil
}

func (m *mockRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	if m.GetPatientByIDFunc != nil {
		return m.GetPatientByIDFunc(ctx, id)
	}
	return &Patient{ID: id, Name: "Mock Patient"}, nil
}

func (m *mockRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if m.GetAppointmentFunc != nil {
		return m.GetAppointmentFunc(ctx, id)
	}
	return nil, errMockNotSet
}

func (m *mockRepository) CreateAppointment(ctx context.Context, appt *Appointment) error {
	if m.CreateAppointmentFunc != nil {
		return m.CreateAppointmentFunc(ctx, appt)
	}
	return errMockNotSet
}

func (m *mockRepository) UpdateAppointment(ctx context.Context, appt *Appointment, expectedStatus Status) error {
	if m.UpdateAppointmentFunc != nil {
		return m.UpdateAppointmentFunc(ctx, appt, expectedStatus)
	}
	return errMockNotSet
}

func (m *mockRepository) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date Date, statuses []Status) ([]Appointment, error) {
	if m.ListDoctorAppointmentsFunc != nil {
		return m.ListDoctorAppointmentsFunc(ctx, doctorID, date, statuses)
	}
	return nil, nil
}

func (m *mockRepository) ListPatientAppointments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if m.ListPatientAppointmentsFunc != nil {
		return m.ListPatientAppointmentsFunc(ctx, patientID, limit, offset)
	}
	return nil, nil
}

func (m *mockRepository) FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]Appointment, error) {
	if m.FindNoShowCandidatesFunc != nil {
		return m.FindNoShowCandidatesFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*AvailabilityTemplate, error) {
	if m.GetTemplateFunc != nil {
		return m.GetTemplateFunc(ctx, id)
	}
	return nil, errMockNotSet
}

func (m *mockRepository) CreateTemplate(ctx context.Context, tmpl *AvailabilityTemplate) error {
	if m.CreateTemplateFunc != nil {
		return m.CreateTemplateFunc(ctx, tmpl)
	}
	return errMockNotSet
}

func (m *mockRepository) UpdateTemplate(ctx context.Context, tmpl *AvailabilityTemplate) error {
	if m.UpdateTemplateFunc != nil {
		return m.UpdateTemplateFunc(ctx, tmpl)
	}
	return errMockNotSet
}

func (m *mockRepository) ListActiveTemplates(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]AvailabilityTemplate, error) {
	if m.ListActiveTemplatesFunc != nil {
		return m.ListActiveTemplatesFunc(ctx, doctorID, weekday)
	}
	return nil, nil
}

// passLocker runs the critical section directly, counting acquisitions.
type passLocker struct {
	calls int
}

func (l *passLocker) WithBookingLock(ctx context.Context, doctorID uuid.UUID, date Date, fn func(ctx context.Context) error) error {
	l.calls++
	return fn(ctx)
}

// contendedLocker simulates another instance holding the lock.
type contendedLocker struct{}

func (contendedLocker) WithBookingLock(ctx context.Context, doctorID uuid.UUID, date Date, fn func(ctx context.Context) error) error {
	return ErrBookingContended
}

// mockNotifier records delivered events and can simulate sink failures.
type mockNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *mockNotifier) Notify(ctx context.Context, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, ev)
	return nil
}

func (n *mockNotifier) Kinds() []EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]EventKind, 0, len(n.events))
	for _, ev := range n.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}
