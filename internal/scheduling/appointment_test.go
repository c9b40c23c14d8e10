package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
var (
	testNow    = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	testMonday = NewDate(2026, 3, 2)
	nextMonday = NewDate(2026, 3, 9)
	tuesday    = NewDate(2026, 3, 10)
)

func newTestAppointment(t *testing.T, status Status) *Appointment {
	t.Helper()
	appt, err := NewAppointment(uuid.New(), uuid.New(), nextMonday, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30), "checkup", testNow)
	require.NoError(t, err)
	appt.Status = status // seed directly; transitions are exercised per test
	return appt
}

func TestNewAppointmentValidation(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	start := NewTimeOfDay(10, 0)
	end := NewTimeOfDay(10, 30)

	tests := []struct {
		name  string
		build func() (*Appointment, error)
	}{
		{"missing patient", func() (*Appointment, error) {
			return NewAppointment(uuid.Nil, doctorID, nextMonday, start, end, "checkup", testNow)
		}},
		{"missing doctor", func() (*Appointment, error) {
			return NewAppointment(patientID, uuid.Nil, nextMonday, start, end, "checkup", testNow)
		}},
		{"missing reason", func() (*Appointment, error) {
			return NewAppointment(patientID, doctorID, nextMonday, start, end, "", testNow)
		}},
		{"past date", func() (*Appointment, error) {
			return NewAppointment(patientID, doctorID, NewDate(2026, 3, 1), start, end, "checkup", testNow)
		}},
		{"start equals end", func() (*Appointment, error) {
			return NewAppointment(patientID, doctorID, nextMonday, start, start, "checkup", testNow)
		}},
		{"start after end", func() (*Appointment, error) {
			return NewAppointment(patientID, doctorID, nextMonday, end, start, "checkup", testNow)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appt, err := tc.build()
			assert.Nil(t, appt)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNewAppointmentDefaults(t *testing.T) {
	appt, err := NewAppointment(uuid.New(), uuid.New(), testMonday, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30), "checkup", testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status)
	assert.NotEqual(t, uuid.Nil, appt.ID)
	assert.Equal(t, testNow, appt.CreatedAt)
	assert.Equal(t, testNow, appt.UpdatedAt)

	// Today is not "in the past" even though earlier dates are.
	assert.Equal(t, testMonday, appt.Date)
}

// Every (status, operation) pair outside the legal transition table must
// fail with a transition error and leave the status unchanged.
func TestStateMachineTotality(t *testing.T) {
	type op struct {
		name    string
		allowed map[Status]Status // from -> to
		apply   func(a *Appointment) error
	}

	later := testNow.Add(time.Hour)
	ops := []op{
		{
			name:    "confirm",
			allowed: map[Status]Status{StatusScheduled: StatusConfirmed},
			apply:   func(a *Appointment) error { return a.Confirm(later) },
		},
		{
			name: "complete",
			allowed: map[Status]Status{
				StatusScheduled:  StatusCompleted,
				StatusConfirmed:  StatusCompleted,
				StatusInProgress: StatusCompleted,
			},
			apply: func(a *Appointment) error { return a.Complete("done", later) },
		},
		{
			name: "cancel",
			allowed: map[Status]Status{
				StatusScheduled: StatusCancelled,
				StatusConfirmed: StatusCancelled,
			},
			apply: func(a *Appointment) error { return a.Cancel("changed plans", later) },
		},
		{
			name:    "start",
			allowed: map[Status]Status{StatusConfirmed: StatusInProgress},
			apply:   func(a *Appointment) error { return a.MarkInProgress(later) },
		},
		{
			name:    "mark no-show",
			allowed: map[Status]Status{StatusConfirmed: StatusNoShow},
			apply:   func(a *Appointment) error { return a.MarkNoShow(later) },
		},
		{
			name: "reschedule",
			allowed: map[Status]Status{
				StatusScheduled: StatusScheduled,
				StatusConfirmed: StatusScheduled,
			},
			apply: func(a *Appointment) error {
				return a.Reschedule(tuesday, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30), later)
			},
		},
	}

	statuses := []Status{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow}

	for _, operation := range ops {
		for _, from := range statuses {
			t.Run(string(from)+" "+operation.name, func(t *testing.T) {
				appt := newTestAppointment(t, from)
				err := operation.apply(appt)

				if to, ok := operation.allowed[from]; ok {
					require.NoError(t, err)
					assert.Equal(t, to, appt.Status)
					assert.Equal(t, later, appt.UpdatedAt)
					return
				}

				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, from, appt.Status, "failed transition must not change status")

				var stErr *StateTransitionError
				require.ErrorAs(t, err, &stErr)
				assert.Equal(t, from, stErr.Current)
			})
		}
	}
}

func TestCancelAppendsToNotes(t *testing.T) {
	appt := newTestAppointment(t, StatusScheduled)
	appt.Notes = "patient prefers mornings"

	require.NoError(t, appt.Cancel("called to cancel", testNow.Add(time.Minute)))

	assert.Equal(t, "patient prefers mornings | called to cancel", appt.Notes)
}

func TestCompleteAppendsToNotes(t *testing.T) {
	appt := newTestAppointment(t, StatusInProgress)

	require.NoError(t, appt.Complete("prescribed rest", testNow.Add(time.Minute)))
	assert.Equal(t, "prescribed rest", appt.Notes)
}

func TestCompleteWithoutNotesKeepsExisting(t *testing.T) {
	appt := newTestAppointment(t, StatusConfirmed)
	appt.Notes = "follow-up from last visit"

	require.NoError(t, appt.Complete("", testNow.Add(time.Minute)))
	assert.Equal(t, "follow-up from last visit", appt.Notes)
}

func TestRescheduleResetsConfirmedToScheduled(t *testing.T) {
	appt := newTestAppointment(t, StatusConfirmed)

	err := appt.Reschedule(tuesday, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30), testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, tuesday, appt.Date)
	assert.Equal(t, NewTimeOfDay(9, 0), appt.Start)
	assert.Equal(t, NewTimeOfDay(9, 30), appt.End)
}

func TestRescheduleValidatesNewSlot(t *testing.T) {
	appt := newTestAppointment(t, StatusScheduled)

	err := appt.Reschedule(NewDate(2026, 2, 1), NewTimeOfDay(9, 0), NewTimeOfDay(9, 30), testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, nextMonday, appt.Date, "failed reschedule must not move the appointment")

	err = appt.Reschedule(tuesday, NewTimeOfDay(10, 0), NewTimeOfDay(10, 0), testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOverlaps(t *testing.T) {
	appt := newTestAppointment(t, StatusScheduled) // next Monday 10:00-10:30

	assert.True(t, appt.Overlaps(nextMonday, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30)))
	assert.True(t, appt.Overlaps(nextMonday, NewTimeOfDay(10, 15), NewTimeOfDay(10, 45)))
	assert.True(t, appt.Overlaps(nextMonday, NewTimeOfDay(9, 45), NewTimeOfDay(10, 15)))

	// Half-open intervals: touching ranges do not overlap.
	assert.False(t, appt.Overlaps(nextMonday, NewTimeOfDay(9, 30), NewTimeOfDay(10, 0)))
	assert.False(t, appt.Overlaps(nextMonday, NewTimeOfDay(10, 30), NewTimeOfDay(11, 0)))
	assert.False(t, appt.Overlaps(tuesday, NewTimeOfDay(10, 0), NewTimeOfDay(10, 30)))
}
