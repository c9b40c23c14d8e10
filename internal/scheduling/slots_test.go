package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayTemplate(t *testing.T, slotMinutes int) *AvailabilityTemplate {
	t.Helper()
	tmpl, err := NewAvailabilityTemplate(uuid.New(), time.Monday, NewTimeOfDay(9, 0), NewTimeOfDay(12, 0), slotMinutes, testNow)
	require.NoError(t, err)
	return tmpl
}

func TestGenerateSlotsEmptyDay(t *testing.T) {
	tmpl := mondayTemplate(t, 30)

	slots := GenerateSlots(tmpl, nextMonday, nil, testNow)

	require.Len(t, slots, 6)
	assert.Equal(t, NewTimeOfDay(9, 0), slots[0].Start)
	assert.Equal(t, NewTimeOfDay(9, 30), slots[0].End)
	assert.Equal(t, NewTimeOfDay(11, 30), slots[5].Start)
	assert.Equal(t, NewTimeOfDay(12, 0), slots[5].End)
	for _, slot := range slots {
		assert.True(t, slot.Available)
		assert.Equal(t, 30, slot.End.Minutes()-slot.Start.Minutes())
	}
}

func TestGenerateSlotsDropsTrailingPartialSlot(t *testing.T) {
	// 9:00-12:00 in 50-minute slots: 9:00, 9:50, 10:40 fit; 11:30-12:20 does not.
	tmpl := mondayTemplate(t, 50)

	slots := GenerateSlots(tmpl, nextMonday, nil, testNow)

	require.Len(t, slots, 3)
	assert.Equal(t, NewTimeOfDay(11, 30), slots[2].End)
}

func TestGenerateSlotsMarksBookedSlot(t *testing.T) {
	tmpl := mondayTemplate(t, 30)
	booked := Appointment{
		ID:       uuid.New(),
		DoctorID: tmpl.DoctorID,
		Date:     nextMonday,
		Start:    NewTimeOfDay(10, 0),
		End:      NewTimeOfDay(10, 30),
		Status:   StatusConfirmed,
	}

	slots := GenerateSlots(tmpl, nextMonday, []Appointment{booked}, testNow)

	require.Len(t, slots, 6)
	for _, slot := range slots {
		if slot.Start == NewTimeOfDay(10, 0) {
			assert.False(t, slot.Available)
		} else {
			assert.True(t, slot.Available, "slot %s should stay free", slot.Start)
		}
	}
}

func TestGenerateSlotsIgnoresTerminalAppointments(t *testing.T) {
	tmpl := mondayTemplate(t, 30)
	cancelled := Appointment{
		ID:       uuid.New(),
		DoctorID: tmpl.DoctorID,
		Date:     nextMonday,
		Start:    NewTimeOfDay(10, 0),
		End:      NewTimeOfDay(10, 30),
		Status:   StatusCancelled,
	}

	slots := GenerateSlots(tmpl, nextMonday, []Appointment{cancelled}, testNow)

	for _, slot := range slots {
		assert.True(t, slot.Available)
	}
}

func TestGenerateSlotsMarksElapsedSlotsToday(t *testing.T) {
	tmpl := mondayTemplate(t, 30)
	// testNow is Monday 09:00; testMonday is that same day.
	slots := GenerateSlots(tmpl, testMonday, nil, testNow)

	require.Len(t, slots, 6)
	assert.False(t, slots[0].Available, "09:00 slot has already started at 09:00")
	for _, slot := range slots[1:] {
		assert.True(t, slot.Available)
	}
}

func TestGenerateSlotsWrongDayOrInactive(t *testing.T) {
	tmpl := mondayTemplate(t, 30)

	assert.Empty(t, GenerateSlots(tmpl, tuesday, nil, testNow))

	tmpl.Deactivate(testNow)
	assert.Empty(t, GenerateSlots(tmpl, nextMonday, nil, testNow))

	assert.Empty(t, GenerateSlots(nil, nextMonday, nil, testNow))
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	tmpl := mondayTemplate(t, 20)
	appts := []Appointment{
		{Date: nextMonday, Start: NewTimeOfDay(9, 40), End: NewTimeOfDay(10, 0), Status: StatusScheduled},
		{Date: nextMonday, Start: NewTimeOfDay(11, 0), End: NewTimeOfDay(11, 20), Status: StatusInProgress},
	}

	first := GenerateSlots(tmpl, nextMonday, appts, testNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GenerateSlots(tmpl, nextMonday, appts, testNow))
	}
}

// Slot partition coverage: slots tile the window from the start in
// duration-sized steps with no gaps and never extend past the end.
func TestGenerateSlotsPartitionCoverage(t *testing.T) {
	for _, duration := range []int{10, 15, 25, 30, 45, 60, 90} {
		tmpl := mondayTemplate(t, duration)
		slots := GenerateSlots(tmpl, nextMonday, nil, testNow)

		cursor := tmpl.Start
		for _, slot := range slots {
			assert.Equal(t, cursor, slot.Start)
			assert.Equal(t, cursor.Add(duration), slot.End)
			assert.False(t, tmpl.End.Before(slot.End), "slot must not extend past the window")
			cursor = cursor.Add(duration)
		}
		// The dropped remainder is smaller than one slot.
		assert.Less(t, tmpl.End.Minutes()-cursor.Minutes(), duration)
	}
}
