package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/carelane/hospital-scheduling/internal/scheduling"
)

type CreateAppointmentRequest struct {
	PatientID string               `json:"patient_id"`
	DoctorID  string               `json:"doctor_id"`
	Date      scheduling.Date      `json:"date"`
	StartTime scheduling.TimeOfDay `json:"start_time"`
	EndTime   scheduling.TimeOfDay `json:"end_time"`
	Reason    string               `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Date      scheduling.Date      `json:"date"`
	StartTime scheduling.TimeOfDay `json:"start_time"`
	EndTime   scheduling.TimeOfDay `json:"end_time"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type CompleteAppointmentRequest struct {
	Notes string `json:"notes"`
}

type SetAvailabilityRequest struct {
	DayOfWeek           int                  `json:"day_of_week"`
	StartTime           scheduling.TimeOfDay `json:"start_time"`
	EndTime             scheduling.TimeOfDay `json:"end_time"`
	SlotDurationMinutes int                  `json:"slot_duration_minutes"`
}

type AppointmentResponse struct {
	ID        uuid.UUID            `json:"id"`
	PatientID uuid.UUID            `json:"patient_id"`
	DoctorID  uuid.UUID            `json:"doctor_id"`
	Date      scheduling.Date      `json:"date"`
	StartTime scheduling.TimeOfDay `json:"start_time"`
	EndTime   scheduling.TimeOfDay `json:"end_time"`
	Status    string               `json:"status"`
	Reason    string               `json:"reason"`
	Notes     string               `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date,
		StartTime: a.Start,
		EndTime:   a.End,
		Status:    string(a.Status),
		Reason:    a.Reason,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type AvailabilityResponse struct {
	ID                  uuid.UUID            `json:"id"`
	DoctorID            uuid.UUID            `json:"doctor_id"`
	DayOfWeek           int                  `json:"day_of_week"`
	StartTime           scheduling.TimeOfDay `json:"start_time"`
	EndTime             scheduling.TimeOfDay `json:"end_time"`
	SlotDurationMinutes int                  `json:"slot_duration_minutes"`
	Active              bool                 `json:"active"`
}

func toAvailabilityResponse(t *scheduling.AvailabilityTemplate) AvailabilityResponse {
	return AvailabilityResponse{
		ID:                  t.ID,
		DoctorID:            t.DoctorID,
		DayOfWeek:           int(t.Weekday),
		StartTime:           t.Start,
		EndTime:             t.End,
		SlotDurationMinutes: t.SlotMinutes,
		Active:              t.Active,
	}
}

type SlotsResponse struct {
	DoctorID uuid.UUID             `json:"doctor_id"`
	Date     scheduling.Date       `json:"date"`
	Slots    []scheduling.TimeSlot `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
