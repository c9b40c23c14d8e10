package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the Postgres implementation of Repository. Appointment
// writes are protected by the appointments_no_overlap exclusion constraint;
// a constraint violation surfaces as ErrSlotConflict per the repository
// contract.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a        Appointment
		date     time.Time
		startMin int
		endMin   int
		status   string
	)
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&date,
		&startMin,
		&endMin,
		&status,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	a.Date = DateOf(date)
	a.Start = TimeOfDay(startMin)
	a.End = TimeOfDay(endMin)
	a.Status = Status(status)
	return &a, nil
}

func scanTemplate(row pgx.Row) (*AvailabilityTemplate, error) {
	var (
		t        AvailabilityTemplate
		weekday  int
		startMin int
		endMin   int
	)
	err := row.Scan(
		&t.ID,
		&t.DoctorID,
		&weekday,
		&startMin,
		&endMin,
		&t.SlotMinutes,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	t.Weekday = time.Weekday(weekday)
	t.Start = TimeOfDay(startMin)
	t.End = TimeOfDay(endMin)
	return &t, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// isOverlapViolation reports whether a write hit the exclusion constraint or
// a unique index guarding appointment overlap.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23P01" || pgErr.Code == "23505"
}

const appointmentColumns = `id, patient_id, doctor_id, scheduled_date, start_min, end_min, status, reason, notes, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, scheduled_date, start_min, end_min, status, reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, a.ID, a.PatientID, a.DoctorID, a.Date.Time(), a.Start.Minutes(), a.End.Minutes(), string(a.Status), a.Reason, a.Notes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isOverlapViolation(err) {
			return fmt.Errorf("%w: rejected by storage constraint", ErrSlotConflict)
		}
		return err
	}
	return nil
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, a *Appointment, expectedStatus Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET scheduled_date = $2,
		    start_min = $3,
		    end_min = $4,
		    status = $5,
		    notes = $6,
		    updated_at = $7
		WHERE id = $1
		  AND status = $8
	`, a.ID, a.Date.Time(), a.Start.Minutes(), a.End.Minutes(), string(a.Status), a.Notes, a.UpdatedAt, string(expectedStatus))
	if err != nil {
		if isOverlapViolation(err) {
			return fmt.Errorf("%w: rejected by storage constraint", ErrSlotConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		// The row moved out of expectedStatus under a concurrent update.
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date Date, statuses []Status) ([]Appointment, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = r.pool.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			WHERE doctor_id = $1
			  AND scheduled_date = $2
			ORDER BY start_min
		`, doctorID, date.Time())
	} else {
		vals := make([]string, len(statuses))
		for i, s := range statuses {
			vals[i] = string(s)
		}
		rows, err = r.pool.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			WHERE doctor_id = $1
			  AND scheduled_date = $2
			  AND status = ANY($3)
			ORDER BY start_min
		`, doctorID, date.Time(), vals)
	}
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) ListPatientAppointments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY scheduled_date DESC, start_min DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status = 'confirmed'
		  AND scheduled_date + make_interval(mins => start_min) < $1
	`, cutoff)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*AvailabilityTemplate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, weekday, start_min, end_min, slot_minutes, active, created_at, updated_at
		FROM availability_templates
		WHERE id = $1
	`, id)
	return scanTemplate(row)
}

func (r *PgRepository) CreateTemplate(ctx context.Context, t *AvailabilityTemplate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO availability_templates (id, doctor_id, weekday, start_min, end_min, slot_minutes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.DoctorID, int(t.Weekday), t.Start.Minutes(), t.End.Minutes(), t.SlotMinutes, t.Active, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PgRepository) UpdateTemplate(ctx context.Context, t *AvailabilityTemplate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE availability_templates
		SET start_min = $2,
		    end_min = $3,
		    slot_minutes = $4,
		    active = $5,
		    updated_at = $6
		WHERE id = $1
	`, t.ID, t.Start.Minutes(), t.End.Minutes(), t.SlotMinutes, t.Active, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *PgRepository) ListActiveTemplates(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]AvailabilityTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, weekday, start_min, end_min, slot_minutes, active, created_at, updated_at
		FROM availability_templates
		WHERE doctor_id = $1
		  AND weekday = $2
		  AND active
		ORDER BY start_min
	`, doctorID, int(weekday))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AvailabilityTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
