package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type appointmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepoPG(pool *pgxpool.Pool) Repository {
	return &appointmentRepoPG{pool: pool}
}

// NewLineRepoPG shares the appointment repository's connection handling.
func NewLineRepoPG(pool *pgxpool.Pool) LineRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.visit_type, a.status, a.diagnosis, a.notes, a.version, a.is_deleted, a.created_at, a.updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate,
		&a.VisitType, &a.Status, &a.Diagnosis, &a.Notes, &a.Version,
		&a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanDetails(row pgx.Row) (*Details, error) {
	var d Details
	err := row.Scan(&d.ID, &d.PatientID, &d.DoctorID, &d.AppointmentDate,
		&d.VisitType, &d.Status, &d.Diagnosis, &d.Notes, &d.Version,
		&d.IsDeleted, &d.CreatedAt, &d.UpdatedAt,
		&d.PatientFirstName, &d.PatientLastName, &d.PatientEmail,
		&d.DoctorName)
	if err != nil {
		return nil, err
	}
	d.PatientName = d.PatientFirstName + " " + d.PatientLastName
	return &d, nil
}

const detailsQuery = `
	SELECT ` + appointmentCols + `,
		p.first_name, p.last_name, p.email,
		d.first_name || ' ' || d.last_name
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, visit_type, status, diagnosis, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, created_at, updated_at`,
		a.PatientID, a.DoctorID, a.AppointmentDate, a.VisitType, a.Status,
		a.Diagnosis, a.Notes,
	).Scan(&a.ID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments a WHERE a.id = $1 AND a.is_deleted = FALSE`, id))
}

func (r *appointmentRepoPG) GetWithDetails(ctx context.Context, id int64) (*Details, error) {
	d, err := scanDetails(r.conn(ctx).QueryRow(ctx,
		detailsQuery+` WHERE a.id = $1 AND a.is_deleted = FALSE`, id))
	if err != nil {
		return nil, err
	}
	lines, err := r.LinesByAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load prescription lines: %w", err)
	}
	d.PrescriptionDetails = lines
	return d, nil
}

func (r *appointmentRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Details, int, error) {
	where := []string{"a.is_deleted = FALSE"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SearchTerm != "" {
		ph := arg(f.SearchTerm)
		where = append(where, fmt.Sprintf(`(
			p.first_name ILIKE '%%' || %[1]s || '%%' OR p.last_name ILIKE '%%' || %[1]s || '%%' OR
			d.first_name ILIKE '%%' || %[1]s || '%%' OR d.last_name ILIKE '%%' || %[1]s || '%%' OR
			a.diagnosis ILIKE '%%' || %[1]s || '%%')`, ph))
	}
	if f.DoctorID > 0 {
		where = append(where, "a.doctor_id = "+arg(f.DoctorID))
	}
	if f.VisitType != "" {
		where = append(where, "a.visit_type = "+arg(f.VisitType))
	}
	if !f.From.IsZero() {
		where = append(where, "a.appointment_date >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "a.appointment_date <= "+arg(f.To))
	}

	cond := strings.Join(where, " AND ")

	var total int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		WHERE `+cond, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY a.appointment_date DESC LIMIT %s OFFSET %s",
		detailsQuery, cond, arg(limit), arg(offset))
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Details
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET patient_id=$3, doctor_id=$4, appointment_date=$5, visit_type=$6,
			status=$7, diagnosis=$8, notes=$9, version=version+1, updated_at=NOW()
		WHERE id = $1 AND version = $2 AND is_deleted = FALSE`,
		a.ID, a.Version, a.PatientID, a.DoctorID, a.AppointmentDate,
		a.VisitType, a.Status, a.Diagnosis, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepoPG) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepoPG) CreateLine(ctx context.Context, l *PrescriptionLine) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescription_details (appointment_id, medicine_id, dosage, start_date, end_date, frequency, instructions, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		l.AppointmentID, l.MedicineID, l.Dosage, l.StartDate, l.EndDate,
		l.Frequency, l.Instructions, l.Notes,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *appointmentRepoPG) LinesByAppointment(ctx context.Context, appointmentID int64) ([]LineDetails, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT pd.id, pd.appointment_id, pd.medicine_id, pd.dosage, pd.start_date, pd.end_date,
			pd.frequency, pd.instructions, pd.notes, pd.is_deleted, pd.created_at, pd.updated_at,
			m.name
		FROM prescription_details pd
		JOIN medicines m ON m.id = pd.medicine_id
		WHERE pd.appointment_id = $1 AND pd.is_deleted = FALSE
		ORDER BY pd.id`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []LineDetails
	for rows.Next() {
		var l LineDetails
		err := rows.Scan(&l.ID, &l.AppointmentID, &l.MedicineID, &l.Dosage,
			&l.StartDate, &l.EndDate, &l.Frequency, &l.Instructions, &l.Notes,
			&l.IsDeleted, &l.CreatedAt, &l.UpdatedAt, &l.MedicineName)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *appointmentRepoPG) SoftDeleteLines(ctx context.Context, appointmentID int64) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescription_details SET is_deleted = TRUE, updated_at = NOW()
		WHERE appointment_id = $1 AND is_deleted = FALSE`, appointmentID)
	return err
}
