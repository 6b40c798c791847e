package doctor

import (
	"context"

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

type doctorRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorRepoPG(pool *pgxpool.Pool) Repository {
	return &doctorRepoPG{pool: pool}
}

func (r *doctorRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `id, first_name, last_name, email, phone, specialization, license_number, qualifications, experience_years, is_deleted, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Phone,
		&d.Specialization, &d.LicenseNumber, &d.Qualifications, &d.ExperienceYears,
		&d.IsDeleted, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (first_name, last_name, email, phone, specialization, license_number, qualifications, experience_years)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		d.FirstName, d.LastName, d.Email, d.Phone, d.Specialization,
		d.LicenseNumber, d.Qualifications, d.ExperienceYears,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1 AND is_deleted = FALSE`, id))
}

func (r *doctorRepoPG) GetAll(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE is_deleted = FALSE ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func (r *doctorRepoPG) SearchByName(ctx context.Context, term string) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+doctorCols+` FROM doctors
		WHERE is_deleted = FALSE
		  AND (first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%')
		ORDER BY last_name, first_name`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func (r *doctorRepoPG) GetBySpecialization(ctx context.Context, specialization string) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+doctorCols+` FROM doctors
		WHERE is_deleted = FALSE AND LOWER(specialization) = LOWER($1)
		ORDER BY last_name, first_name`, specialization)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func (r *doctorRepoPG) IsEmailUnique(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctors
			WHERE LOWER(email) = LOWER($1) AND is_deleted = FALSE AND id <> $2
		)`, email, excludeID).Scan(&taken)
	return !taken, err
}

func (r *doctorRepoPG) IsLicenseUnique(ctx context.Context, licenseNumber string, excludeID int64) (bool, error) {
	var taken bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctors
			WHERE license_number = $1 AND is_deleted = FALSE AND id <> $2
		)`, licenseNumber, excludeID).Scan(&taken)
	return !taken, err
}

func (r *doctorRepoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1 AND is_deleted = FALSE)`, id).Scan(&exists)
	return exists, err
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors
		SET first_name=$2, last_name=$3, email=$4, phone=$5, specialization=$6,
			license_number=$7, qualifications=$8, experience_years=$9, updated_at=NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		d.ID, d.FirstName, d.LastName, d.Email, d.Phone, d.Specialization,
		d.LicenseNumber, d.Qualifications, d.ExperienceYears)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepoPG) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectDoctors(rows pgx.Rows) ([]*Doctor, error) {
	var doctors []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}
