package medicine

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

type medicineRepoPG struct {
	pool *pgxpool.Pool
}

func NewMedicineRepoPG(pool *pgxpool.Pool) Repository {
	return &medicineRepoPG{pool: pool}
}

func (r *medicineRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const medicineCols = `id, name, generic_name, manufacturer, description, category, strength, form, price::text, is_active, is_deleted, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.GenericName, &m.Manufacturer, &m.Description,
		&m.Category, &m.Strength, &m.Form, &m.Price, &m.IsActive,
		&m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepoPG) Create(ctx context.Context, m *Medicine) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medicines (name, generic_name, manufacturer, description, category, strength, form, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9)
		RETURNING id, created_at, updated_at`,
		m.Name, m.GenericName, m.Manufacturer, m.Description, m.Category,
		m.Strength, m.Form, m.Price, m.IsActive,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *medicineRepoPG) GetByID(ctx context.Context, id int64) (*Medicine, error) {
	return scanMedicine(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicineCols+` FROM medicines WHERE id = $1 AND is_deleted = FALSE`, id))
}

func (r *medicineRepoPG) GetAll(ctx context.Context, activeOnly bool) ([]*Medicine, error) {
	q := `SELECT ` + medicineCols + ` FROM medicines WHERE is_deleted = FALSE`
	if activeOnly {
		q += ` AND is_active = TRUE`
	}
	q += ` ORDER BY name`
	rows, err := r.conn(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedicines(rows)
}

func (r *medicineRepoPG) SearchByName(ctx context.Context, term string) ([]*Medicine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+medicineCols+` FROM medicines
		WHERE is_deleted = FALSE
		  AND (name ILIKE '%' || $1 || '%' OR generic_name ILIKE '%' || $1 || '%')
		ORDER BY name`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedicines(rows)
}

func (r *medicineRepoPG) GetByCategory(ctx context.Context, category string) ([]*Medicine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+medicineCols+` FROM medicines
		WHERE is_deleted = FALSE AND LOWER(category) = LOWER($1)
		ORDER BY name`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedicines(rows)
}

func (r *medicineRepoPG) IsNameUnique(ctx context.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM medicines
			WHERE LOWER(name) = LOWER($1) AND is_deleted = FALSE AND id <> $2
		)`, name, excludeID).Scan(&taken)
	return !taken, err
}

func (r *medicineRepoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1 AND is_deleted = FALSE)`, id).Scan(&exists)
	return exists, err
}

func (r *medicineRepoPG) Update(ctx context.Context, m *Medicine) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicines
		SET name=$2, generic_name=$3, manufacturer=$4, description=$5, category=$6,
			strength=$7, form=$8, price=$9::numeric, is_active=$10, updated_at=NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		m.ID, m.Name, m.GenericName, m.Manufacturer, m.Description, m.Category,
		m.Strength, m.Form, m.Price, m.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *medicineRepoPG) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicines SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectMedicines(rows pgx.Rows) ([]*Medicine, error) {
	var medicines []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}
