package doctor

import "context"

// Repository is the fixed set of doctor queries. Every read excludes
// soft-deleted rows.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetAll(ctx context.Context) ([]*Doctor, error)
	SearchByName(ctx context.Context, term string) ([]*Doctor, error)
	GetBySpecialization(ctx context.Context, specialization string) ([]*Doctor, error)
	IsEmailUnique(ctx context.Context, email string, excludeID int64) (bool, error)
	// IsLicenseUnique reports whether licenseNumber is unused among
	// non-deleted doctors, ignoring the doctor identified by excludeID.
	IsLicenseUnique(ctx context.Context, licenseNumber string, excludeID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, d *Doctor) error
	SoftDelete(ctx context.Context, id int64) error
}
