package patient

import "context"

// Repository is the fixed set of patient queries. Every read excludes
// soft-deleted rows.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetAll(ctx context.Context) ([]*Patient, error)
	SearchByName(ctx context.Context, term string) ([]*Patient, error)
	// IsEmailUnique reports whether email is unused among non-deleted
	// patients, ignoring the patient identified by excludeID (0 for none).
	IsEmailUnique(ctx context.Context, email string, excludeID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, p *Patient) error
	SoftDelete(ctx context.Context, id int64) error
}
