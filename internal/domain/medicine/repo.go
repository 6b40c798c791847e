package medicine

import "context"

// Repository is the fixed set of medicine queries. Reads exclude
// soft-deleted rows; GetAll additionally filters to active entries
// unless activeOnly is false.
type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id int64) (*Medicine, error)
	GetAll(ctx context.Context, activeOnly bool) ([]*Medicine, error)
	SearchByName(ctx context.Context, term string) ([]*Medicine, error)
	GetByCategory(ctx context.Context, category string) ([]*Medicine, error)
	IsNameUnique(ctx context.Context, name string, excludeID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, m *Medicine) error
	// SoftDelete marks the medicine deleted and inactive in one step.
	SoftDelete(ctx context.Context, id int64) error
}
