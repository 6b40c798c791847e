package medicine

import "time"

// Medicine is a catalog entry that prescription lines reference.
// Price is kept as the database's decimal text to avoid float drift.
type Medicine struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	GenericName  *string   `db:"generic_name" json:"genericName,omitempty"`
	Manufacturer *string   `db:"manufacturer" json:"manufacturer,omitempty"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Category     *string   `db:"category" json:"category,omitempty"`
	Strength     *string   `db:"strength" json:"strength,omitempty"`
	Form         *string   `db:"form" json:"form,omitempty"`
	Price        string    `db:"price" json:"price"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	IsDeleted    bool      `db:"is_deleted" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
