package patient

import "time"

// Patient is a person receiving care. Soft-deleted patients remain in the
// table but are invisible to every read path.
type Patient struct {
	ID          int64     `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	DateOfBirth time.Time `db:"date_of_birth" json:"dateOfBirth"`
	Gender      *string   `db:"gender" json:"gender,omitempty"`
	Address     *string   `db:"address" json:"address,omitempty"`
	IsDeleted   bool      `db:"is_deleted" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
