package doctor

import "time"

// Doctor is a practitioner who sees appointments.
type Doctor struct {
	ID              int64     `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"firstName"`
	LastName        string    `db:"last_name" json:"lastName"`
	Email           string    `db:"email" json:"email"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	Specialization  string    `db:"specialization" json:"specialization"`
	LicenseNumber   *string   `db:"license_number" json:"licenseNumber,omitempty"`
	Qualifications  *string   `db:"qualifications" json:"qualifications,omitempty"`
	ExperienceYears int       `db:"experience_years" json:"experienceYears"`
	IsDeleted       bool      `db:"is_deleted" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
