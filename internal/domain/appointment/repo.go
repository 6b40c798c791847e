package appointment

import (
	"context"
	"time"
)

// Filter narrows appointment listings. Zero values mean "no constraint".
type Filter struct {
	SearchTerm string
	DoctorID   int64
	VisitType  string
	From       time.Time
	To         time.Time
}

// Repository is the fixed set of appointment queries.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	// GetWithDetails returns the aggregate: appointment joined with patient
	// and doctor names plus its non-deleted prescription lines.
	GetWithDetails(ctx context.Context, id int64) (*Details, error)
	// List returns a page ordered by appointment date descending, together
	// with the total match count.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Details, int, error)
	// Update applies the row only when the stored version matches
	// a.Version, bumping it by one. A version mismatch or missing row
	// reports pgx.ErrNoRows.
	Update(ctx context.Context, a *Appointment) error
	SoftDelete(ctx context.Context, id int64) error
}

// LineRepository manages prescription lines beneath an appointment.
type LineRepository interface {
	CreateLine(ctx context.Context, l *PrescriptionLine) error
	LinesByAppointment(ctx context.Context, appointmentID int64) ([]LineDetails, error)
	// SoftDeleteLines marks every non-deleted line of the appointment
	// deleted. Deleting zero lines is not an error.
	SoftDeleteLines(ctx context.Context, appointmentID int64) error
}
