package appointment

import "time"

// Appointment is the aggregate root for prescription lines. Version backs
// optimistic concurrency: updates must carry the version they read, and a
// successful update increments it.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	PatientID       int64     `db:"patient_id" json:"patientId"`
	DoctorID        int64     `db:"doctor_id" json:"doctorId"`
	AppointmentDate time.Time `db:"appointment_date" json:"appointmentDate"`
	VisitType       string    `db:"visit_type" json:"visitType"`
	Status          string    `db:"status" json:"status"`
	Diagnosis       *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	Version         int       `db:"version" json:"version"`
	IsDeleted       bool      `db:"is_deleted" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// PrescriptionLine is one prescribed medicine on an appointment. Lines are
// owned by the appointment and replaced wholesale on update.
type PrescriptionLine struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointmentId"`
	MedicineID    int64     `db:"medicine_id" json:"medicineId"`
	Dosage        string    `db:"dosage" json:"dosage"`
	StartDate     time.Time `db:"start_date" json:"startDate"`
	EndDate       time.Time `db:"end_date" json:"endDate"`
	Frequency     *string   `db:"frequency" json:"frequency,omitempty"`
	Instructions  *string   `db:"instructions" json:"instructions,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	IsDeleted     bool      `db:"is_deleted" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Details is the appointment aggregate as read back: the appointment row
// joined with patient and doctor names plus resolved prescription lines.
type Details struct {
	Appointment
	PatientName         string        `json:"patientName"`
	PatientFirstName    string        `json:"-"`
	PatientLastName     string        `json:"-"`
	PatientEmail        string        `json:"-"`
	DoctorName          string        `json:"doctorName"`
	PrescriptionDetails []LineDetails `json:"prescriptionDetails"`
}

// LineDetails is a prescription line with its medicine name resolved.
type LineDetails struct {
	PrescriptionLine
	MedicineName string `json:"medicineName"`
}
