package appointment

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/mail"
	"github.com/hms/hms/internal/platform/metrics"
	"github.com/hms/hms/internal/platform/pdf"
	"github.com/hms/hms/pkg/apperr"
	"github.com/hms/hms/pkg/pagination"
)

const (
	defaultStatus    = "Scheduled"
	defaultVisitType = "First Visit"
)

// PatientDirectory answers whether a patient exists.
type PatientDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// DoctorDirectory answers whether a doctor exists.
type DoctorDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// MedicineCatalog answers whether a medicine exists.
type MedicineCatalog interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Input is the write payload for creating or updating an appointment. On
// update, Version must carry the version the client read.
type Input struct {
	PatientID           int64       `json:"patientId"`
	DoctorID            int64       `json:"doctorId"`
	AppointmentDate     time.Time   `json:"appointmentDate"`
	VisitType           string      `json:"visitType"`
	Status              string      `json:"status"`
	Diagnosis           *string     `json:"diagnosis"`
	Notes               *string     `json:"notes"`
	Version             int         `json:"version"`
	PrescriptionDetails []LineInput `json:"prescriptionDetails"`
}

// LineInput is one prescription line in a write payload.
type LineInput struct {
	MedicineID   int64     `json:"medicineId"`
	Dosage       string    `json:"dosage"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Frequency    *string   `json:"frequency"`
	Instructions *string   `json:"instructions"`
	Notes        *string   `json:"notes"`
}

type Service struct {
	repo      Repository
	lines     LineRepository
	patients  PatientDirectory
	doctors   DoctorDirectory
	medicines MedicineCatalog
	tx        TxRunner
	renderer  *pdf.Renderer
	sender    mail.Sender
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewService(
	repo Repository,
	lines LineRepository,
	patients PatientDirectory,
	doctors DoctorDirectory,
	medicines MedicineCatalog,
	tx TxRunner,
	renderer *pdf.Renderer,
	sender mail.Sender,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		lines:     lines,
		patients:  patients,
		doctors:   doctors,
		medicines: medicines,
		tx:        tx,
		renderer:  renderer,
		sender:    sender,
		metrics:   m,
		logger:    logger,
	}
}

// Create validates the payload and referenced entities, then inserts the
// appointment and its lines in one transaction. Nothing is written until
// every referenced patient, doctor, and medicine checks out.
func (s *Service) Create(ctx context.Context, in *Input) (*Details, error) {
	applyDefaults(in)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	a := in.appointment()
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, a); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return s.insertLines(ctx, a.ID, in.PrescriptionDetails)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCreated.Inc()
	}
	s.logger.Info().Int64("appointment_id", a.ID).Int64("patient_id", a.PatientID).
		Int64("doctor_id", a.DoctorID).Msg("appointment created")

	return s.Get(ctx, a.ID)
}

// Get returns the full aggregate.
func (s *Service) Get(ctx context.Context, id int64) (*Details, error) {
	d, err := s.repo.GetWithDetails(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("Appointment with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return d, nil
}

// List returns a page of appointments matching the filter.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (*pagination.Response, error) {
	items, total, err := s.repo.List(ctx, f, p.PageSize, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if items == nil {
		items = []*Details{}
	}
	return pagination.NewResponse(items, total, p), nil
}

// Update replaces the appointment and its full line set. The stored version
// must match in.Version or the update conflicts.
func (s *Service) Update(ctx context.Context, id int64, in *Input) (*Details, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	applyDefaults(in)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	a := in.appointment()
	a.ID = id
	a.Version = in.Version

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, a); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.Conflictf("Appointment was modified by another request")
			}
			return fmt.Errorf("update appointment: %w", err)
		}
		if err := s.lines.SoftDeleteLines(ctx, id); err != nil {
			return fmt.Errorf("replace prescription lines: %w", err)
		}
		return s.insertLines(ctx, id, in.PrescriptionDetails)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsUpdated.Inc()
	}
	s.logger.Info().Int64("appointment_id", id).Msg("appointment updated")

	return s.Get(ctx, id)
}

// Delete soft-deletes the appointment and its lines together.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return fmt.Errorf("delete appointment: %w", err)
		}
		if err := s.lines.SoftDeleteLines(ctx, id); err != nil {
			return fmt.Errorf("delete prescription lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsDeleted.Inc()
	}
	s.logger.Info().Int64("appointment_id", id).Msg("appointment deleted")
	return nil
}

// RenderPDF renders the prescription report and returns the bytes with the
// canonical download filename.
func (s *Service) RenderPDF(ctx context.Context, id int64) ([]byte, string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderer.Render(prescriptionFor(d))
	if err != nil {
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.PDFsRendered.Inc()
	}
	return data, pdf.Filename(d.PatientFirstName, d.PatientLastName, d.AppointmentDate), nil
}

// EmailPrescription renders the report and emails it. The recipient
// defaults to the patient's own address. Returns the address it sent to.
func (s *Service) EmailPrescription(ctx context.Context, id int64, toEmail, toName string) (string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if toEmail == "" {
		toEmail = d.PatientEmail
	}
	if _, err := netmail.ParseAddress(toEmail); err != nil {
		return "", apperr.Validationf("invalid recipient email address")
	}

	data, err := s.renderer.Render(prescriptionFor(d))
	if err != nil {
		return "", err
	}

	msg, err := mail.NewPrescriptionMessage(mail.PrescriptionEmail{
		ToEmail:         toEmail,
		ToName:          toName,
		PatientName:     d.PatientName,
		DoctorName:      d.DoctorName,
		AppointmentDate: d.AppointmentDate,
		PDF:             data,
	})
	if err != nil {
		return "", err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		if s.metrics != nil {
			s.metrics.EmailsFailed.Inc()
		}
		return "", err
	}

	if s.metrics != nil {
		s.metrics.EmailsSent.Inc()
	}
	s.logger.Info().Int64("appointment_id", id).Str("to", toEmail).Msg("prescription email sent")
	return toEmail, nil
}

func (s *Service) checkReferences(ctx context.Context, in *Input) error {
	ok, err := s.patients.Exists(ctx, in.PatientID)
	if err != nil {
		return fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return apperr.Validationf("invalid patient id")
	}

	ok, err = s.doctors.Exists(ctx, in.DoctorID)
	if err != nil {
		return fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return apperr.Validationf("invalid doctor id")
	}

	for _, line := range in.PrescriptionDetails {
		ok, err := s.medicines.Exists(ctx, line.MedicineID)
		if err != nil {
			return fmt.Errorf("check medicine: %w", err)
		}
		if !ok {
			return apperr.Validationf("invalid medicine id: %d", line.MedicineID)
		}
	}
	return nil
}

func (s *Service) insertLines(ctx context.Context, appointmentID int64, lines []LineInput) error {
	for _, in := range lines {
		l := &PrescriptionLine{
			AppointmentID: appointmentID,
			MedicineID:    in.MedicineID,
			Dosage:        in.Dosage,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			Frequency:     in.Frequency,
			Instructions:  in.Instructions,
			Notes:         in.Notes,
		}
		if err := s.lines.CreateLine(ctx, l); err != nil {
			return fmt.Errorf("create prescription line: %w", err)
		}
	}
	return nil
}

func (in *Input) appointment() *Appointment {
	return &Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		AppointmentDate: in.AppointmentDate,
		VisitType:       in.VisitType,
		Status:          in.Status,
		Diagnosis:       in.Diagnosis,
		Notes:           in.Notes,
	}
}

func applyDefaults(in *Input) {
	if in.Status == "" {
		in.Status = defaultStatus
	}
	if in.VisitType == "" {
		in.VisitType = defaultVisitType
	}
}

func validate(in *Input) error {
	if in.PatientID <= 0 {
		return apperr.Validationf("patient id is required")
	}
	if in.DoctorID <= 0 {
		return apperr.Validationf("doctor id is required")
	}
	if in.AppointmentDate.IsZero() {
		return apperr.Validationf("appointment date is required")
	}
	if len(in.VisitType) > 20 {
		return apperr.Validationf("visit type must be at most 20 characters")
	}
	if len(in.Status) > 20 {
		return apperr.Validationf("status must be at most 20 characters")
	}
	if in.Diagnosis != nil && len(*in.Diagnosis) > 500 {
		return apperr.Validationf("diagnosis must be at most 500 characters")
	}
	if in.Notes != nil && len(*in.Notes) > 1000 {
		return apperr.Validationf("notes must be at most 1000 characters")
	}

	for i, line := range in.PrescriptionDetails {
		if line.MedicineID <= 0 {
			return apperr.Validationf("prescription line %d: medicine id is required", i+1)
		}
		if line.Dosage == "" {
			return apperr.Validationf("prescription line %d: dosage is required", i+1)
		}
		if len(line.Dosage) > 100 {
			return apperr.Validationf("prescription line %d: dosage must be at most 100 characters", i+1)
		}
		if line.StartDate.IsZero() || line.EndDate.IsZero() {
			return apperr.Validationf("prescription line %d: start and end dates are required", i+1)
		}
		if line.EndDate.Before(line.StartDate) {
			return apperr.Validationf("prescription line %d: end date cannot be before start date", i+1)
		}
		if line.Frequency != nil && len(*line.Frequency) > 50 {
			return apperr.Validationf("prescription line %d: frequency must be at most 50 characters", i+1)
		}
		if line.Instructions != nil && len(*line.Instructions) > 50 {
			return apperr.Validationf("prescription line %d: instructions must be at most 50 characters", i+1)
		}
		if line.Notes != nil && len(*line.Notes) > 500 {
			return apperr.Validationf("prescription line %d: notes must be at most 500 characters", i+1)
		}
	}
	return nil
}

func prescriptionFor(d *Details) pdf.Prescription {
	p := pdf.Prescription{
		PatientName:     d.PatientName,
		DoctorName:      d.DoctorName,
		AppointmentDate: d.AppointmentDate,
		VisitType:       d.VisitType,
	}
	if d.Diagnosis != nil {
		p.Diagnosis = *d.Diagnosis
	}
	if d.Notes != nil {
		p.Notes = *d.Notes
	}
	for _, line := range d.PrescriptionDetails {
		l := pdf.Line{
			MedicineName: line.MedicineName,
			Dosage:       line.Dosage,
			StartDate:    line.StartDate,
			EndDate:      line.EndDate,
		}
		if line.Notes != nil {
			l.Notes = *line.Notes
		}
		p.Lines = append(p.Lines, l)
	}
	return p
}
