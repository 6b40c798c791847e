package doctor

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/apperr"
)

type mockRepo struct {
	nextID  int64
	doctors map[int64]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[int64]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	m.nextID++
	d.ID = m.nextID
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok || d.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) GetAll(_ context.Context) ([]*Doctor, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		if !d.IsDeleted {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) SearchByName(_ context.Context, term string) ([]*Doctor, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		if d.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(d.FirstName+" "+d.LastName), strings.ToLower(term)) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) GetBySpecialization(_ context.Context, specialization string) ([]*Doctor, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		if !d.IsDeleted && strings.EqualFold(d.Specialization, specialization) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) IsEmailUnique(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, d := range m.doctors {
		if d.IsDeleted || d.ID == excludeID {
			continue
		}
		if strings.EqualFold(d.Email, email) {
			return false, nil
		}
	}
	return true, nil
}

func (m *mockRepo) IsLicenseUnique(_ context.Context, licenseNumber string, excludeID int64) (bool, error) {
	for _, d := range m.doctors {
		if d.IsDeleted || d.ID == excludeID || d.LicenseNumber == nil {
			continue
		}
		if *d.LicenseNumber == licenseNumber {
			return false, nil
		}
	}
	return true, nil
}

func (m *mockRepo) Exists(_ context.Context, id int64) (bool, error) {
	d, ok := m.doctors[id]
	return ok && !d.IsDeleted, nil
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	existing, ok := m.doctors[d.ID]
	if !ok || existing.IsDeleted {
		return pgx.ErrNoRows
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id int64) error {
	d, ok := m.doctors[id]
	if !ok || d.IsDeleted {
		return pgx.ErrNoRows
	}
	d.IsDeleted = true
	return nil
}

func strPtr(s string) *string { return &s }

func validDoctor() *Doctor {
	return &Doctor{
		FirstName:       "Sarah",
		LastName:        "Smith",
		Email:           "sarah.smith@hospital.com",
		Specialization:  "Cardiology",
		LicenseNumber:   strPtr("MD001"),
		ExperienceYears: 15,
	}
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func TestCreateDoctor(t *testing.T) {
	svc, _ := newTestService()

	d := validDoctor()
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := svc.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName() != "Sarah Smith" {
		t.Errorf("full name = %q", got.FullName())
	}
}

func TestCreateDoctorValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*Doctor)
	}{
		{"missing first name", func(d *Doctor) { d.FirstName = "" }},
		{"missing specialization", func(d *Doctor) { d.Specialization = "" }},
		{"bad email", func(d *Doctor) { d.Email = "not-an-email" }},
		{"negative experience", func(d *Doctor) { d.ExperienceYears = -1 }},
		{"license too long", func(d *Doctor) { d.LicenseNumber = strPtr(strings.Repeat("x", 51)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDoctor()
			tc.mutate(d)
			err := svc.Create(context.Background(), d)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDoctorDuplicateLicense(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.Create(context.Background(), validDoctor()); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := validDoctor()
	dup.Email = "other@hospital.com"
	err := svc.Create(context.Background(), dup)
	if err == nil || err.Error() != "License number already exists" {
		t.Fatalf("expected license conflict, got %v", err)
	}

	// A doctor without a license number never trips the check.
	noLicense := validDoctor()
	noLicense.Email = "third@hospital.com"
	noLicense.LicenseNumber = nil
	if err := svc.Create(context.Background(), noLicense); err != nil {
		t.Fatalf("create without license: %v", err)
	}
}

func TestCreateDoctorDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.Create(context.Background(), validDoctor()); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := validDoctor()
	dup.LicenseNumber = strPtr("MD999")
	err := svc.Create(context.Background(), dup)
	if err == nil || err.Error() != "Email already exists" {
		t.Fatalf("expected email conflict, got %v", err)
	}
}

func TestGetBySpecialization(t *testing.T) {
	svc, _ := newTestService()

	cardio := validDoctor()
	if err := svc.Create(context.Background(), cardio); err != nil {
		t.Fatalf("create: %v", err)
	}
	neuro := validDoctor()
	neuro.Email = "maria.garcia@hospital.com"
	neuro.LicenseNumber = strPtr("MD005")
	neuro.Specialization = "Neurology"
	if err := svc.Create(context.Background(), neuro); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.BySpecialization(context.Background(), "cardiology")
	if err != nil {
		t.Fatalf("by specialization: %v", err)
	}
	if len(got) != 1 || got[0].ID != cardio.ID {
		t.Fatalf("expected only the cardiologist, got %d doctors", len(got))
	}
}

func TestUpdateDoctorKeepOwnLicense(t *testing.T) {
	svc, _ := newTestService()

	d := validDoctor()
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validDoctor()
	in.ExperienceYears = 16
	updated, err := svc.Update(context.Background(), d.ID, in)
	if err != nil {
		t.Fatalf("update with own license: %v", err)
	}
	if updated.ExperienceYears != 16 {
		t.Errorf("experience = %d, want 16", updated.ExperienceYears)
	}
}

func TestDeleteDoctorNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Delete(context.Background(), 42)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Doctor with ID 42 not found" {
		t.Errorf("message = %q", err.Error())
	}
}
