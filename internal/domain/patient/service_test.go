package patient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/apperr"
)

type mockRepo struct {
	patients map[int64]*Patient
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[int64]*Patient), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetAll(ctx context.Context) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.patients {
		if !p.IsDeleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) SearchByName(ctx context.Context, term string) ([]*Patient, error) {
	term = strings.ToLower(term)
	var out []*Patient
	for _, p := range m.patients {
		if p.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(p.FirstName), term) ||
			strings.Contains(strings.ToLower(p.LastName), term) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) IsEmailUnique(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, p := range m.patients {
		if p.IsDeleted || p.ID == excludeID {
			continue
		}
		if strings.EqualFold(p.Email, email) {
			return false, nil
		}
	}
	return true, nil
}

func (m *mockRepo) Exists(ctx context.Context, id int64) (bool, error) {
	p, ok := m.patients[id]
	return ok && !p.IsDeleted, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	existing, ok := m.patients[p.ID]
	if !ok || existing.IsDeleted {
		return pgx.ErrNoRows
	}
	cp := *p
	cp.UpdatedAt = time.Now()
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) SoftDelete(ctx context.Context, id int64) error {
	p, ok := m.patients[id]
	if !ok || p.IsDeleted {
		return pgx.ErrNoRows
	}
	p.IsDeleted = true
	return nil
}

func validPatient() *Patient {
	return &Patient{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@email.com",
		DateOfBirth: time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected assigned ID")
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing first name", func(p *Patient) { p.FirstName = "" }},
		{"missing last name", func(p *Patient) { p.LastName = "" }},
		{"missing email", func(p *Patient) { p.Email = "" }},
		{"malformed email", func(p *Patient) { p.Email = "not-an-email" }},
		{"missing date of birth", func(p *Patient) { p.DateOfBirth = time.Time{} }},
		{"future date of birth", func(p *Patient) { p.DateOfBirth = time.Now().Add(24 * time.Hour) }},
		{"oversized first name", func(p *Patient) { p.FirstName = strings.Repeat("a", 101) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			p := validPatient()
			tt.mutate(p)

			err := svc.Create(context.Background(), p)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.Create(context.Background(), validPatient()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	dup := validPatient()
	dup.FirstName = "Johnny"
	err := svc.Create(context.Background(), dup)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
	if err.Error() != "Email already exists" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestCreate_EmailReusableAfterSoftDelete(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	// Uniqueness checks only consider live rows.
	if err := svc.Create(context.Background(), validPatient()); err != nil {
		t.Errorf("expected email to be reusable after soft delete, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), 42)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestGet_SoftDeletedInvisible(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient()
	svc.Create(context.Background(), p)
	svc.Delete(context.Background(), p.ID)

	if _, err := svc.Get(context.Background(), p.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected soft-deleted patient to be invisible, got %v", err)
	}

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty list, got %d patients", len(all))
	}
}

func TestSearch_EmptyTerm(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Search(context.Background(), "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService()
	svc.Create(context.Background(), validPatient())

	jane := validPatient()
	jane.FirstName = "Jane"
	jane.LastName = "Smith"
	jane.Email = "jane.smith@email.com"
	svc.Create(context.Background(), jane)

	found, err := svc.Search(context.Background(), "smi")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(found) != 1 || found[0].LastName != "Smith" {
		t.Errorf("unexpected search result: %+v", found)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient()
	svc.Create(context.Background(), p)

	in := validPatient()
	in.FirstName = "Jonathan"
	updated, err := svc.Update(context.Background(), p.ID, in)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.FirstName != "Jonathan" {
		t.Errorf("expected updated first name, got %q", updated.FirstName)
	}

	got, _ := svc.Get(context.Background(), p.ID)
	if got.FirstName != "Jonathan" {
		t.Errorf("expected persisted update, got %q", got.FirstName)
	}
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	first := validPatient()
	svc.Create(context.Background(), first)

	second := validPatient()
	second.Email = "jane.smith@email.com"
	svc.Create(context.Background(), second)

	in := validPatient()
	in.Email = first.Email
	_, err := svc.Update(context.Background(), second.ID, in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdate_KeepOwnEmail(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient()
	svc.Create(context.Background(), p)

	// Updating without changing the email must not trip the uniqueness check.
	if _, err := svc.Update(context.Background(), p.ID, validPatient()); err != nil {
		t.Errorf("expected update with own email to succeed, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Update(context.Background(), 99, validPatient())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Delete(context.Background(), 99); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}
