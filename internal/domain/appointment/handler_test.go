package appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/mail"
)

func setupHandler(t *testing.T) (*echo.Echo, *Service, *fixture, *mail.MockSender) {
	t.Helper()
	f := newFixture()
	sender := &mail.MockSender{}
	svc := newTestService(f, sender)
	e := echo.New()
	NewHandler(svc).RegisterRoutes(e.Group("/api"))
	return e, svc, f, sender
}

func TestHandlerCreateAppointment(t *testing.T) {
	e, _, _, _ := setupHandler(t)

	body := `{
		"patientId": 1,
		"doctorId": 1,
		"appointmentDate": "2025-03-10T14:30:00Z",
		"diagnosis": "Seasonal flu",
		"prescriptionDetails": [
			{"medicineId": 1, "dosage": "500mg", "startDate": "2025-03-10T00:00:00Z", "endDate": "2025-03-17T00:00:00Z"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"status":"Scheduled"`, `"patientName":"John Doe"`, `"medicineName":"Paracetamol"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body missing %s: %s", want, rec.Body.String())
		}
	}
}

func TestHandlerStaleVersionReturns409(t *testing.T) {
	e, svc, _, _ := setupHandler(t)

	d, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	in := validInput()
	in.Version = d.Version
	if _, err := svc.Update(context.Background(), d.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	body := `{
		"patientId": 1,
		"doctorId": 1,
		"appointmentDate": "2025-03-10T14:30:00Z",
		"version": 0
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/appointments/1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerPDFDownload(t *testing.T) {
	e, svc, _, _ := setupHandler(t)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/1/pdf", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "Prescription_John_Doe_20250310.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body is not a PDF")
	}
}

func TestHandlerEmail(t *testing.T) {
	e, svc, _, sender := setupHandler(t)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/1/email",
		strings.NewReader(`{"toEmail":"family@example.com","toName":"Family"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"sentTo":"family@example.com"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if len(sender.Messages) != 1 || sender.Messages[0].ToName != "Family" {
		t.Fatalf("unexpected messages: %+v", sender.Messages)
	}
}

func TestHandlerListWithFilters(t *testing.T) {
	e, svc, _, _ := setupHandler(t)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/appointments?doctorId=1&page=1&pageSize=5", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"totalCount":1`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments?doctorId=abc", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for bad doctorId", rec.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	e, svc, _, _ := setupHandler(t)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments/1", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d", rec.Code)
	}
}
