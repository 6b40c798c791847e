package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler() (*Handler, *mockRepo) {
	repo := newMockRepo()
	return NewHandler(NewService(repo, zerolog.Nop())), repo
}

const createBody = `{
	"firstName": "John",
	"lastName": "Doe",
	"email": "john.doe@email.com",
	"phone": "+1234567890",
	"dateOfBirth": "1990-05-15T00:00:00Z",
	"gender": "Male",
	"address": "123 Main St, New York, NY"
}`

func TestHandlerCreate(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(createBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.create(c); err != nil {
		t.Fatalf("create handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.ID == 0 || got.FirstName != "John" {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestHandlerCreate_DuplicateEmail(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	for i, wantCode := range []int{http.StatusCreated, http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(createBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.create(c)
		code := rec.Code
		if httpErr, ok := err.(*echo.HTTPError); ok {
			code = httpErr.Code
		}
		if code != wantCode {
			t.Errorf("request %d: expected %d, got %d", i, wantCode, code)
		}
	}
}

func TestHandlerGet(t *testing.T) {
	h, repo := newTestHandler()
	e := echo.New()

	p := validPatient()
	repo.Create(nil, p)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(p.ID, 10))

	if err := h.get(c); err != nil {
		t.Fatalf("get handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/patients/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandlerGet_InvalidID(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/patients/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandlerSearch_EmptyTerm(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/patients/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.search(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandlerDelete(t *testing.T) {
	h, repo := newTestHandler()
	e := echo.New()

	p := validPatient()
	repo.Create(nil, p)

	req := httptest.NewRequest(http.MethodDelete, "/api/patients/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(p.ID, 10))

	if err := h.delete(c); err != nil {
		t.Fatalf("delete handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	if got, _ := repo.GetAll(nil); len(got) != 0 {
		t.Errorf("expected patient to be invisible after delete, got %d", len(got))
	}
}
