package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// stubUserService is a canned UserService for handler tests.
type stubUserService struct {
	list       []*domain.User
	user       *domain.User
	err        error
	available  bool
	lastUpdate ports.UserUpdate
	deleted    []string
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) {
	return s.list, s.err
}

func (s *stubUserService) Get(_ context.Context, uuid string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) Update(_ context.Context, uuid string, update ports.UserUpdate) (*domain.User, error) {
	s.lastUpdate = update
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) Delete(_ context.Context, uuid string) error {
	s.deleted = append(s.deleted, uuid)
	return s.err
}

func (s *stubUserService) UsernameAvailable(context.Context, string) (bool, error) {
	return s.available, s.err
}

func (s *stubUserService) EmailAvailable(context.Context, string) (bool, error) {
	return s.available, s.err
}

func TestUserHandler_List_EmptyIsArray(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{list: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{err: domain.NewNotFoundf(`User with id "u9" not found`)})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uuid")
	c.SetParamValues("u9")

	if err := h.Get(c); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserHandler_Update_BindsPartialFields(t *testing.T) {
	e := echo.New()
	svc := &stubUserService{user: &domain.User{UUID: "u1", Username: "bob"}}
	h := NewUserHandler(svc)

	body := `{"username":"bob","role":"seller"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uuid")
	c.SetParamValues("u1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if svc.lastUpdate.Username == nil || *svc.lastUpdate.Username != "bob" {
		t.Fatalf("username not bound: %+v", svc.lastUpdate)
	}
	if svc.lastUpdate.Role == nil || *svc.lastUpdate.Role != "seller" {
		t.Fatalf("role not bound: %+v", svc.lastUpdate)
	}
	// Fields absent from the payload stay nil so the service leaves them
	// untouched.
	if svc.lastUpdate.Email != nil || svc.lastUpdate.FirstName != nil {
		t.Fatalf("absent fields must stay nil: %+v", svc.lastUpdate)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := echo.New()
	svc := &stubUserService{}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uuid")
	c.SetParamValues("u1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "u1" {
		t.Fatalf("unexpected deletions: %v", svc.deleted)
	}
}

func TestUserHandler_CheckUsername(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{available: true})

	req := httptest.NewRequest(http.MethodGet, "/api/users/check-username?username=jane", nil)
	rec := httptest.NewRecorder()
	if err := h.CheckUsername(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Available {
		t.Fatalf("expected available=true")
	}
}

func TestUserHandler_CheckUsername_EmptyIsUnavailable(t *testing.T) {
	e := echo.New()
	// The service would report available, but an empty query short-circuits.
	h := NewUserHandler(&stubUserService{available: true})

	req := httptest.NewRequest(http.MethodGet, "/api/users/check-username", nil)
	rec := httptest.NewRecorder()
	if err := h.CheckUsername(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !strings.Contains(rec.Body.String(), `"available":false`) {
		t.Fatalf("expected available=false, got %s", rec.Body.String())
	}
}

func TestUserHandler_CheckEmail_EmptyIsUnavailable(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{available: true})

	req := httptest.NewRequest(http.MethodGet, "/api/users/check-email", nil)
	rec := httptest.NewRecorder()
	if err := h.CheckEmail(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !strings.Contains(rec.Body.String(), `"available":false`) {
		t.Fatalf("expected available=false, got %s", rec.Body.String())
	}
}
