package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelfwise/library-system/internal/core/domain"
	"github.com/shelfwise/library-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(username, email, password string, role domain.Role) (*domain.User, error)
	loginFn    func(username, password string) (*ports.TokenPair, error)
	refreshFn  func(refreshToken string) (*ports.TokenPair, error)
}

func (s *stubAuthService) Register(_ context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	return s.registerFn(username, email, password, role)
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (*ports.TokenPair, error) {
	return s.loginFn(username, password)
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(refreshToken)
}

type stubUserService struct {
	byUsername map[string]*domain.User
}

func (s *stubUserService) Get(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range s.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) List(context.Context, int, int) ([]*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) Update(context.Context, int64, ports.UpdateUserInput) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Delete(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// doJSON invokes the handler directly; the returned error is handed back to
// the caller so tests can assert on the domain sentinel the central error
// handler would translate.
func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func doForm(e *echo.Echo, h echo.HandlerFunc, target string, form url.Values) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func TestAuthHandler_Register(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(username, email, password string, role domain.Role) (*domain.User, error) {
			return &domain.User{
				ID:         1,
				Username:   username,
				Email:      email,
				Role:       role,
				CreatedAt:  time.Now().UTC(),
				ModifiedAt: time.Now().UTC(),
			}, nil
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})
	e := newTestEcho()

	rec, err := doJSON(e, h.Register, http.MethodPost, "/api/v1/users",
		`{"username":"alice","email":"alice@example.com","password":"pw1","user_type":"member"}`)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "alice" || resp.UserType != "member" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}
}

// user_type outside the three known roles never reaches the service: the
// request validator rejects it first.
func TestAuthHandler_Register_InvalidRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})
	e := newTestEcho()

	_, err := doJSON(e, h.Register, http.MethodPost, "/api/v1/users",
		`{"username":"alice","email":"alice@example.com","password":"pw1","user_type":"root"}`)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(string, string, string, domain.Role) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})
	e := newTestEcho()

	_, err := doJSON(e, h.Register, http.MethodPost, "/api/v1/users",
		`{"username":"alice","email":"alice@example.com","password":"pw1","user_type":"member"}`)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Form(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(username, password string) (*ports.TokenPair, error) {
			if username != "alice" || password != "pw1" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer"}, nil
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})
	e := newTestEcho()

	rec, err := doForm(e, h.Login, "/api/v1/token", url.Values{
		"username": {"alice"},
		"password": {"pw1"},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var pair ports.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if pair.AccessToken != "acc" || pair.RefreshToken != "ref" || pair.TokenType != "bearer" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(string, string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})
	e := newTestEcho()

	_, err := doForm(e, h.Login, "/api/v1/token", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(string, string) (*ports.TokenPair, error) {
			return nil, domain.ErrTooManyAttempts
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})
	e := newTestEcho()

	_, err := doForm(e, h.Login, "/api/v1/token", url.Values{
		"username": {"alice"},
		"password": {"pw1"},
	})
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	auth := &stubAuthService{
		refreshFn: func(refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "good-refresh" {
				return nil, domain.ErrInvalidRefreshToken
			}
			return &ports.TokenPair{AccessToken: "acc2", RefreshToken: "ref2", TokenType: "bearer"}, nil
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})
	e := newTestEcho()

	rec, err := doJSON(e, h.Refresh, http.MethodPost, "/api/v1/token/refresh",
		`{"refresh_token":"good-refresh"}`)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	_, err = doJSON(e, h.Refresh, http.MethodPost, "/api/v1/token/refresh",
		`{"refresh_token":"bad"}`)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})
	e := newTestEcho()

	_, err := doJSON(e, h.Refresh, http.MethodPost, "/api/v1/token/refresh", `{}`)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	users := &stubUserService{byUsername: map[string]*domain.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com", Role: domain.RoleMember},
	}}
	h := NewAuthHandler(&stubAuthService{}, users)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "alice")
	c.Set("role", "member")

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
