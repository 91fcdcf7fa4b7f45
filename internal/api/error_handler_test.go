package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/freelancehub/api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.Required("name"), http.StatusBadRequest, "name: is required"},
		{"duplicate user", domain.ErrUserExists, http.StatusBadRequest, "username already registered"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest, "email already registered"},
		{"client missing", fmt.Errorf("create project: %w", domain.ErrClientNotFound), http.StatusNotFound, "client not found"},
		{"project missing", domain.ErrProjectNotFound, http.StatusNotFound, "project not found"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"locked", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts, try again later"},
		{"conflict", domain.ErrStatusConflict, http.StatusConflict, "project status changed concurrently, retry"},
		{"unavailable", domain.Unavailable("list clients", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "storage unavailable"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler(tc.err, e.NewContext(req, rec))

		if rec.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
			continue
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: invalid json: %v", tc.name, err)
			continue
		}
		if body.Error != tc.msg {
			t.Errorf("%s: expected message %q, got %q", tc.name, tc.msg, body.Error)
		}
	}
}

func TestHTTPErrorHandler_UnexpectedErrorDoesNotLeak(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("password authentication failed for user app"), e.NewContext(req, rec))

	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/", nil)
	rec := httptest.NewRecorder()

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrClientNotFound, e.NewContext(req, rec))

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 404, got %d %q", rec.Code, rec.Body.String())
	}
}
