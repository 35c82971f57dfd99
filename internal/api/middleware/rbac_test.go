package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRBAC_AllowedRole(t *testing.T) {
	if err := runRBAC(t, "admin", "admin"); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestRBAC_DisallowedRole(t *testing.T) {
	err := runRBAC(t, "user", "admin")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestRBAC_MissingRole(t *testing.T) {
	err := runRBAC(t, "", "admin")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}
