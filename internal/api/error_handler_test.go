package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, errorEnvelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var env errorEnvelope
	if derr := json.Unmarshal(rec.Body.Bytes(), &env); derr != nil {
		t.Fatalf("decoding envelope: %v (body: %s)", derr, rec.Body.String())
	}
	return rec, env
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrInvalidCoordinates, http.StatusBadRequest},
		{domain.ErrAccountExists, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusBadRequest},
		{domain.ErrAccountNotFound, http.StatusBadRequest},
		{domain.ErrAlreadyProcessed, http.StatusBadRequest},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotAssignedToYou, http.StatusForbidden},
		{domain.ErrAssignmentNotFound, http.StatusNotFound},
		{domain.ErrNoAssignments, http.StatusNotFound},
	}

	for _, tc := range cases {
		rec, env := renderError(t, tc.err)
		if rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if env.Status != tc.code || env.Message != tc.err.Error() {
			t.Errorf("%v: unexpected envelope %+v", tc.err, env)
		}
		if env.Data != nil {
			t.Errorf("%v: error envelope must carry null data", tc.err)
		}
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	rec, env := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "invalid token"))
	if rec.Code != http.StatusUnauthorized || env.Message != "invalid token" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	rec, env := renderError(t, errors.New("mongo: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	// Internal causes never leak to the client.
	if env.Message != "internal server error" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}
