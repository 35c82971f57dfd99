package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// decodedEnvelope mirrors the response envelope for assertions.
type decodedEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()
	var env decodedEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != code {
		t.Fatalf("expected %d HTTPError, got %v", code, err)
	}
}

func setIdentity(c echo.Context, userID, username, role string) {
	c.Set("user_id", userID)
	c.Set("username", username)
	c.Set("role", role)
}
