package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ottermap/workflow-system/internal/core/ports"
)

// ctxIdentity extracts the caller identity injected by the Auth middleware
// and performs a fast-fail check before any service call: username and role
// must both be present, proving the middleware ran on this route.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)
	if username == "" || role == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get("user_id").(string)
	return ports.Identity{UserID: userID, Username: username, Role: role}, nil
}
