package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ottermap/workflow-system/internal/api/metrics"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// AccountHandler serves registration and login for one role group. The router
// mounts one instance under /admin and one under /user; the role is fixed per
// mount, never taken from the request body.
type AccountHandler struct {
	service ports.AccountService
	role    string
}

func NewAccountHandler(service ports.AccountService, role string) *AccountHandler {
	return &AccountHandler{service: service, role: role}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /user/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.Register(c.Request().Context(), req.Username, req.Email, req.Password, h.role)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(h.role).Inc()

	return respond(c, http.StatusOK, accountResponse{
		UserID:    account.ID,
		Username:  account.Username,
		Email:     account.Email,
		UserType:  account.Role,
		CreatedAt: account.CreatedAt,
	}, "account registered")
}

// Login authenticates an account and returns a fresh bearer token.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /user/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, account, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return respond(c, http.StatusOK, loginResponse{
		UserID:      account.ID,
		Username:    account.Username,
		Email:       account.Email,
		UserType:    account.Role,
		AccessToken: token,
	}, "login successful")
}

// ListAdmins returns the usernames of all admin accounts.
//
// @Summary      List all admins
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /user/all-admin [get]
func (h *AccountHandler) ListAdmins(c echo.Context) error {
	names, err := h.service.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}

	admins := make([]adminResponse, 0, len(names))
	for _, name := range names {
		admins = append(admins, adminResponse{Username: name})
	}

	return respond(c, http.StatusOK, admins, "all admin list")
}
