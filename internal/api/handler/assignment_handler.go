package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ottermap/workflow-system/internal/api/metrics"
	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// AssignmentHandler handles HTTP requests for the assignment lifecycle.
type AssignmentHandler struct {
	service ports.AssignmentService
}

func NewAssignmentHandler(service ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Upload submits a new assignment addressed to a named admin.
//
// @Summary      Submit an assignment
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadRequest  true  "Task and target admin"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /user/upload [post]
func (h *AssignmentHandler) Upload(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assignment, err := h.service.Submit(c.Request().Context(), identity, req.Task, req.Admin)
	if err != nil {
		return err
	}

	metrics.AssignmentsSubmittedTotal.Inc()

	return respond(c, http.StatusOK, toAssignmentResponse(assignment), "assignment uploaded successfully")
}

// ListForAdmin returns all assignments addressed to the calling admin.
//
// @Summary      List assignments for the calling admin
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /admin/assignments [get]
func (h *AssignmentHandler) ListForAdmin(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	assignments, err := h.service.ListForAdmin(c.Request().Context(), identity)
	if err != nil {
		return err
	}

	items := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, toAssignmentResponse(a))
	}

	return respond(c, http.StatusOK, items, "assignments fetched successfully")
}

// Accept transitions a pending assignment to accepted.
//
// @Summary      Accept an assignment
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        assign_id  path      string  true  "Assignment id"
// @Success      200        {object}  envelope
// @Failure      400        {object}  envelope
// @Failure      403        {object}  envelope
// @Failure      404        {object}  envelope
// @Router       /admin/assignments/{assign_id}/accept [post]
func (h *AssignmentHandler) Accept(c echo.Context) error {
	return h.decide(c, domain.StatusAccepted)
}

// Reject transitions a pending assignment to rejected.
//
// @Summary      Reject an assignment
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        assign_id  path      string  true  "Assignment id"
// @Success      200        {object}  envelope
// @Failure      400        {object}  envelope
// @Failure      403        {object}  envelope
// @Failure      404        {object}  envelope
// @Router       /admin/assignments/{assign_id}/reject [post]
func (h *AssignmentHandler) Reject(c echo.Context) error {
	return h.decide(c, domain.StatusRejected)
}

func (h *AssignmentHandler) decide(c echo.Context, outcome domain.AssignmentStatus) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	assignID := c.Param("assign_id")
	assignment, err := h.service.Decide(c.Request().Context(), identity, assignID, outcome)
	if err != nil {
		return err
	}

	metrics.AssignmentDecisionsTotal.WithLabelValues(string(outcome)).Inc()

	msg := fmt.Sprintf("assignment %s %s successfully", assignID, outcome)
	return respond(c, http.StatusOK, toAssignmentResponse(assignment), msg)
}

func toAssignmentResponse(a *domain.Assignment) assignmentResponse {
	return assignmentResponse{
		AssignID:    a.ID,
		UserName:    a.OwnerUsername,
		Task:        a.Task,
		Admin:       a.AdminUsername,
		Status:      string(a.Status),
		SubmittedAt: a.SubmittedAt,
		DecidedAt:   a.DecidedAt,
	}
}
