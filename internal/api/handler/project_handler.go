package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/api/internal/api/metrics"
	"github.com/freelancehub/api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for the project ledger.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create handles POST /projects. Budgets that are missing, negative or not
// numbers are stored as 0.
//
// @Summary      Create a project for a client
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.CreateProject(c.Request().Context(), toProjectInput(req))
	if err != nil {
		return err
	}

	metrics.ProjectsCreatedTotal.Inc()
	metrics.ProjectBudgetCreated.Observe(project.Budget)
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// ToggleStatus handles PATCH /projects/:id/status.
//
// @Summary      Advance a project's status
// @Description  Cycles Active → Completed → Abandoned → Active.
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /projects/{id}/status [patch]
func (h *ProjectHandler) ToggleStatus(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	project, err := h.service.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.StatusTogglesTotal.WithLabelValues(string(project.Status)).Inc()
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete handles DELETE /projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	if err := h.service.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ProjectsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
