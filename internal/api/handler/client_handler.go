package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/api/internal/api/metrics"
	"github.com/freelancehub/api/internal/core/aggregate"
	"github.com/freelancehub/api/internal/core/ports"
)

// ClientHandler handles HTTP requests for the client registry.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /clients.
//
// @Summary      List clients with their projects
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on name or company name"
// @Success      200     {array}   clientResponse
// @Failure      401     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	if term := c.QueryParam("search"); term != "" {
		clients = aggregate.FilterClients(clients, term)
	}
	return c.JSON(http.StatusOK, toClientResponses(clients))
}

// Create handles POST /clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.service.CreateClient(c.Request().Context(), toClientInput(req))
	if err != nil {
		return err
	}

	metrics.ClientsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// Delete handles DELETE /clients/:id. The client's projects go with it.
//
// @Summary      Delete a client and its projects
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	if err := h.service.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ClientsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
