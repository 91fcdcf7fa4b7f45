package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/api/internal/core/aggregate"
	"github.com/freelancehub/api/internal/core/ports"
)

// SummaryHandler serves dashboard aggregates computed over the client list.
type SummaryHandler struct {
	clients ports.ClientService
	policy  aggregate.RevenuePolicy
}

func NewSummaryHandler(clients ports.ClientService, policy aggregate.RevenuePolicy) *SummaryHandler {
	return &SummaryHandler{clients: clients, policy: policy}
}

// Get handles GET /summary.
//
// @Summary      Revenue and project totals
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        search             query     string  false  "Restrict totals to matching clients"
// @Param        exclude_abandoned  query     bool    false  "Override the configured revenue policy"
// @Success      200                {object}  summaryResponse
// @Failure      400                {object}  errorResponse
// @Failure      401                {object}  errorResponse
// @Router       /summary [get]
func (h *SummaryHandler) Get(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	policy := h.policy
	exclude, ok := parseBoolParam(c.QueryParam("exclude_abandoned"), policy.ExcludeAbandoned)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "exclude_abandoned must be a boolean")
	}
	policy.ExcludeAbandoned = exclude

	clients, err := h.clients.ListClients(c.Request().Context())
	if err != nil {
		return err
	}

	summary := aggregate.Summarize(clients, c.QueryParam("search"), policy)
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}
