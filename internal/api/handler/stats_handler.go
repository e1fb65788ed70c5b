package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-api/internal/api/metrics"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// StatsHandler serves the per-owner dashboard snapshot.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get handles GET /api/stats.
//
// @Summary      Dashboard statistics
// @Description  Totals, latest records, and weekly/monthly/yearly creation histograms for the caller's fleet.
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StatsSnapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/stats [get]
func (h *StatsHandler) Get(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	snapshot, err := h.service.Get(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	metrics.StatsRequestsTotal.Inc()
	return c.JSON(http.StatusOK, snapshot)
}
