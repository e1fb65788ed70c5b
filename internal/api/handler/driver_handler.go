package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-api/internal/api/metrics"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// DriverHandler handles HTTP requests for driver records.
type DriverHandler struct {
	service ports.DriverService
}

func NewDriverHandler(service ports.DriverService) *DriverHandler {
	return &DriverHandler{service: service}
}

// Create handles POST /api/drivers.
//
// @Summary      Create a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      driverRequest  true  "Driver details"
// @Success      201   {object}  domain.Driver
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/drivers [post]
func (h *DriverHandler) Create(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req driverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	driver, err := h.service.Create(c.Request().Context(), ownerID, input)
	if err != nil {
		return err
	}

	metrics.RecordMutationsTotal.WithLabelValues("driver", "create").Inc()
	return c.JSON(http.StatusCreated, driver)
}

// List handles GET /api/drivers?search=&limit=&offset=.
//
// @Summary      List drivers
// @Tags         drivers
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive substring filter"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  driverListResponse
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/drivers [get]
func (h *DriverHandler) List(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), ownerID, listQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, driverListResponse{Data: list.Data, Total: list.Total})
}

// Update handles PUT /api/drivers/:id.
//
// @Summary      Update a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Driver id"
// @Param        body  body      driverRequest  true  "Driver details"
// @Success      200   {object}  domain.Driver
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/drivers/{id} [put]
func (h *DriverHandler) Update(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req driverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	driver, err := h.service.Update(c.Request().Context(), c.Param("id"), ownerID, input)
	if err != nil {
		return err
	}

	metrics.RecordMutationsTotal.WithLabelValues("driver", "update").Inc()
	return c.JSON(http.StatusOK, driver)
}

// Delete handles DELETE /api/drivers/:id.
//
// @Summary      Delete a driver
// @Tags         drivers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Driver id"
// @Success      200  {object}  driverDeleteResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/drivers/{id} [delete]
func (h *DriverHandler) Delete(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return err
	}

	metrics.RecordMutationsTotal.WithLabelValues("driver", "delete").Inc()
	return c.JSON(http.StatusOK, driverDeleteResponse{Message: "Driver deleted successfully"})
}
