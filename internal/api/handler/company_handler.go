package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-api/internal/api/metrics"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// CompanyHandler handles HTTP requests for company records.
type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// Create handles POST /api/companies.
//
// @Summary      Create a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company details"
// @Success      201   {object}  domain.Company
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req companyRequest
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

	company, err := h.service.Create(c.Request().Context(), ownerID, input)
	if err != nil {
		return err
	}

	metrics.RecordMutationsTotal.WithLabelValues("company", "create").Inc()
	return c.JSON(http.StatusCreated, company)
}

// List handles GET /api/companies?search=&limit=&offset=.
//
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive substring filter"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  companyListResponse
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), ownerID, listQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, companyListResponse{Data: list.Data, Total: list.Total})
}

// Update handles PUT /api/companies/:id.
//
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company id"
// @Param        body  body      companyRequest  true  "Company details"
// @Success      200   {object}  domain.Company
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req companyRequest
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

	company, err := h.service.Update(c.Request().Context(), c.Param("id"), ownerID, input)
	if err != nil {
		return err
	}

	metrics.RecordMutationsTotal.WithLabelValues("company", "update").Inc()
	return c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /api/companies/:id.
//
// @Summary      Delete a company
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Company id"
// @Success      200  {object}  companyDeleteResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID)
	if err != nil {
		return err
	}

	metrics.RecordMutationsTotal.WithLabelValues("company", "delete").Inc()
	return c.JSON(http.StatusOK, companyDeleteResponse{
		Success: true,
		Message: "Company deleted",
		Deleted: deleted,
	})
}

// listQuery reads the shared search/pagination query parameters. Bad numbers
// fall back to the defaults the service applies.
func listQuery(c echo.Context) ports.ListQuery {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return ports.ListQuery{
		Search: c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	}
}
