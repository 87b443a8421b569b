package invoice

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmadesk/pharmadesk/internal/domain/inventory"
	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/pharmacy-invoices", h.ListPharmacy)
	api.POST("/pharmacy-invoices", h.CreatePharmacy)
	api.GET("/pharmacy-invoices/search", h.SearchPharmacy)
	api.GET("/pharmacy-invoices/count", h.CountPharmacy)
	api.GET("/pharmacy-invoices/:id", h.GetPharmacy)
	api.DELETE("/pharmacy-invoices/:id", h.DeletePharmacy)

	api.GET("/clinic-invoices", h.ListClinic)
	api.POST("/clinic-invoices", h.CreateClinic)
	api.GET("/clinic-invoices/search", h.SearchClinic)
	api.GET("/clinic-invoices/count", h.CountClinic)
	api.GET("/clinic-invoices/:id", h.GetClinic)
	api.DELETE("/clinic-invoices/:id", h.DeleteClinic)
}

func (h *Handler) CreatePharmacy(c echo.Context) error {
	var inv PharmacyInvoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePharmacy(c.Request().Context(), &inv); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetPharmacy(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, PharmacyIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetPharmacy(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeletePharmacy(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, PharmacyIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePharmacy(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPharmacy(c echo.Context) error {
	pg := pagination.FromContext(c, "created_at", "created_at", "invoice_number", "payable")
	items, total, err := h.svc.ListPharmacy(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SearchPharmacy(c echo.Context) error {
	q := c.QueryParam("q")
	if !validate.SearchTerm(q) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search term")
	}
	pg := pagination.FromContext(c, "created_at", "created_at", "invoice_number")
	items, total, err := h.svc.SearchPharmacy(c.Request().Context(), q, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CountPharmacy(c echo.Context) error {
	n, err := h.svc.CountPharmacy(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) CreateClinic(c echo.Context) error {
	var inv ClinicInvoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateClinic(c.Request().Context(), &inv); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetClinic(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, ClinicIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetClinic(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteClinic(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, ClinicIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteClinic(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListClinic(c echo.Context) error {
	pg := pagination.FromContext(c, "created_at", "created_at", "invoice_number", "payable")
	items, total, err := h.svc.ListClinic(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SearchClinic(c echo.Context) error {
	q := c.QueryParam("q")
	if !validate.SearchTerm(q) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search term")
	}
	pg := pagination.FromContext(c, "created_at", "created_at", "invoice_number")
	items, total, err := h.svc.SearchClinic(c.Request().Context(), q, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CountClinic(c echo.Context) error {
	n, err := h.svc.CountClinic(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func mapError(err error) error {
	var vErr *validate.Error
	var cErr *inventory.CheckoutRejectedError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.As(err, &cErr):
		return echo.NewHTTPError(http.StatusBadRequest, cErr.Error())
	case errors.Is(err, ErrDuplicateNumber):
		return echo.NewHTTPError(http.StatusBadRequest, ErrDuplicateNumber.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
