package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

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
	api.GET("/medicines", h.ListMedicines)
	api.POST("/medicines", h.CreateMedicine)
	api.GET("/medicines/search", h.SearchMedicines)
	api.GET("/medicines/count", h.CountMedicines)
	api.GET("/medicines/alerts", h.Alerts)
	api.POST("/medicines/checkout", h.Checkout)
	api.GET("/medicines/:id", h.GetMedicine)
	api.PUT("/medicines/:id", h.UpdateMedicine)
	api.DELETE("/medicines/:id", h.DeleteMedicine)

	api.GET("/tags", h.ListTags)
	api.POST("/tags", h.CreateTag)
	api.GET("/tags/count", h.CountTags)
	api.GET("/tags/:id", h.GetTag)
	api.PUT("/tags/:id", h.UpdateTag)
	api.DELETE("/tags/:id", h.DeleteTag)
}

// -- Medicine --

func (h *Handler) CreateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedicine(c.Request().Context(), &m); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, MedicineIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMedicine(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pg := pagination.FromContext(c, "created_at", "created_at", "name", "qty", "expiry")
	items, total, err := h.svc.ListMedicines(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, MedicineIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMedicine(c.Request().Context(), &m); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, MedicineIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteMedicine(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SearchMedicines(c echo.Context) error {
	q := c.QueryParam("q")
	if !validate.SearchTerm(q) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search term")
	}
	pg := pagination.FromContext(c, "name", "name", "created_at", "qty")
	items, total, err := h.svc.SearchMedicines(c.Request().Context(), q, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CountMedicines(c echo.Context) error {
	n, err := h.svc.CountMedicines(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

type checkoutRequest struct {
	MedicineID string `json:"medicine_id"`
	Qty        int    `json:"qty"`
}

func (h *Handler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !seqid.Valid(req.MedicineID, MedicineIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medicine_id")
	}
	m, err := h.svc.Checkout(c.Request().Context(), req.MedicineID, req.Qty)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Alerts(c echo.Context) error {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		days = 30
	}
	low, expiring, err := h.svc.Alerts(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"low_stock": low,
		"expiring":  expiring,
	})
}

// -- Tag --

func (h *Handler) CreateTag(c echo.Context) error {
	var t Tag
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateTag(c.Request().Context(), &t); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTag(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, TagIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.GetTag(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTags(c echo.Context) error {
	pg := pagination.FromContext(c, "name", "name", "created_at")
	items, total, err := h.svc.ListTags(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateTag(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, TagIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var t Tag
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.svc.UpdateTag(c.Request().Context(), &t); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) DeleteTag(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, TagIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteTag(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CountTags(c echo.Context) error {
	n, err := h.svc.CountTags(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func mapError(err error) error {
	var vErr *validate.Error
	var cErr *CheckoutRejectedError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.As(err, &cErr):
		return echo.NewHTTPError(http.StatusBadRequest, cErr.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
