package booking

import (
	"errors"
	"net/http"

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
	api.GET("/bookings", h.List)
	api.POST("/bookings", h.Create)
	api.GET("/bookings/search", h.Search)
	api.GET("/bookings/count", h.Count)
	api.GET("/bookings/:id", h.Get)
	api.PUT("/bookings/:id", h.Update)
	api.DELETE("/bookings/:id", h.Delete)

	api.GET("/services", h.ListServices)
	api.POST("/services", h.CreateService)
	api.GET("/services/count", h.CountServices)
	api.GET("/services/:id", h.GetService)
	api.PUT("/services/:id", h.UpdateService)
	api.DELETE("/services/:id", h.DeleteService)

	api.GET("/timeslots", h.ListTimeSlots)
}

func (h *Handler) Create(c echo.Context) error {
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, BookingIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c, "date_time", "date_time", "patient_name", "created_at")
	items, total, err := h.svc.List(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, BookingIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	if err := h.svc.Update(c.Request().Context(), &b); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, BookingIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if !validate.SearchTerm(q) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search term")
	}
	pg := pagination.FromContext(c, "date_time", "date_time", "patient_name")
	items, total, err := h.svc.SearchByPatient(c.Request().Context(), q, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Count(c echo.Context) error {
	n, err := h.svc.Count(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) CreateService(c echo.Context) error {
	var s ClinicService
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateService(c.Request().Context(), &s); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) GetService(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, ServiceIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	s, err := h.svc.GetService(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) UpdateService(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, ServiceIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var s ClinicService
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.ID = id
	if err := h.svc.UpdateService(c.Request().Context(), &s); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) DeleteService(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, ServiceIDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteService(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListServices(c echo.Context) error {
	pg := pagination.FromContext(c, "name", "name", "price", "created_at")
	items, total, err := h.svc.ListServices(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CountServices(c echo.Context) error {
	n, err := h.svc.CountServices(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) ListTimeSlots(c echo.Context) error {
	slots, err := h.svc.ListTimeSlots(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

func mapError(err error) error {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrServiceNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrServiceNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
