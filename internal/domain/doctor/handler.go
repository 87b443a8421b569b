package doctor

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
	api.GET("/doctors", h.List)
	api.POST("/doctors", h.Create)
	api.GET("/doctors/search", h.Search)
	api.GET("/doctors/count", h.Count)
	api.GET("/doctors/:id", h.Get)
	api.PUT("/doctors/:id", h.Update)
	api.DELETE("/doctors/:id", h.Delete)
	api.POST("/doctors/:id/add-schedule", h.AddSchedule)
	api.POST("/doctors/:id/remove-schedule", h.RemoveSchedule)
	api.GET("/doctors/:id/check-schedule", h.CheckSchedule)
}

func (h *Handler) Create(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &d); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c, "created_at", "created_at", "name", "specialization")
	items, total, err := h.svc.List(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// Update keeps the 201 response the callers of the original API expect.
func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.Update(c.Request().Context(), &d); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
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
	pg := pagination.FromContext(c, "name", "name", "created_at")
	items, total, err := h.svc.SearchByName(c.Request().Context(), q, pg)
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

func (h *Handler) AddSchedule(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var entry WorkingScheduleEntry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.AddSchedule(c.Request().Context(), id, entry)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) RemoveSchedule(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var entry WorkingScheduleEntry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.RemoveSchedule(c.Request().Context(), id, entry)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) CheckSchedule(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	day, err := strconv.Atoi(c.QueryParam("day"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "day must be a number")
	}
	within, err := h.svc.CheckSchedule(c.Request().Context(), id, day, c.QueryParam("time"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"available": within})
}

func mapError(err error) error {
	var vErr *validate.Error
	var cErr *ConflictError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.As(err, &cErr):
		return echo.NewHTTPError(http.StatusBadRequest, cErr.Error())
	case errors.Is(err, ErrInUse):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInUse.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
