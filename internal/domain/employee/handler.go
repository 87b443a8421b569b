package employee

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

// RegisterRoutes mounts the employee routes. Login goes on the public
// group so a client can authenticate before holding a token.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/employees/login", h.Login)

	api.GET("/employees", h.List)
	api.POST("/employees", h.Create)
	api.GET("/employees/search", h.Search)
	api.GET("/employees/count", h.Count)
	api.GET("/employees/:id", h.Get)
	api.PUT("/employees/:id", h.Update)
	api.DELETE("/employees/:id", h.Delete)
}

type employeeRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

func (h *Handler) Create(c echo.Context) error {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e := Employee{Name: req.Name, Username: req.Username, Role: req.Role, Contact: req.Contact}
	if err := h.svc.Create(c.Request().Context(), &e, req.Password); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c, "created_at", "created_at", "name", "role")
	items, total, err := h.svc.List(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	if !seqid.Valid(id, IDPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e := Employee{ID: id, Name: req.Name, Username: req.Username, Role: req.Role, Contact: req.Contact}
	if err := h.svc.Update(c.Request().Context(), &e, req.Password); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, e)
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

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string    `json:"token"`
	Employee *Employee `json:"employee"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	e, token, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, ErrBadCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, ErrBadCredentials.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Employee: e})
}

func mapError(err error) error {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusBadRequest, ErrUsernameTaken.Error())
	case errors.Is(err, ErrInUse):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInUse.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
