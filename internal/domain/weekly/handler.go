package weekly

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/har/har/internal/platform/auth"
	"github.com/har/har/internal/platform/report"
	"github.com/har/har/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(report.RoleAgent, report.RoleChief, report.RoleDirection))
	read.GET("/weekly-reports", h.List)
	read.GET("/weekly-reports/compile", h.Compile)
	read.GET("/weekly-reports/:id", h.Get)

	api.POST("/weekly-reports/submit", h.Submit,
		auth.RequireRole(report.RoleAgent, report.RoleChief))
	api.POST("/weekly-reports/:id/validate", h.Validate,
		auth.RequireRole(report.RoleChief, report.RoleDirection))
	api.POST("/weekly-reports/:id/reject", h.Reject,
		auth.RequireRole(report.RoleChief, report.RoleDirection))
}

// workflowError maps status machine failures onto HTTP codes.
func workflowError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "weekly report not found")
	case errors.Is(err, report.ErrRoleNotAllowed):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, report.ErrTerminalStatus), errors.Is(err, report.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Compile(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	serviceID := c.QueryParam("service_id")
	if serviceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "service_id is required")
	}

	w, err := h.svc.Compile(c.Request().Context(), serviceID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

type submitRequest struct {
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
}

func (h *Handler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	if !actor.HasRole(report.RoleAdmin) && actor.ServiceID != "" && actor.ServiceID != req.ServiceID {
		return echo.NewHTTPError(http.StatusForbidden, "submission restricted to own service")
	}

	w, err := h.svc.Submit(c.Request().Context(), actor, req.ServiceID, date)
	if errors.Is(err, report.ErrTerminalStatus) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "weekly report not found")
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		ServiceID: c.QueryParam("service_id"),
		Status:    report.Status(c.QueryParam("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	f.Year, _ = strconv.Atoi(c.QueryParam("year"))
	f.Week, _ = strconv.Atoi(c.QueryParam("week"))

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Validate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	w, err := h.svc.Validate(c.Request().Context(), actor, id)
	if err != nil {
		return workflowError(err)
	}
	return c.JSON(http.StatusOK, w)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Reject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	w, err := h.svc.Reject(c.Request().Context(), actor, id, req.Reason)
	if err != nil {
		return workflowError(err)
	}
	return c.JSON(http.StatusOK, w)
}
