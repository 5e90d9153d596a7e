package monthly

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/har/har/internal/platform/auth"
	"github.com/har/har/internal/platform/report"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(report.RoleAgent, report.RoleChief, report.RoleDirection))
	read.GET("/monthly-reports/:serviceId/:year", h.ListYear)
	read.GET("/monthly-reports/:serviceId/:year/:month", h.Get)

	write := api.Group("", auth.RequireRole(report.RoleChief))
	write.PUT("/monthly-reports", h.Save)
	write.POST("/monthly-reports/:serviceId/:year/:month/validate", h.Validate)
}

func monthKey(c echo.Context) (string, int, time.Month, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return "", 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return "", 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid month, expected 1-12")
	}
	return c.Param("serviceId"), year, time.Month(month), nil
}

func (h *Handler) Get(c echo.Context) error {
	serviceID, year, month, err := monthKey(c)
	if err != nil {
		return err
	}
	m, err := h.svc.GetOrGenerate(c.Request().Context(), serviceID, year, month)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListYear(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	items, err := h.svc.ListYear(c.Request().Context(), c.Param("serviceId"), year)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Save(c echo.Context) error {
	var m MonthlyReport
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.ActorFromContext(c.Request().Context())
	if !actor.HasRole(report.RoleAdmin) && actor.ServiceID != "" && actor.ServiceID != m.ServiceID {
		return echo.NewHTTPError(http.StatusForbidden, "save restricted to own service")
	}

	err := h.svc.Save(c.Request().Context(), &m)
	if errors.Is(err, report.ErrTerminalStatus) {
		return echo.NewHTTPError(http.StatusConflict, "month already validated")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Validate(c echo.Context) error {
	serviceID, year, month, err := monthKey(c)
	if err != nil {
		return err
	}
	actor := auth.ActorFromContext(c.Request().Context())
	m, err := h.svc.Validate(c.Request().Context(), actor, serviceID, year, month)
	switch {
	case errors.Is(err, report.ErrRoleNotAllowed):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, report.ErrTerminalStatus):
		return echo.NewHTTPError(http.StatusConflict, "month already validated")
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}
