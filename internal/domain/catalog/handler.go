package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/har/har/internal/platform/auth"
	"github.com/har/har/internal/platform/report"
)

type Handler struct {
	svc *CatalogService
}

func NewHandler(svc *CatalogService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(report.RoleAgent, report.RoleChief, report.RoleDirection))
	read.GET("/services", h.ListServices)
	read.GET("/services/:id", h.GetService)
	read.GET("/services/:id/config", h.GetConfig)

	write := api.Group("", auth.RequireRole(report.RoleChief))
	write.PUT("/services/:id/config", h.SaveConfig)
}

func (h *Handler) ListServices(c echo.Context) error {
	items, err := h.svc.ListServices(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetService(c echo.Context) error {
	svc, err := h.svc.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	return c.JSON(http.StatusOK, svc)
}

func (h *Handler) GetConfig(c echo.Context) error {
	cfg, err := h.svc.GetConfig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SaveConfig(c echo.Context) error {
	var cfg ServiceConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cfg.ServiceID = c.Param("id")

	// A chef de service may only configure their own service.
	actor := auth.ActorFromContext(c.Request().Context())
	if actor.HasRole(report.RoleChief) && !actor.HasRole(report.RoleAdmin) &&
		actor.ServiceID != cfg.ServiceID {
		return echo.NewHTTPError(http.StatusForbidden, "config restricted to own service")
	}

	if err := h.svc.SaveConfig(c.Request().Context(), &cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}
