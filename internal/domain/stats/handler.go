package stats

import (
	"fmt"
	"net/http"
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
	read := api.Group("", auth.RequireRole(report.RoleChief, report.RoleDirection))
	read.GET("/stats/overview", h.Overview)
	read.GET("/stats/overview/export", h.Export)
}

func (h *Handler) rangeParams(c echo.Context) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to, expected YYYY-MM-DD")
	}
	return from, to, nil
}

func (h *Handler) Overview(c echo.Context) error {
	from, to, err := h.rangeParams(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Overview(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Export(c echo.Context) error {
	from, to, err := h.rangeParams(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Overview(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	blob, err := ExportOverview(o)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filename := fmt.Sprintf("statistiques_%s_%s.xlsx",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", blob)
}
