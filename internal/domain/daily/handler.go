package daily

import (
	"errors"
	"net/http"
	"time"

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
	read.GET("/daily-reports", h.List)
	read.GET("/daily-reports/:serviceId/:date", h.Get)

	write := api.Group("", auth.RequireRole(report.RoleAgent, report.RoleChief))
	write.PUT("/daily-reports", h.Save)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (h *Handler) Save(c echo.Context) error {
	var d DailyReport
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.ActorFromContext(c.Request().Context())
	if !actor.HasRole(report.RoleAdmin) && actor.ServiceID != "" && actor.ServiceID != d.ServiceID {
		return echo.NewHTTPError(http.StatusForbidden, "capture restricted to own service")
	}
	d.AgentID = actor.ID
	d.AgentName = actor.DisplayName()

	if err := h.svc.Save(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Get(c echo.Context) error {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	var dateEnd *time.Time
	if s := c.QueryParam("date_end"); s != "" {
		end, err := parseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_end, expected YYYY-MM-DD")
		}
		dateEnd = &end
	}

	d, err := h.svc.Get(c.Request().Context(), c.Param("serviceId"), date, dateEnd)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "daily report not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from, expected YYYY-MM-DD")
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to, expected YYYY-MM-DD")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRange(c.Request().Context(),
		c.QueryParam("service_id"), from, to, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
