package monthly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/har/har/internal/domain/daily"
	"github.com/har/har/internal/platform/auth"
	"github.com/har/har/internal/platform/report"
)

func newTestHandler() (*Handler, *echo.Echo, *mockDailyRepo) {
	svc, _, dailies := newTestService()
	return NewHandler(svc), echo.New(), dailies
}

func withActor(c echo.Context, a auth.Actor) {
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, auth.UserIDKey, a.ID)
	ctx = context.WithValue(ctx, auth.UserNameKey, a.Name)
	ctx = context.WithValue(ctx, auth.UserRolesKey, a.Roles)
	ctx = context.WithValue(ctx, auth.UserServiceKey, a.ServiceID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestHandler_Get(t *testing.T) {
	h, e, dailies := newTestHandler()
	dailies.put(&daily.DailyReport{ServiceID: "medecine", Date: date("2026-03-01"),
		Data: report.Data{Consultations: map[string]int{"generale": 4}}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("serviceId", "year", "month")
	c.SetParamValues("medecine", "2026", "3")
	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var m MonthlyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Month != time.March || m.DailyReportsCount != 1 {
		t.Errorf("unexpected report: %+v", m)
	}
}

func TestHandler_Get_BadMonth(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("serviceId", "year", "month")
	c.SetParamValues("medecine", "2026", "13")
	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Validate(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("serviceId", "year", "month")
	c.SetParamValues("medecine", "2026", "3")
	withActor(c, chef)
	if err := h.Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Validate_TwiceConflict(t *testing.T) {
	h, e, _ := newTestHandler()
	if _, err := h.svc.Validate(context.Background(), chef, "medecine", 2026, time.March); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("serviceId", "year", "month")
	c.SetParamValues("medecine", "2026", "3")
	withActor(c, chef)
	err := h.Validate(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}
