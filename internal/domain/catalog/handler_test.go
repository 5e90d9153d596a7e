package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/har/har/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestCatalog()), echo.New()
}

func asActor(c echo.Context, roles []string, serviceID string) {
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, auth.UserIDKey, "u1")
	ctx = context.WithValue(ctx, auth.UserNameKey, "Testeur")
	ctx = context.WithValue(ctx, auth.UserRolesKey, roles)
	ctx = context.WithValue(ctx, auth.UserServiceKey, serviceID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestHandler_ListServices(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ListServices(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetService_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("inconnu")
	if err := h.GetService(c); err == nil {
		t.Error("expected error")
	}
}

func TestHandler_GetConfig(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("medecine")
	if err := h.GetConfig(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var cfg ServiceConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.ServiceID != "medecine" {
		t.Errorf("unexpected service id %q", cfg.ServiceID)
	}
}

func TestHandler_SaveConfig_OwnService(t *testing.T) {
	h, e := newTestHandler()
	body := `{"sections":{"mouvements":true,"consultations":true,"actes":true,"observations":true},"custom_fields":[{"label":"Gardes","type":"number","visible":true}]}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("medecine")
	asActor(c, []string{"chef_service"}, "medecine")
	if err := h.SaveConfig(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_SaveConfig_OtherServiceForbidden(t *testing.T) {
	h, e := newTestHandler()
	body := `{"sections":{"mouvements":true}}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("medecine")
	asActor(c, []string{"chef_service"}, "pediatrie")
	err := h.SaveConfig(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_SaveConfig_BadFieldType(t *testing.T) {
	h, e := newTestHandler()
	body := `{"custom_fields":[{"label":"Date de garde","type":"date"}]}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("medecine")
	asActor(c, []string{"admin"}, "")
	err := h.SaveConfig(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
