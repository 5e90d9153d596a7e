package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/har/har/internal/platform/auth"
)

// AuditEntry captures who touched which report surface, when, and how. Report
// validation decisions are traceable through these entries.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Resource   string
	ServiceID  string
	Action     string // read, create, update, delete, submit, validate, reject
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries. Decoupled from any concrete sink so
// tests can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns middleware that logs every /api/v1 access with the acting
// user, the report resource touched, and the workflow action performed.
// Without a recorder it falls back to structured zerolog logging only.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}

			ctx := req.Context()
			actor := auth.ActorFromContext(ctx)
			entry.UserID = actor.ID
			entry.UserRoles = actor.Roles

			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			entry.Action = actionFromRequest(req.Method, path)
			entry.Resource = resourceFromPath(path)
			entry.ServiceID = serviceFromRequest(c)

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "report_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("resource", entry.Resource).
				Str("service_id", entry.ServiceID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("report_access")

			return err
		}
	}
}

// actionFromRequest maps the HTTP method and path suffix to a workflow action.
func actionFromRequest(method, path string) string {
	switch {
	case strings.HasSuffix(path, "/validate"):
		return "validate"
	case strings.HasSuffix(path, "/reject"):
		return "reject"
	case strings.HasSuffix(path, "/submit"):
		return "submit"
	}
	switch method {
	case http.MethodGet:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return strings.ToLower(method)
	}
}

// resourceFromPath extracts the report resource from an /api/v1 path, e.g.
// "/api/v1/weekly-reports/42/validate" -> "weekly-reports".
func resourceFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	segments := strings.Split(trimmed, "/")
	for _, seg := range segments {
		switch seg {
		case "daily-reports", "weekly-reports", "monthly-reports", "services", "stats", "config":
			if seg == "services" && len(segments) > 2 {
				continue // nested resource follows, e.g. services/:id/daily-reports
			}
			return seg
		}
	}
	if len(segments) > 0 {
		return segments[0]
	}
	return ""
}

// serviceFromRequest pulls the service identifier from the route or query.
func serviceFromRequest(c echo.Context) string {
	if sid := c.Param("serviceId"); sid != "" {
		return sid
	}
	return c.QueryParam("service_id")
}
