package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Actor is the authenticated user acting on a report. ServiceID is set for
// chef_service users and scopes them to their own service.
type Actor struct {
	ID        string
	Name      string
	Roles     []string
	ServiceID string
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DisplayName returns the actor's name, falling back to their id.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// ActorFromContext assembles the acting user from the request context.
func ActorFromContext(ctx context.Context) Actor {
	name, _ := ctx.Value(UserNameKey).(string)
	sid, _ := ctx.Value(UserServiceKey).(string)
	return Actor{
		ID:        UserIDFromContext(ctx),
		Name:      name,
		Roles:     RolesFromContext(ctx),
		ServiceID: sid,
	}
}

// RequireRole returns middleware that checks if the user has at least one of
// the specified roles. Admin passes everywhere.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
