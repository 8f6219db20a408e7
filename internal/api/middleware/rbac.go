package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// RBAC enforces role-based access control. An empty role list means any
// authenticated caller passes; the middleware is only meaningful behind Auth,
// which is what puts the role into the context.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[domain.Role(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "not authorized")
			}
			return next(c)
		}
	}
}
