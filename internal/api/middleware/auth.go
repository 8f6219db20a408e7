package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelfwise/library-system/internal/api/metrics"
	"github.com/shelfwise/library-system/internal/core/ports"
	"github.com/shelfwise/library-system/pkg/token"
)

// Auth validates the bearer access token and injects the caller's identity
// into the echo context. Expired tokens get their own 401 message so clients
// can tell "refresh now" apart from "re-authenticate".
//
// The token subject is re-read from the user store on every request: a token
// issued before an account deletion or role change is rejected even though its
// signature is still valid.
func Auth(codec *token.Codec, users ports.UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := codec.Decode(parts[1])
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
				}
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if claims.Kind != token.KindAccess {
				metrics.TokenValidationsTotal.WithLabelValues("wrong_kind").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil || string(user.Role) != claims.Role {
				metrics.TokenValidationsTotal.WithLabelValues("stale").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
			c.Set("username", claims.Subject)
			c.Set("role", claims.Role)
			c.Set("user_id", user.ID)

			return next(c)
		}
	}
}
