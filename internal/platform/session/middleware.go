package session

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Skipper reports whether a request bypasses the gate. Health, metrics and
// the login endpoint itself are always reachable.
func Skipper(c echo.Context) bool {
	path := c.Request().URL.Path
	switch path {
	case "/healthz", "/metrics":
		return true
	}
	return strings.HasSuffix(path, "/login")
}

// Middleware rejects requests unless a valid bearer token is presented and
// the persisted login flag is set. Clearing the flag (logout, or wiping the
// store) invalidates every outstanding token at once.
func Middleware(gate *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}
			if err := gate.VerifyToken(parts[1]); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			loggedIn, err := gate.IsLoggedIn(c.Request().Context())
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session check failed")
			}
			if !loggedIn {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			return next(c)
		}
	}
}

// DevMiddleware grants access to every request. Development only.
func DevMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(c)
		}
	}
}
