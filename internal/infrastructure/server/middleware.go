package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/rrrconstruction/portfolio/internal/adapters/http"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// sessionMiddleware parses the session cookie once per request and attaches
// the resulting *ports.AdminSession to the context
func (s *Server) sessionMiddleware(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := &ports.AdminSession{}

			cookie, err := c.Cookie(s.config.Session.CookieName)
			if err == nil && cookie.Value != "" {
				parsed, err := authService.ParseSession(cookie.Value)
				if err != nil {
					s.logger.LogSecurityEvent("invalid_session", "", c.RealIP(), map[string]interface{}{
						"error": err.Error(),
					})
				} else {
					session = parsed
				}
			}

			c.Set(httpHandlers.SessionContextKey, session)
			return next(c)
		}
	}
}

// requireAdmin rejects API and mutation requests without an admin session
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !httpHandlers.IsAuthenticated(c) {
			s.logger.LogSecurityEvent("unauthorized_access", "", c.RealIP(), map[string]interface{}{
				"endpoint": c.Request().URL.Path,
			})
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return next(c)
	}
}

// requireAdminPage sends unauthenticated page visits to the login form
func (s *Server) requireAdminPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !httpHandlers.IsAuthenticated(c) {
			return c.Redirect(http.StatusFound, "/admin/login")
		}
		return next(c)
	}
}
