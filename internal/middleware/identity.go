package middleware

import (
	"net/http"
	"strings"

	"importexport-hub/pkg/config"
	"importexport-hub/pkg/jwtutil"
	"importexport-hub/pkg/logger"
	"importexport-hub/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeaderUserID carries the caller identity when a trusted gateway authenticates requests
const HeaderUserID = "X-User-ID"

// IdentityMiddleware resolves the caller for protected routes. In jwt mode it
// verifies a Bearer token; in header mode it trusts X-User-ID.
func IdentityMiddleware(mode string, jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			var userID string
			if mode == config.AuthModeHeader {
				userID = strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
				if userID == "" {
					prometheus.RecordAuthAttempt(false)
					log.Warn("Missing user identity header")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing " + HeaderUserID + " header"})
				}
			} else {
				authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
				if authHeader == "" {
					prometheus.RecordAuthAttempt(false)
					log.Warn("Missing Authorization header")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
				}

				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					prometheus.RecordAuthAttempt(false)
					log.Warn("Invalid Authorization header format")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
				}

				claims, err := jwtUtil.ValidateToken(parts[1])
				if err != nil {
					prometheus.RecordAuthAttempt(false)
					log.Warn("Invalid JWT token", zap.Error(err))
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
				}
				userID = claims.Identity()
			}

			prometheus.RecordAuthAttempt(true)
			c.Set(logger.UserIDKey, userID)
			c.Set(logger.ContextKey, log.With(zap.String("user_id", userID)))

			return next(c)
		}
	}
}

// UserID returns the identity resolved by IdentityMiddleware, or ""
func UserID(c echo.Context) string {
	userID, _ := c.Get(logger.UserIDKey).(string)
	return userID
}
