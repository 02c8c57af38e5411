package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// ContextKey is where the request-scoped logger lives in echo.Context
	ContextKey = "logger"
	// UserIDKey is where the resolved caller identity lives in echo.Context
	UserIDKey = "user_id"
)

// FromContext retrieves the logger from echo.Context with the request ID
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(ContextKey).(*zap.Logger); ok {
		return logger
	}

	requestID := c.Request().Header.Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = c.Response().Header().Get(echo.HeaderXRequestID)
	}
	if requestID == "" {
		requestID = "unknown"
	}

	return GetLogger().With(zap.String("request_id", requestID))
}
