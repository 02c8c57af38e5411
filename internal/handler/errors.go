package handler

import (
	"errors"
	"net/http"

	"importexport-hub/internal/service"
	"importexport-hub/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidInput, http.StatusBadRequest, "Invalid data"},
	{service.ErrInsufficientStock, http.StatusBadRequest, "Not enough stock"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrForbidden, http.StatusForbidden, "You don't have permission to modify this record"},
	{service.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{service.ErrImportNotFound, http.StatusNotFound, "Import not found"},
	{service.ErrExportNotFound, http.StatusNotFound, "Export not found"},
}

// respondError maps a service error to its HTTP status and JSON body
func respondError(c echo.Context, err error, action string) error {
	log := logger.FromContext(c)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		log.Warn(action+": validation failed", zap.Any("fields", verr.Fields))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			log.Warn(action+": request rejected",
				zap.Int("status", m.status),
				zap.Error(err))
			return c.JSON(m.status, echo.Map{"error": m.message})
		}
	}

	log.Error(action+": unexpected failure", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
}

// HTTPErrorHandler is the last-resort handler for errors no handler mapped
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := echo.Map{"message": "Something went wrong!"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if status < http.StatusInternalServerError {
			body = echo.Map{"message": http.StatusText(status)}
			if msg, ok := he.Message.(string); ok && msg != "" {
				body["message"] = msg
			}
		}
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c).Error("Unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(err))
	}
}
