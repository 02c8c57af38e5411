package handler

import (
	"context"
	"net/http"
	"time"

	"importexport-hub/internal/repository"
	"importexport-hub/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// HealthHandler reports liveness and, on request, store reachability
type HealthHandler struct {
	store repository.Store
}

func NewHealthHandler(store repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Root answers the API banner
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Import Export Hub API is running!"})
}

// Health returns ok; with ?check=db it also pings the store
func (h *HealthHandler) Health(c echo.Context) error {
	if c.QueryParam("check") != "db" {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logger.FromContext(c).Error("Store health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "unavailable",
			"error":  "store unreachable",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "store": "ok"})
}
