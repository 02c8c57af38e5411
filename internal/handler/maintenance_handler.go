package handler

import (
	"net/http"

	"importexport-hub/internal/middleware"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MaintenanceHandler exposes operational resets
type MaintenanceHandler struct {
	maintenance *service.MaintenanceService
}

func NewMaintenanceHandler(maintenance *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

// Cleanup reseeds products, purges broken imports and records a sample import
func (h *MaintenanceHandler) Cleanup(c echo.Context) error {
	log := logger.FromContext(c)
	log.Warn("Maintenance cleanup requested")

	result, err := h.maintenance.Cleanup(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Maintenance cleanup")
	}

	log.Info("Maintenance cleanup finished",
		zap.Int("products_seeded", result.ProductsSeeded),
		zap.Int64("imports_purged", result.ImportsPurged))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Cleanup completed",
		"result":  result,
	})
}
