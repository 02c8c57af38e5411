package handler

import (
	"net/http"

	"importexport-hub/internal/middleware"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ExportHandler serves the export ledger
type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CreateExport handles publishing a new product owned by the caller
func (h *ExportHandler) CreateExport(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return respondError(c, service.ErrInvalidInput, "Create export")
	}

	view, err := h.exports.CreateExport(c.Request().Context(), req, middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Create export")
	}

	log.Info("Product added successfully",
		zap.String("export_id", view.ID),
		zap.String("product_id", view.Product.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product added successfully",
		"product": view.Product,
		"export":  view,
	})
}

// ListExports handles listing the caller's exports newest first
func (h *ExportHandler) ListExports(c echo.Context) error {
	views, err := h.exports.ListExports(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "List exports")
	}
	return c.JSON(http.StatusOK, views)
}

// UpdateExport handles updating the product behind an export
func (h *ExportHandler) UpdateExport(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req service.ProductPatch
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.String("export_id", id), zap.Error(err))
		return respondError(c, service.ErrInvalidInput, "Update export")
	}

	view, err := h.exports.UpdateExport(c.Request().Context(), id, req, middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Update export")
	}

	log.Info("Export updated", zap.String("export_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"export":  view,
	})
}

// DeleteExport handles deleting an export together with its product
func (h *ExportHandler) DeleteExport(c echo.Context) error {
	id := c.Param("id")

	if err := h.exports.DeleteExport(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return respondError(c, err, "Delete export")
	}

	logger.FromContext(c).Info("Export deleted", zap.String("export_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
