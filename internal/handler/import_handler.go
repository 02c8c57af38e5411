package handler

import (
	"net/http"

	"importexport-hub/internal/middleware"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ImportHandler serves the import ledger
type ImportHandler struct {
	imports *service.ImportService
}

func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// CreateImport handles consuming stock of a product. A userId in the body is ignored.
func (h *ImportHandler) CreateImport(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.ImportInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return respondError(c, service.ErrInvalidInput, "Create import")
	}

	imp, err := h.imports.CreateImport(c.Request().Context(), req, middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Create import")
	}

	log.Info("Imported successfully",
		zap.String("import_id", imp.ID),
		zap.String("product_id", imp.ProductID),
		zap.Int("quantity", imp.Quantity))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Imported successfully",
		"data":    imp,
	})
}

// ListImports handles listing every import joined with its product
func (h *ImportHandler) ListImports(c echo.Context) error {
	views, err := h.imports.ListImports(c.Request().Context(), "")
	if err != nil {
		return respondError(c, err, "List imports")
	}
	return c.JSON(http.StatusOK, views)
}

// ListMyImports handles listing the caller's imports
func (h *ImportHandler) ListMyImports(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return respondError(c, service.ErrUnauthorized, "List my imports")
	}

	views, err := h.imports.ListImports(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "List my imports")
	}
	return c.JSON(http.StatusOK, views)
}

// DeleteImport handles reversing an import and restoring its stock
func (h *ImportHandler) DeleteImport(c echo.Context) error {
	id := c.Param("id")

	if err := h.imports.DeleteImport(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return respondError(c, err, "Delete import")
	}

	logger.FromContext(c).Info("Import reversed", zap.String("import_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Import removed and stock restored"})
}
