package handler

import (
	"net/http"
	"strconv"

	"importexport-hub/internal/middleware"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts handles retrieving products newest first, optionally limited
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Warn("Invalid limit parameter", zap.String("value", raw))
			return respondError(c, service.ErrInvalidInput, "List products")
		}
		limit = n
	}

	products, err := h.catalog.ListProducts(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err, "List products")
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// LatestProducts handles retrieving the newest products
func (h *ProductHandler) LatestProducts(c echo.Context) error {
	products, err := h.catalog.LatestProducts(c.Request().Context())
	if err != nil {
		return respondError(c, err, "List latest products")
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id := c.Param("id")

	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Get product")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return respondError(c, service.ErrInvalidInput, "Create product")
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), req, middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Create product")
	}

	log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles a partial update of an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req service.ProductPatch
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return respondError(c, service.ErrInvalidInput, "Update product")
	}

	product, err := h.catalog.UpdateProduct(c.Request().Context(), id, req, middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Update product")
	}

	log.Info("Product updated successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")

	if err := h.catalog.DeleteProduct(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return respondError(c, err, "Delete product")
	}

	logger.FromContext(c).Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
