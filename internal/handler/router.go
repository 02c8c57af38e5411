package handler

import (
	"importexport-hub/internal/middleware"
	"importexport-hub/internal/repository"
	"importexport-hub/internal/service"
	"importexport-hub/pkg/jwtutil"
	"importexport-hub/pkg/logger"
	"importexport-hub/prometheus"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Services groups what the HTTP layer serves
type Services struct {
	Store       repository.Store
	Catalog     *service.CatalogService
	Imports     *service.ImportService
	Exports     *service.ExportService
	Maintenance *service.MaintenanceService
}

// RouterOptions configures middleware and optional routes
type RouterOptions struct {
	AuthMode           string
	JWT                *jwtutil.JWTUtil
	MaintenanceEnabled bool
	Logger             *zap.Logger
}

// NewRouter builds the echo instance with every route registered
func NewRouter(svc Services, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	// Middleware
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(middleware.MetricsMiddleware)
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	health := NewHealthHandler(svc.Store)
	e.GET("/", health.Root)
	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))

	identity := middleware.IdentityMiddleware(opts.AuthMode, opts.JWT)

	products := NewProductHandler(svc.Catalog)
	productAPI := e.Group("/api/products")
	productAPI.GET("", products.ListProducts)
	productAPI.GET("/latest", products.LatestProducts)
	productAPI.GET("/:id", products.GetProduct)
	productAPI.POST("", products.CreateProduct, identity)
	productAPI.PUT("/:id", products.UpdateProduct, identity)
	productAPI.DELETE("/:id", products.DeleteProduct, identity)

	imports := NewImportHandler(svc.Imports)
	importAPI := e.Group("/api/imports", identity)
	importAPI.POST("", imports.CreateImport)
	importAPI.GET("", imports.ListImports)
	importAPI.GET("/my", imports.ListMyImports)
	importAPI.DELETE("/:id", imports.DeleteImport)
	// Registered even when disabled so the path answers 404 rather than 405
	cleanup := func(c echo.Context) error { return echo.ErrNotFound }
	if opts.MaintenanceEnabled && svc.Maintenance != nil {
		cleanup = NewMaintenanceHandler(svc.Maintenance).Cleanup
	}
	importAPI.POST("/cleanup", cleanup)

	exports := NewExportHandler(svc.Exports)
	exportAPI := e.Group("/api/exports", identity)
	exportAPI.POST("", exports.CreateExport)
	exportAPI.GET("", exports.ListExports)
	exportAPI.GET("/my", exports.ListExports)
	exportAPI.PUT("/:id", exports.UpdateExport)
	exportAPI.DELETE("/:id", exports.DeleteExport)

	return e
}
