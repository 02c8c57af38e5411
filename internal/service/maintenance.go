package service

import (
	"context"
	"errors"
	"fmt"

	"importexport-hub/internal/model"
	"importexport-hub/internal/repository"
	"importexport-hub/internal/seed"
	"importexport-hub/prometheus"

	"go.uber.org/zap"
)

// CleanupResult summarises a maintenance reset
type CleanupResult struct {
	ProductsSeeded int           `json:"productsSeeded"`
	ImportsPurged  int64         `json:"importsPurged"`
	SampleImport   *model.Import `json:"sampleImport,omitempty"`
}

// MaintenanceService performs destructive operational resets
type MaintenanceService struct {
	store   repository.Store
	catalog *CatalogService
	imports *ImportService
	fixture func() ([]model.Product, error)
	log     *zap.Logger
}

func NewMaintenanceService(store repository.Store, catalog *CatalogService, imports *ImportService, log *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		store:   store,
		catalog: catalog,
		imports: imports,
		fixture: seed.Products,
		log:     log,
	}
}

// Reseed replaces every product with the bundled fixture
func (s *MaintenanceService) Reseed(ctx context.Context) ([]model.Product, error) {
	products, err := s.fixture()
	if err != nil {
		return nil, err
	}
	if err := s.store.Products().Replace(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to replace products: %w", err)
	}
	s.catalog.Invalidate(ctx)
	for _, p := range products {
		prometheus.UpdateProductAvailable(p.ID, p.Name, float64(p.AvailableQuantity))
	}
	s.log.Info("Products seeded", zap.Int("count", len(products)))
	return products, nil
}

// Cleanup reseeds products, purges imports that are incomplete or point at
// a missing product, then records one sample import for userID.
func (s *MaintenanceService) Cleanup(ctx context.Context, userID string) (*CleanupResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	products, err := s.Reseed(ctx)
	if err != nil {
		return nil, err
	}
	result := &CleanupResult{ProductsSeeded: len(products)}

	purged, err := s.purgeImports(ctx)
	if err != nil {
		return nil, err
	}
	result.ImportsPurged = purged

	if len(products) > 0 {
		imp, err := s.imports.CreateImport(ctx, ImportInput{ProductID: products[0].ID, Quantity: 1}, userID)
		if err != nil && !errors.Is(err, ErrInsufficientStock) {
			return nil, fmt.Errorf("failed to create sample import: %w", err)
		}
		result.SampleImport = imp
	}

	s.log.Info("Maintenance cleanup completed",
		zap.Int("products_seeded", result.ProductsSeeded),
		zap.Int64("imports_purged", result.ImportsPurged),
		zap.Bool("sample_import", result.SampleImport != nil))
	return result, nil
}

func (s *MaintenanceService) purgeImports(ctx context.Context) (int64, error) {
	imports, err := s.store.Imports().ListAll(ctx)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(imports))
	for _, imp := range imports {
		ids = append(ids, imp.ProductID)
	}
	products, err := s.store.Products().GetMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	var doomed []string
	for _, imp := range imports {
		if _, ok := products[imp.ProductID]; imp.UserID == "" || imp.ProductID == "" || !ok {
			doomed = append(doomed, imp.ID)
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}
	return s.store.Imports().DeleteMany(ctx, doomed)
}
