package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"importexport-hub/internal/model"
	"importexport-hub/internal/repository"
	"importexport-hub/pkg/cache"
	"importexport-hub/prometheus"

	"go.uber.org/zap"
)

const (
	// LatestLimit is how many products the latest listing returns
	LatestLimit = 6

	productCachePrefix = "products:"
)

// CatalogService manages products and the cached product listings
type CatalogService struct {
	store repository.Store
	cache cache.Cache
	loads cache.Loader
	log   *zap.Logger
}

func NewCatalogService(store repository.Store, c cache.Cache, log *zap.Logger) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{store: store, cache: c, log: log}
}

// ListProducts returns products newest first; limit <= 0 returns all of them
func (s *CatalogService) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 0 {
		limit = 0
	}
	key := fmt.Sprintf("%slist:%d", productCachePrefix, limit)

	products, hit, err := cache.Fetch(ctx, s.cache, &s.loads, key, func(ctx context.Context) ([]model.Product, error) {
		defer prometheus.TrackDBOperation("query")(time.Now())
		return s.store.Products().List(ctx, limit)
	})
	prometheus.RecordCacheLookup(hit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *CatalogService) LatestProducts(ctx context.Context) ([]model.Product, error) {
	return s.ListProducts(ctx, LatestLimit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	p, err := s.store.Products().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// CreateProduct validates in and stores a new product attributed to userID
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, userID string) (*model.Product, error) {
	p, err := in.toProduct(defaultCatalogRating, false)
	if err != nil {
		return nil, err
	}
	p.AddedBy = userID

	start := time.Now()
	err = s.store.Products().Create(ctx, p)
	prometheus.TrackDBOperation("insert")(start)
	if err != nil {
		return nil, err
	}

	s.Invalidate(ctx)
	prometheus.RecordOperation("product", "create")
	prometheus.UpdateProductAvailable(p.ID, p.Name, float64(p.AvailableQuantity))
	return p, nil
}

// editable fetches the product and checks userID may modify it. Products
// without an owner, such as the seeded catalog, are open to any caller.
func (s *CatalogService) editable(ctx context.Context, id, userID string) (*model.Product, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AddedBy != "" && p.AddedBy != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

// UpdateProduct applies the provided fields and revalidates the result
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch ProductPatch, userID string) (*model.Product, error) {
	p, err := s.editable(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	oldName := p.Name
	changes, err := patch.applyTo(p, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p, err = s.store.Products().Update(ctx, id, changes)
	prometheus.TrackDBOperation("update")(start)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	s.Invalidate(ctx)
	prometheus.RecordOperation("product", "update")
	if oldName != p.Name {
		prometheus.ForgetProduct(p.ID, oldName)
	}
	prometheus.UpdateProductAvailable(p.ID, p.Name, float64(p.AvailableQuantity))
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id, userID string) error {
	p, err := s.editable(ctx, id, userID)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.store.Products().Delete(ctx, id)
	prometheus.TrackDBOperation("delete")(start)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	s.Invalidate(ctx)
	prometheus.RecordOperation("product", "delete")
	prometheus.ForgetProduct(p.ID, p.Name)
	return nil
}

// Invalidate drops every cached product listing
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.loads.Invalidate()
	if err := s.cache.DeletePrefix(ctx, productCachePrefix); err != nil {
		s.log.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

// observeStock refreshes the inventory gauge after a stock mutation
func (s *CatalogService) observeStock(ctx context.Context, p *model.Product) {
	s.Invalidate(ctx)
	if p != nil {
		prometheus.UpdateProductAvailable(p.ID, p.Name, float64(p.AvailableQuantity))
	}
}
