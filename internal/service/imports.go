package service

import (
	"context"
	"errors"
	"time"

	"importexport-hub/internal/model"
	"importexport-hub/internal/repository"
	"importexport-hub/pkg/events"
	"importexport-hub/prometheus"

	"go.uber.org/zap"
)

// ImportService records stock consumption and its reversal
type ImportService struct {
	store   repository.Store
	catalog *CatalogService
	events  events.Publisher
	log     *zap.Logger
}

func NewImportService(store repository.Store, catalog *CatalogService, pub events.Publisher, log *zap.Logger) *ImportService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &ImportService{store: store, catalog: catalog, events: pub, log: log}
}

// CreateImport consumes in.Quantity units of the product on behalf of userID.
// The stock check and decrement happen in one store operation.
func (s *ImportService) CreateImport(ctx context.Context, in ImportInput, userID string) (*model.Import, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	imp := &model.Import{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UserID:    userID,
	}

	start := time.Now()
	p, err := s.store.RecordImport(ctx, imp)
	prometheus.TrackDBOperation("update")(start)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrProductNotFound
	case errors.Is(err, repository.ErrInsufficientStock):
		prometheus.RecordStockRejection()
		return nil, ErrInsufficientStock
	case err != nil:
		return nil, err
	}

	s.catalog.observeStock(ctx, p)
	prometheus.RecordOperation("import", "create")
	publish(ctx, s.events, s.log, events.New(events.ImportCreated, imp.ID, userID, imp))
	return imp, nil
}

// ListImports returns the caller's imports joined with their products,
// newest first. An empty userID lists every import.
func (s *ImportService) ListImports(ctx context.Context, userID string) ([]model.ImportView, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var (
		imports []model.Import
		err     error
	)
	if userID == "" {
		imports, err = s.store.Imports().ListAll(ctx)
	} else {
		imports, err = s.store.Imports().ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(imports))
	for _, imp := range imports {
		ids = append(ids, imp.ProductID)
	}
	products, err := s.store.Products().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.ImportView, 0, len(imports))
	for _, imp := range imports {
		p, ok := products[imp.ProductID]
		if !ok {
			// the product was deleted after the import; skip the orphan
			continue
		}
		views = append(views, model.NewImportView(imp, p))
	}
	return views, nil
}

// DeleteImport reverses an import owned by userID and restores its stock.
// A second reversal of the same import reports ErrImportNotFound.
func (s *ImportService) DeleteImport(ctx context.Context, id, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}

	imp, err := s.store.Imports().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImportNotFound
	}
	if err != nil {
		return err
	}
	if imp.UserID != "" && imp.UserID != userID {
		return ErrForbidden
	}

	start := time.Now()
	reversed, p, err := s.store.ReverseImport(ctx, id)
	prometheus.TrackDBOperation("update")(start)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImportNotFound
	}
	if err != nil {
		return err
	}
	if p == nil {
		s.log.Warn("Reversed import of a deleted product; no stock restored",
			zap.String("import_id", id),
			zap.String("product_id", reversed.ProductID))
	}

	s.catalog.observeStock(ctx, p)
	prometheus.RecordOperation("import", "reverse")
	publish(ctx, s.events, s.log, events.New(events.ImportReversed, reversed.ID, userID, reversed))
	return nil
}
