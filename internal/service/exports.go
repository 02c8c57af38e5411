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

// ExportService publishes products on behalf of users. Every export owns
// exactly one product and deleting the export deletes that product.
type ExportService struct {
	store   repository.Store
	catalog *CatalogService
	events  events.Publisher
	log     *zap.Logger
}

func NewExportService(store repository.Store, catalog *CatalogService, pub events.Publisher, log *zap.Logger) *ExportService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &ExportService{store: store, catalog: catalog, events: pub, log: log}
}

// CreateExport creates a product and the export that owns it
func (s *ExportService) CreateExport(ctx context.Context, in ProductInput, userID string) (*model.ExportView, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	p, err := in.toProduct(defaultExportRating, true)
	if err != nil {
		return nil, err
	}
	p.AddedBy = userID
	e := &model.Export{UserID: userID}

	start := time.Now()
	err = s.store.CreateExport(ctx, p, e)
	prometheus.TrackDBOperation("insert")(start)
	if err != nil {
		return nil, err
	}

	s.catalog.observeStock(ctx, p)
	prometheus.RecordOperation("export", "create")
	view := model.NewExportView(*e, *p)
	publish(ctx, s.events, s.log, events.New(events.ExportCreated, e.ID, userID, view))
	return &view, nil
}

// ListExports returns the caller's exports joined with their products, newest first
func (s *ExportService) ListExports(ctx context.Context, userID string) ([]model.ExportView, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	defer prometheus.TrackDBOperation("query")(time.Now())

	exports, err := s.store.Exports().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(exports))
	for _, e := range exports {
		ids = append(ids, e.ProductID)
	}
	products, err := s.store.Products().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.ExportView, 0, len(exports))
	for _, e := range exports {
		p, ok := products[e.ProductID]
		if !ok {
			continue
		}
		views = append(views, model.NewExportView(e, p))
	}
	return views, nil
}

// owned fetches the export and checks it belongs to userID
func (s *ExportService) owned(ctx context.Context, id, userID string) (*model.Export, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	e, err := s.store.Exports().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrForbidden
	}
	return e, nil
}

// UpdateExport overwrites the exported product's fields that are provided
// and non-zero, keeping the previous value otherwise.
func (s *ExportService) UpdateExport(ctx context.Context, id string, patch ProductPatch, userID string) (*model.ExportView, error) {
	e, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Products().Get(ctx, e.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	oldName := p.Name
	changes, err := patch.applyTo(p, true)
	if err != nil {
		return nil, err
	}
	changes.AddedBy = &userID

	start := time.Now()
	p, err = s.store.Products().Update(ctx, e.ProductID, changes)
	if err == nil {
		e.UpdatedAt = time.Now().UTC()
		err = s.store.Exports().Touch(ctx, e.ID, e.UpdatedAt)
	}
	prometheus.TrackDBOperation("update")(start)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if oldName != p.Name {
		prometheus.ForgetProduct(p.ID, oldName)
	}
	s.catalog.observeStock(ctx, p)
	prometheus.RecordOperation("export", "update")
	view := model.NewExportView(*e, *p)
	publish(ctx, s.events, s.log, events.New(events.ExportUpdated, e.ID, userID, view))
	return &view, nil
}

// DeleteExport deletes the export and cascades to its product
func (s *ExportService) DeleteExport(ctx context.Context, id, userID string) error {
	e, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}

	p, err := s.store.Products().Get(ctx, e.ProductID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	start := time.Now()
	err = s.store.DeleteExport(ctx, e)
	prometheus.TrackDBOperation("delete")(start)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExportNotFound
	}
	if err != nil {
		return err
	}

	s.catalog.Invalidate(ctx)
	if p != nil {
		prometheus.ForgetProduct(p.ID, p.Name)
	}
	prometheus.RecordOperation("export", "delete")
	publish(ctx, s.events, s.log, events.New(events.ExportDeleted, e.ID, userID, e))
	return nil
}
