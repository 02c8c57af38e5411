package service

import (
	"context"
	"errors"
	"testing"

	"importexport-hub/internal/model"
	"importexport-hub/internal/repository"
	"importexport-hub/pkg/cache"
	"importexport-hub/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServices struct {
	store       *repository.MemoryStore
	events      *events.Recorder
	catalog     *CatalogService
	imports     *ImportService
	exports     *ExportService
	maintenance *MaintenanceService
}

func newTestServices() *testServices {
	store := repository.NewMemoryStore()
	rec := &events.Recorder{}
	log := zap.NewNop()
	catalog := NewCatalogService(store, cache.Noop{}, log)
	imports := NewImportService(store, catalog, rec, log)
	return &testServices{
		store:       store,
		events:      rec,
		catalog:     catalog,
		imports:     imports,
		exports:     NewExportService(store, catalog, rec, log),
		maintenance: NewMaintenanceService(store, catalog, imports, log),
	}
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func validInput() ProductInput {
	return ProductInput{
		Name:              "Green Tea",
		Image:             "https://example.com/tea.png",
		Price:             f64(10),
		OriginCountry:     "Japan",
		Rating:            f64(4),
		AvailableQuantity: f64(5),
	}
}

func (ts *testServices) seedProduct(t *testing.T, qty float64) *model.Product {
	t.Helper()
	in := validInput()
	in.AvailableQuantity = f64(qty)
	p, err := ts.catalog.CreateProduct(context.Background(), in, "seed")
	require.NoError(t, err)
	return p
}

func (ts *testServices) available(t *testing.T, id string) int {
	t.Helper()
	p, err := ts.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.AvailableQuantity
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

// ==================== Catalog ====================

func TestCatalog_CreateProduct(t *testing.T) {
	ts := newTestServices()

	p, err := ts.catalog.CreateProduct(context.Background(), validInput(), "u1")

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Japan", p.OriginCountry)
	assert.Equal(t, 5, p.AvailableQuantity)
	assert.Equal(t, "u1", p.AddedBy)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCatalog_CreateProduct_CountryAliasAndDefaults(t *testing.T) {
	ts := newTestServices()
	in := ProductInput{Name: "Rice", Image: "https://example.com/rice.png", Price: f64(0), Country: "Thailand"}

	p, err := ts.catalog.CreateProduct(context.Background(), in, "")

	require.NoError(t, err)
	assert.Equal(t, "Thailand", p.OriginCountry)
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.AvailableQuantity)
}

func TestCatalog_CreateProduct_ValidationListsEveryField(t *testing.T) {
	ts := newTestServices()
	in := ProductInput{
		Image:             "not a url",
		Price:             f64(-1),
		Rating:            f64(6),
		AvailableQuantity: f64(-2),
	}

	_, err := ts.catalog.CreateProduct(context.Background(), in, "")

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "image")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "originCountry")
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields, "availableQuantity")
}

func TestCatalog_CreateProduct_RejectsFractionalQuantity(t *testing.T) {
	ts := newTestServices()
	in := validInput()
	in.AvailableQuantity = f64(2.5)

	_, err := ts.catalog.CreateProduct(context.Background(), in, "")

	assert.Equal(t, "availableQuantity must be an integer", fieldsOf(t, err)["availableQuantity"])
}

func TestCatalog_CreateProduct_MissingPrice(t *testing.T) {
	ts := newTestServices()
	in := validInput()
	in.Price = nil

	_, err := ts.catalog.CreateProduct(context.Background(), in, "")

	assert.Equal(t, "price is required", fieldsOf(t, err)["price"])
}

func TestCatalog_ListProducts_NewestFirstWithLimit(t *testing.T) {
	ts := newTestServices()
	var ids []string
	for i := 0; i < 8; i++ {
		ids = append(ids, ts.seedProduct(t, 1).ID)
	}

	all, err := ts.catalog.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 8)
	assert.Equal(t, ids[7], all[0].ID)
	assert.Equal(t, ids[0], all[7].ID)

	latest, err := ts.catalog.LatestProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, latest, LatestLimit)
	assert.Equal(t, ids[7], latest[0].ID)
}

func TestCatalog_ListProducts_EmptyIsNotNil(t *testing.T) {
	ts := newTestServices()

	products, err := ts.catalog.ListProducts(context.Background(), 0)

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCatalog_GetProduct_NotFound(t *testing.T) {
	ts := newTestServices()

	_, err := ts.catalog.GetProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_UpdateProduct_PartialFields(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)

	updated, err := ts.catalog.UpdateProduct(context.Background(), p.ID, ProductPatch{
		Price:  f64(0),
		Rating: f64(0),
	}, "seed")

	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Price)
	assert.Equal(t, 0.0, updated.Rating)
	assert.Equal(t, "Green Tea", updated.Name)
	assert.Equal(t, 5, updated.AvailableQuantity)
}

func TestCatalog_UpdateProduct_RevalidatesAndKeepsStored(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)

	_, err := ts.catalog.UpdateProduct(context.Background(), p.ID, ProductPatch{Rating: f64(9)}, "seed")

	assert.Contains(t, fieldsOf(t, err), "rating")
	stored, err := ts.catalog.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.Rating)
}

func TestCatalog_UpdateAndDelete_NotFound(t *testing.T) {
	ts := newTestServices()

	_, err := ts.catalog.UpdateProduct(context.Background(), "missing", ProductPatch{Name: str("x")}, "seed")
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, ts.catalog.DeleteProduct(context.Background(), "missing", "seed"), ErrProductNotFound)
}

func TestCatalog_DeleteProduct(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)

	require.NoError(t, ts.catalog.DeleteProduct(context.Background(), p.ID, "seed"))

	_, err := ts.catalog.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_UpdateAndDelete_RequireOwner(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)

	_, err = ts.catalog.UpdateProduct(context.Background(), view.Product.ID, ProductPatch{Name: str("Hijacked")}, "u2")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, ts.catalog.DeleteProduct(context.Background(), view.Product.ID, "u2"), ErrForbidden)
	_, err = ts.catalog.UpdateProduct(context.Background(), view.Product.ID, ProductPatch{Name: str("x")}, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	views, err := ts.exports.ListExports(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Green Tea", views[0].Product.Name)

	updated, err := ts.catalog.UpdateProduct(context.Background(), view.Product.ID, ProductPatch{Name: str("Sencha")}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sencha", updated.Name)
}

func TestCatalog_UnownedProductIsOpen(t *testing.T) {
	ts := newTestServices()
	p, err := ts.catalog.CreateProduct(context.Background(), validInput(), "")
	require.NoError(t, err)

	updated, err := ts.catalog.UpdateProduct(context.Background(), p.ID, ProductPatch{Name: str("Hojicha")}, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Hojicha", updated.Name)
	assert.NoError(t, ts.catalog.DeleteProduct(context.Background(), p.ID, "u3"))
}

// importingProducts records an import against the product just before every
// update, the way a concurrent request would land between read and write.
type importingProducts struct {
	repository.ProductRepository
	store    *repository.MemoryStore
	quantity int
}

func (r importingProducts) Update(ctx context.Context, id string, ch repository.ProductChanges) (*model.Product, error) {
	if _, err := r.store.RecordImport(ctx, &model.Import{ProductID: id, Quantity: r.quantity, UserID: "u9"}); err != nil {
		return nil, err
	}
	return r.ProductRepository.Update(ctx, id, ch)
}

type importingStore struct {
	*repository.MemoryStore
	quantity int
}

func (s importingStore) Products() repository.ProductRepository {
	return importingProducts{ProductRepository: s.MemoryStore.Products(), store: s.MemoryStore, quantity: s.quantity}
}

func TestUpdates_KeepConcurrentStockChanges(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryStore()
	store := importingStore{MemoryStore: mem, quantity: 3}
	log := zap.NewNop()
	catalog := NewCatalogService(store, cache.Noop{}, log)
	exports := NewExportService(store, catalog, nil, log)

	view, err := exports.CreateExport(ctx, validInput(), "u1")
	require.NoError(t, err)
	require.Equal(t, 5, view.Product.AvailableQuantity)

	updated, err := exports.UpdateExport(ctx, view.ID, ProductPatch{Name: str("Matcha")}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Matcha", updated.Product.Name)
	assert.Equal(t, 2, updated.Product.AvailableQuantity)

	stored, err := mem.Products().Get(ctx, view.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableQuantity)

	// catalog updates go through the same partial write
	store.quantity = 1
	catalog = NewCatalogService(store, cache.Noop{}, log)
	p, err := catalog.UpdateProduct(ctx, view.Product.ID, ProductPatch{Rating: f64(3)}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.AvailableQuantity)

	imports, err := mem.Imports().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, imports, 2)
}

// ==================== Imports ====================

func TestImports_CreateDecrementsStock(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)

	imp, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 3}, "u1")

	require.NoError(t, err)
	assert.NotEmpty(t, imp.ID)
	assert.Equal(t, "u1", imp.UserID)
	assert.Equal(t, 3, imp.Quantity)
	assert.Equal(t, 2, ts.available(t, p.ID))
	assert.Equal(t, []string{events.ImportCreated}, ts.events.Types())
}

func TestImports_CreateExactStock(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 4)

	_, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 4}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 0, ts.available(t, p.ID))
}

func TestImports_InsufficientStockLeavesQuantity(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)

	_, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 6}, "u1")

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, ts.available(t, p.ID))
	assert.Empty(t, ts.events.Types())
}

func TestImports_CreateErrors(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)

	_, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 1}, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 0}, "u1")
	assert.Contains(t, fieldsOf(t, err), "quantity")

	_, err = ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: -2}, "u1")
	assert.Contains(t, fieldsOf(t, err), "quantity")

	_, err = ts.imports.CreateImport(context.Background(), ImportInput{Quantity: 1}, "u1")
	assert.Contains(t, fieldsOf(t, err), "productId")

	_, err = ts.imports.CreateImport(context.Background(), ImportInput{ProductID: "missing", Quantity: 1}, "u1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestImports_DeleteRestoresOnce(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)
	imp, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 3}, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, ts.available(t, p.ID))

	require.NoError(t, ts.imports.DeleteImport(context.Background(), imp.ID, "u1"))
	assert.Equal(t, 5, ts.available(t, p.ID))

	err = ts.imports.DeleteImport(context.Background(), imp.ID, "u1")
	assert.ErrorIs(t, err, ErrImportNotFound)
	assert.Equal(t, 5, ts.available(t, p.ID))
	assert.Equal(t, []string{events.ImportCreated, events.ImportReversed}, ts.events.Types())
}

func TestImports_DeleteForbiddenForOtherUser(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)
	imp, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 2}, "u1")
	require.NoError(t, err)

	err = ts.imports.DeleteImport(context.Background(), imp.ID, "u2")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 3, ts.available(t, p.ID))
}

func TestImports_DeleteAfterProductGone(t *testing.T) {
	ts := newTestServices()
	p := ts.seedProduct(t, 5)
	imp, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 2}, "u1")
	require.NoError(t, err)
	require.NoError(t, ts.catalog.DeleteProduct(context.Background(), p.ID, "seed"))

	require.NoError(t, ts.imports.DeleteImport(context.Background(), imp.ID, "u1"))

	_, err = ts.store.Imports().Get(context.Background(), imp.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImports_ListDropsOrphans(t *testing.T) {
	ts := newTestServices()
	kept := ts.seedProduct(t, 5)
	gone := ts.seedProduct(t, 5)
	_, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: kept.ID, Quantity: 1}, "u1")
	require.NoError(t, err)
	_, err = ts.imports.CreateImport(context.Background(), ImportInput{ProductID: gone.ID, Quantity: 1}, "u1")
	require.NoError(t, err)
	_, err = ts.imports.CreateImport(context.Background(), ImportInput{ProductID: kept.ID, Quantity: 2}, "u2")
	require.NoError(t, err)
	require.NoError(t, ts.catalog.DeleteProduct(context.Background(), gone.ID, "seed"))

	mine, err := ts.imports.ListImports(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, kept.ID, mine[0].Product.ID)
	assert.Equal(t, 1, mine[0].ImportedQuantity)

	all, err := ts.imports.ListImports(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].ImportedQuantity, "newest first")
	for _, v := range all {
		assert.NotEqual(t, gone.ID, v.Product.ID)
	}
}

func TestImports_EventFailureDoesNotFailImport(t *testing.T) {
	ts := newTestServices()
	ts.events.Err = errors.New("broker down")
	p := ts.seedProduct(t, 5)

	_, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: p.ID, Quantity: 1}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 4, ts.available(t, p.ID))
}

// ==================== Exports ====================

func TestExports_CreateDefaultsRating(t *testing.T) {
	ts := newTestServices()
	in := validInput()
	in.Rating = nil

	view, err := ts.exports.CreateExport(context.Background(), in, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, view.Product.Rating)
	assert.Equal(t, "u1", view.UserID)
	assert.Equal(t, "u1", view.Product.AddedBy)

	in.Rating = f64(0)
	view, err = ts.exports.CreateExport(context.Background(), in, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, view.Product.Rating)

	p, err := ts.catalog.GetProduct(context.Background(), view.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Product.Name, p.Name)
	assert.Equal(t, []string{events.ExportCreated, events.ExportCreated}, ts.events.Types())
}

func TestExports_CreateRequiresIdentityAndValidFields(t *testing.T) {
	ts := newTestServices()

	_, err := ts.exports.CreateExport(context.Background(), validInput(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	in := validInput()
	in.Name = "  "
	_, err = ts.exports.CreateExport(context.Background(), in, "u1")
	assert.Contains(t, fieldsOf(t, err), "name")
}

func TestExports_ListScopedNewestFirst(t *testing.T) {
	ts := newTestServices()
	first, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)
	second, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)
	_, err = ts.exports.CreateExport(context.Background(), validInput(), "u2")
	require.NoError(t, err)

	views, err := ts.exports.ListExports(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
}

func TestExports_ListDropsOrphans(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)
	require.NoError(t, ts.catalog.DeleteProduct(context.Background(), view.Product.ID, "u1"))

	views, err := ts.exports.ListExports(context.Background(), "u1")

	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestExports_UpdateFallsBackOnZeroFields(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)

	updated, err := ts.exports.UpdateExport(context.Background(), view.ID, ProductPatch{
		Name:   str("Matcha"),
		Price:  f64(0),
		Image:  str(""),
		Rating: f64(5),
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, "Matcha", updated.Product.Name)
	assert.Equal(t, 10.0, updated.Product.Price)
	assert.Equal(t, "https://example.com/tea.png", updated.Product.Image)
	assert.Equal(t, 5.0, updated.Product.Rating)
	assert.False(t, updated.UpdatedAt.Before(view.UpdatedAt))

	p, err := ts.catalog.GetProduct(context.Background(), view.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Matcha", p.Name)
}

func TestExports_UpdateForbiddenLeavesDataUnmodified(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)

	_, err = ts.exports.UpdateExport(context.Background(), view.ID, ProductPatch{Name: str("Stolen")}, "u2")

	assert.ErrorIs(t, err, ErrForbidden)
	p, err := ts.catalog.GetProduct(context.Background(), view.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", p.Name)
	e, err := ts.store.Exports().Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.UpdatedAt, e.UpdatedAt)
}

func TestExports_UpdateNotFoundAndInvalid(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)

	_, err = ts.exports.UpdateExport(context.Background(), "missing", ProductPatch{}, "u1")
	assert.ErrorIs(t, err, ErrExportNotFound)

	_, err = ts.exports.UpdateExport(context.Background(), view.ID, ProductPatch{Image: str("nope")}, "u1")
	assert.Contains(t, fieldsOf(t, err), "image")
}

func TestExports_DeleteCascades(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)

	require.NoError(t, ts.exports.DeleteExport(context.Background(), view.ID, "u1"))

	_, err = ts.catalog.GetProduct(context.Background(), view.Product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, ts.exports.DeleteExport(context.Background(), view.ID, "u1"), ErrExportNotFound)
	assert.Equal(t, []string{events.ExportCreated, events.ExportDeleted}, ts.events.Types())
}

func TestExports_DeleteForbidden(t *testing.T) {
	ts := newTestServices()
	view, err := ts.exports.CreateExport(context.Background(), validInput(), "u1")
	require.NoError(t, err)

	assert.ErrorIs(t, ts.exports.DeleteExport(context.Background(), view.ID, "u2"), ErrForbidden)

	_, err = ts.catalog.GetProduct(context.Background(), view.Product.ID)
	assert.NoError(t, err)
}

// ==================== Maintenance ====================

func TestMaintenance_Cleanup(t *testing.T) {
	ts := newTestServices()
	old := ts.seedProduct(t, 5)
	_, err := ts.imports.CreateImport(context.Background(), ImportInput{ProductID: old.ID, Quantity: 1}, "u1")
	require.NoError(t, err)

	result, err := ts.maintenance.Cleanup(context.Background(), "admin")

	require.NoError(t, err)
	assert.Greater(t, result.ProductsSeeded, 0)
	assert.EqualValues(t, 1, result.ImportsPurged)
	require.NotNil(t, result.SampleImport)
	assert.Equal(t, "admin", result.SampleImport.UserID)
	assert.Equal(t, 1, result.SampleImport.Quantity)

	products, err := ts.catalog.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, products, result.ProductsSeeded)

	all, err := ts.imports.ListImports(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, result.SampleImport.ID, all[0].ID)
}

func TestMaintenance_CleanupRequiresIdentity(t *testing.T) {
	ts := newTestServices()

	_, err := ts.maintenance.Cleanup(context.Background(), "")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMaintenance_ReseedFixtureError(t *testing.T) {
	ts := newTestServices()
	ts.maintenance.fixture = func() ([]model.Product, error) { return nil, errors.New("bad fixture") }

	_, err := ts.maintenance.Reseed(context.Background())

	assert.EqualError(t, err, "bad fixture")
}

// ==================== Validation ====================

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"price": "price must be at least 0",
		"name":  "name is required",
	}}

	assert.Equal(t, "validation failed: name is required; price must be at least 0", err.Error())
}
