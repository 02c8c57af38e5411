package repository

import (
	"context"
	"errors"
	"time"

	"importexport-hub/internal/model"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository persists Product documents
type ProductRepository interface {
	// List returns products newest first; limit <= 0 means no limit
	List(ctx context.Context, limit int) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	// GetMany returns the products that exist among ids, keyed by id
	GetMany(ctx context.Context, ids []string) (map[string]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	// Update writes only the fields set in ch and returns the stored product
	Update(ctx context.Context, id string, ch ProductChanges) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	// Replace removes every product and inserts the given ones
	Replace(ctx context.Context, products []model.Product) error
}

// ProductChanges names the product fields an update writes. Nil fields keep
// their stored value, so stock moved by imports in the meantime is preserved.
type ProductChanges struct {
	Name              *string
	Image             *string
	Price             *float64
	OriginCountry     *string
	Rating            *float64
	AvailableQuantity *int
	AddedBy           *string
}

// apply copies the set fields onto p
func (ch ProductChanges) apply(p *model.Product) {
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Image != nil {
		p.Image = *ch.Image
	}
	if ch.Price != nil {
		p.Price = *ch.Price
	}
	if ch.OriginCountry != nil {
		p.OriginCountry = *ch.OriginCountry
	}
	if ch.Rating != nil {
		p.Rating = *ch.Rating
	}
	if ch.AvailableQuantity != nil {
		p.AvailableQuantity = *ch.AvailableQuantity
	}
	if ch.AddedBy != nil {
		p.AddedBy = *ch.AddedBy
	}
}

// fields maps the set fields to values keyed by the names given in cols.
// cols follows the order Name, Image, Price, OriginCountry, Rating,
// AvailableQuantity, AddedBy.
func (ch ProductChanges) fields(cols [7]string) map[string]interface{} {
	m := make(map[string]interface{}, 8)
	if ch.Name != nil {
		m[cols[0]] = *ch.Name
	}
	if ch.Image != nil {
		m[cols[1]] = *ch.Image
	}
	if ch.Price != nil {
		m[cols[2]] = *ch.Price
	}
	if ch.OriginCountry != nil {
		m[cols[3]] = *ch.OriginCountry
	}
	if ch.Rating != nil {
		m[cols[4]] = *ch.Rating
	}
	if ch.AvailableQuantity != nil {
		m[cols[5]] = *ch.AvailableQuantity
	}
	if ch.AddedBy != nil {
		m[cols[6]] = *ch.AddedBy
	}
	return m
}

// ImportRepository persists Import records
type ImportRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Import, error)
	ListAll(ctx context.Context) ([]model.Import, error)
	Get(ctx context.Context, id string) (*model.Import, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ExportRepository persists Export records
type ExportRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Export, error)
	Get(ctx context.Context, id string) (*model.Export, error)
	Touch(ctx context.Context, id string, at time.Time) error
}

// Store is the persistent store holding products, imports and exports.
// The composite operations are atomic to the extent the backend allows.
type Store interface {
	Products() ProductRepository
	Imports() ImportRepository
	Exports() ExportRepository

	// RecordImport decrements the product's available quantity only when it
	// covers imp.Quantity, then inserts imp. Returns the updated product.
	RecordImport(ctx context.Context, imp *model.Import) (*model.Product, error)
	// ReverseImport deletes the import and restores its quantity to the
	// product. The returned product is nil when it no longer exists.
	ReverseImport(ctx context.Context, id string) (*model.Import, *model.Product, error)
	// CreateExport inserts p and then e referencing it
	CreateExport(ctx context.Context, p *model.Product, e *model.Export) error
	// DeleteExport deletes the export's product and then the export
	DeleteExport(ctx context.Context, e *model.Export) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func now() time.Time {
	return time.Now().UTC()
}

func stampProduct(p *model.Product) {
	t := now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = t
	}
	p.UpdatedAt = t
}

func stampExport(e *model.Export) {
	t := now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}

func stampImport(imp *model.Import) {
	if imp.ImportedAt.IsZero() {
		imp.ImportedAt = now()
	}
}
