package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"importexport-hub/internal/model"
)

// GormStore is the relational Store backend
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the products, imports and exports tables
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&model.Product{}, &model.Import{}, &model.Export{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

func (s *GormStore) Products() ProductRepository { return gormProducts{s.db} }
func (s *GormStore) Imports() ImportRepository   { return gormImports{s.db} }
func (s *GormStore) Exports() ExportRepository   { return gormExports{s.db} }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) RecordImport(ctx context.Context, imp *model.Import) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional decrement closes the check-then-act race between concurrent imports.
		res := tx.Model(&model.Product{}).
			Where("id = ? AND available_quantity >= ?", imp.ProductID, imp.Quantity).
			Updates(map[string]interface{}{
				"available_quantity": gorm.Expr("available_quantity - ?", imp.Quantity),
				"updated_at":         now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Product{}).Where("id = ?", imp.ProductID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrInsufficientStock
		}

		if imp.ID == "" {
			imp.ID = uuid.New().String()
		}
		stampImport(imp)
		if err := tx.Create(imp).Error; err != nil {
			return err
		}
		return tx.First(&product, "id = ?", imp.ProductID).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) ReverseImport(ctx context.Context, id string) (*model.Import, *model.Product, error) {
	var (
		imp     model.Import
		product *model.Product
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&imp, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		// Deleting first means a concurrent reversal of the same import restores nothing.
		res := tx.Delete(&model.Import{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		res = tx.Model(&model.Product{}).
			Where("id = ?", imp.ProductID).
			Updates(map[string]interface{}{
				"available_quantity": gorm.Expr("available_quantity + ?", imp.Quantity),
				"updated_at":         now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var p model.Product
		if err := tx.First(&p, "id = ?", imp.ProductID).Error; err != nil {
			return err
		}
		product = &p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &imp, product, nil
}

func (s *GormStore) CreateExport(ctx context.Context, p *model.Product, e *model.Export) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		stampProduct(p)
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.ProductID = p.ID
		stampExport(e)
		return tx.Create(e).Error
	})
}

func (s *GormStore) DeleteExport(ctx context.Context, e *model.Export) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Product{}, "id = ?", e.ProductID).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Export{}, "id = ?", e.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type gormProducts struct{ db *gorm.DB }

func (r gormProducts) List(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r gormProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r gormProducts) GetMany(ctx context.Context, ids []string) (map[string]model.Product, error) {
	found := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r gormProducts) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	stampProduct(p)
	return r.db.WithContext(ctx).Create(p).Error
}

var productColumns = [7]string{"name", "image", "price", "origin_country", "rating", "available_quantity", "added_by"}

func (r gormProducts) Update(ctx context.Context, id string, ch ProductChanges) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values := ch.fields(productColumns)
		values["updated_at"] = now()
		res := tx.Model(&model.Product{}).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&p, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r gormProducts) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r gormProducts) Replace(ctx context.Context, products []model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		for i := range products {
			if products[i].ID == "" {
				products[i].ID = uuid.New().String()
			}
			stampProduct(&products[i])
		}
		return tx.CreateInBatches(products, 100).Error
	})
}

type gormImports struct{ db *gorm.DB }

func (r gormImports) ListByUser(ctx context.Context, userID string) ([]model.Import, error) {
	var imports []model.Import
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("imported_at DESC").
		Find(&imports).Error
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return imports, nil
}

func (r gormImports) ListAll(ctx context.Context) ([]model.Import, error) {
	var imports []model.Import
	if err := r.db.WithContext(ctx).Order("imported_at DESC").Find(&imports).Error; err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return imports, nil
}

func (r gormImports) Get(ctx context.Context, id string) (*model.Import, error) {
	var imp model.Import
	if err := r.db.WithContext(ctx).First(&imp, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &imp, nil
}

func (r gormImports) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Import{})
	return res.RowsAffected, res.Error
}

type gormExports struct{ db *gorm.DB }

func (r gormExports) ListByUser(ctx context.Context, userID string) ([]model.Export, error) {
	var exports []model.Export
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&exports).Error
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return exports, nil
}

func (r gormExports) Get(ctx context.Context, id string) (*model.Export, error) {
	var e model.Export
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r gormExports) Touch(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Export{}).Where("id = ?", id).Update("updated_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
