package model

import "time"

// Import records stock consumed from a product by a user
type Import struct {
	ID         string    `json:"_id" gorm:"primarykey;type:varchar(36)"`
	ProductID  string    `json:"productId" gorm:"type:varchar(36);index"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	UserID     string    `json:"userId" gorm:"type:varchar(128);index"`
	ImportedAt time.Time `json:"importedAt" gorm:"index"`
}

// Export records that a user published the referenced product
type Export struct {
	ID        string    `json:"_id" gorm:"primarykey;type:varchar(36)"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);uniqueIndex"`
	UserID    string    `json:"userId" gorm:"type:varchar(128);index;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImportView is an import joined with the current state of its product
type ImportView struct {
	ID               string    `json:"_id"`
	Product          Product   `json:"product"`
	ImportedQuantity int       `json:"importedQuantity"`
	ImportedAt       time.Time `json:"importedAt"`
}

// ExportView is an export joined with its product
type ExportView struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewImportView joins an import with its product
func NewImportView(imp Import, p Product) ImportView {
	return ImportView{
		ID:               imp.ID,
		Product:          p,
		ImportedQuantity: imp.Quantity,
		ImportedAt:       imp.ImportedAt,
	}
}

// NewExportView joins an export with its product
func NewExportView(exp Export, p Product) ExportView {
	return ExportView{
		ID:        exp.ID,
		UserID:    exp.UserID,
		Product:   p,
		CreatedAt: exp.CreatedAt,
		UpdatedAt: exp.UpdatedAt,
	}
}
