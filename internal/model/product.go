package model

import "time"

// Product represents a catalogued item and its available stock
type Product struct {
	ID                string    `json:"_id" gorm:"primarykey;type:varchar(36)"`
	Name              string    `json:"name" gorm:"type:varchar(255);not null"`
	Image             string    `json:"image" gorm:"type:text;not null"`
	Price             float64   `json:"price" gorm:"not null"`
	OriginCountry     string    `json:"originCountry" gorm:"type:varchar(100);not null"`
	Rating            float64   `json:"rating" gorm:"not null;default:0"`
	AvailableQuantity int       `json:"availableQuantity" gorm:"not null;default:0;check:available_quantity >= 0"`
	AddedBy           string    `json:"addedBy,omitempty" gorm:"type:varchar(128);index"`
	CreatedAt         time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
