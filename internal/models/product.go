package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog entry. List-valued columns (images, sizes,
// colors, tags) are stored as JSON.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,min=2,max=150"`
	Brand       string   `json:"brand" validate:"required,max=100"`
	Category    string   `json:"category" validate:"required,max=100"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Images      []string `json:"images" gorm:"serializer:json"`
	Sizes       []string `json:"sizes" gorm:"serializer:json"`
	Colors      []string `json:"colors" gorm:"serializer:json"`
	Tags        []string `json:"tags" gorm:"serializer:json"`
	InStock     bool     `json:"in_stock" gorm:"default:true"`
	Reviews     []Review `json:"reviews,omitempty"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Review is a customer review embedded in a product's detail view.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36)"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"omitempty,max=1000"`
	CreatedAt time.Time `json:"created_at"`
}
