package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer account in the store.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name             string    `json:"name" validate:"required,min=2,max=100"`
	Email            string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password         string    `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	IsAdmin          bool      `json:"is_admin" gorm:"default:false"`
	LoyaltyPoints    int       `json:"loyalty_points" gorm:"default:0"`
	ReferralCode     string    `json:"referral_code" gorm:"type:varchar(12);index"`
	ReferralEarnings float64   `json:"referral_earnings" gorm:"default:0"`
	Addresses        []Address `json:"addresses,omitempty"`
	gorm.Model                 // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Address is a postal address attached to a user. Addresses keep their
// insertion order.
type Address struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"-" gorm:"type:varchar(36);index"`
	Recipient  string `json:"recipient" validate:"required,max=100"`
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
}

// WishlistItem is one entry in a user's wishlist. The composite primary key
// makes membership a set: inserting the same pair twice is a no-op.
type WishlistItem struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
