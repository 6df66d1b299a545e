package repositories

import (
	"fmt"
	"time"

	"butik/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// Add inserts a product into the user's wishlist. Re-adding an existing
// member is a no-op (ON CONFLICT DO NOTHING on the composite key).
func (r *GORMWishlistRepository) Add(userID, productID string) error {
	item := models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
		return fmt.Errorf("failed to add product %s to wishlist: %w", productID, err)
	}
	return nil
}

// Remove deletes a product from the user's wishlist. Removing an absent
// member is a no-op.
func (r *GORMWishlistRepository) Remove(userID, productID string) error {
	if err := r.db.Delete(&models.WishlistItem{}, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		return fmt.Errorf("failed to remove product %s from wishlist: %w", productID, err)
	}
	return nil
}

// List returns the product IDs in the user's wishlist, oldest first.
func (r *GORMWishlistRepository) List(userID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist for user %s: %w", userID, err)
	}
	return ids, nil
}
