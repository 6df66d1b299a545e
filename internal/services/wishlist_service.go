package services

import (
	"butik/internal/repositories"
)

// WishlistService handles the per-user wishlist set. Product references are
// not checked against the catalog: a wishlist can hold an entry for a
// product that was later deleted.
type WishlistService struct {
	repo repositories.WishlistRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(repo repositories.WishlistRepository) *WishlistService {
	return &WishlistService{
		repo: repo,
	}
}

// AddToWishlist inserts a product into the user's wishlist and returns the
// resulting set. Adding an existing member changes nothing.
func (s *WishlistService) AddToWishlist(userID, productID string) ([]string, error) {
	if err := s.repo.Add(userID, productID); err != nil {
		return nil, err
	}
	return s.repo.List(userID)
}

// RemoveFromWishlist deletes a product from the user's wishlist and returns
// the resulting set. Removing an absent member changes nothing.
func (s *WishlistService) RemoveFromWishlist(userID, productID string) ([]string, error) {
	if err := s.repo.Remove(userID, productID); err != nil {
		return nil, err
	}
	return s.repo.List(userID)
}

// GetWishlist returns the user's wishlist set.
func (s *WishlistService) GetWishlist(userID string) ([]string, error) {
	return s.repo.List(userID)
}
