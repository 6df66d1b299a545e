package repositories

import (
	"sync"
)

// MockWishlistRepository is an in-memory implementation of WishlistRepository.
type MockWishlistRepository struct {
	// per-user ordered membership; the map gives set semantics, the slice
	// preserves insertion order for List.
	members map[string]map[string]bool
	order   map[string][]string
	mu      sync.RWMutex
}

// NewMockWishlistRepository creates a new instance of MockWishlistRepository.
func NewMockWishlistRepository() *MockWishlistRepository {
	return &MockWishlistRepository{
		members: make(map[string]map[string]bool),
		order:   make(map[string][]string),
	}
}

// Add inserts a product into the user's wishlist set. Idempotent.
func (r *MockWishlistRepository) Add(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members[userID] == nil {
		r.members[userID] = make(map[string]bool)
	}
	if r.members[userID][productID] {
		return nil
	}
	r.members[userID][productID] = true
	r.order[userID] = append(r.order[userID], productID)
	return nil
}

// Remove deletes a product from the user's wishlist set. Idempotent.
func (r *MockWishlistRepository) Remove(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.members[userID][productID] {
		return nil
	}
	delete(r.members[userID], productID)
	ids := r.order[userID]
	for i, id := range ids {
		if id == productID {
			r.order[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// List returns the product IDs in the user's wishlist, oldest first.
func (r *MockWishlistRepository) List(userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order[userID]))
	copy(ids, r.order[userID])
	return ids, nil
}
