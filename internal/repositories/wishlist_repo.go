package repositories

// WishlistRepository defines the interface for wishlist data access. Add and
// Remove are idempotent set operations; List returns the member product IDs.
type WishlistRepository interface {
	Add(userID, productID string) error
	Remove(userID, productID string) error
	List(userID string) ([]string, error)
}
