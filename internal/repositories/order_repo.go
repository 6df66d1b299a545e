package repositories

import (
	"errors"

	"butik/internal/models"
)

// ErrOrderNotFound is returned when a referenced order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access.
//
// CreateWithAccrual must persist the order and credit the owning user's
// loyalty-point balance as one atomic unit: either both writes are visible or
// neither is. Implementations must also make the point credit safe against
// concurrent placements for the same user (no lost updates).
type OrderRepository interface {
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByClientReference(userID, reference string) (*models.Order, error)
	CreateWithAccrual(order *models.Order, points int) error
	UpdateStatus(id string, status models.OrderStatus) error
}
