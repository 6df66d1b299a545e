package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"butik/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Accrual is mirrored through the user repository so the cross-entity
// invariant holds the same way it does in the GORM implementation.
type MockOrderRepository struct {
	orders map[string]models.Order
	users  *MockUserRepository
	mu     sync.RWMutex

	// CreateErr, when set, makes CreateWithAccrual fail before any state
	// changes. Lets tests exercise store-failure paths.
	CreateErr error
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(users *MockUserRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		users:  users,
	}
}

// GetByUser returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
	}
	return &order, nil
}

// GetByClientReference returns the order placed under an idempotency key.
func (r *MockOrderRepository) GetByClientReference(userID, reference string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.UserID == userID && order.ClientReference == reference {
			found := order
			return &found, nil
		}
	}
	return nil, fmt.Errorf("order with reference %s: %w", reference, ErrOrderNotFound)
}

// CreateWithAccrual stores the order and credits the owner's points under a
// single lock, so either both happen or neither does.
func (r *MockOrderRepository) CreateWithAccrual(order *models.Order, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return r.CreateErr
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.StatusProcessing
	}
	order.PointsEarned = points
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	if err := r.users.creditPoints(order.UserID, points); err != nil {
		return err
	}
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
