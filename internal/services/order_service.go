package services

import (
	"errors"
	"fmt"
	"log"
	"math"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/pkg/rabbitmq"
)

var (
	// ErrNoItems is returned when an order request carries no line items.
	ErrNoItems = errors.New("order must contain at least one item")
	// ErrAmountMismatch is returned when the client-stated total disagrees
	// with the total recomputed from catalog prices.
	ErrAmountMismatch = errors.New("stated amount does not match computed total")
	// ErrProductUnavailable is returned when a line item references a
	// product that is out of stock.
	ErrProductUnavailable = errors.New("product is out of stock")
)

// OrderEventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client.
type OrderEventPublisher interface {
	PublishOrderPlaced(event rabbitmq.OrderPlacedEvent) error
}

// PlaceOrderRequest carries everything a checkout needs. Amount is the
// client-stated total; it is verified against catalog prices, never trusted.
// ClientReference is an optional idempotency key.
type PlaceOrderRequest struct {
	Items           []models.OrderItem
	Amount          float64
	Shipping        models.ShippingAddress
	PaymentIntentID string
	ClientReference string
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	events      OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository, events OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// PlaceOrder creates an order for the caller and credits their loyalty
// points. The total is recomputed server-side from catalog prices, points are
// floor(total/1000)*10, and the order insert plus point credit happen
// atomically in the repository. A repeated ClientReference returns the
// previously created order without creating or crediting anything.
func (s *OrderService) PlaceOrder(userID string, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %s: quantity must be positive", item.ProductID)
		}
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	// Client retries with the same idempotency key get the stored order.
	if req.ClientReference != "" {
		existing, err := s.orderRepo.GetByClientReference(userID, req.ClientReference)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, err
		}
	}

	// Recompute the total from the catalog; the client-stated amount is only
	// accepted when it agrees with the recomputed one.
	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.InStock {
			return nil, fmt.Errorf("product %s: %w", product.Name, ErrProductUnavailable)
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			Price:     product.Price, // Unit price at the time of order
		})
		total += product.Price * float64(item.Quantity)
	}
	if req.Amount > 0 && math.Abs(req.Amount-total) > 0.01 {
		return nil, fmt.Errorf("stated %v, computed %v: %w", req.Amount, total, ErrAmountMismatch)
	}

	points := models.PointsForAmount(total)

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		Shipping:        req.Shipping,
		PaymentIntentID: req.PaymentIntentID,
		ClientReference: req.ClientReference,
		Status:          models.StatusProcessing,
	}
	if err := s.orderRepo.CreateWithAccrual(order, points); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Event publication is best effort: the order is already durable and the
	// points are credited, a publish failure must not fail the checkout.
	if s.events != nil {
		event := rabbitmq.OrderPlacedEvent{
			OrderID:      order.ID,
			UserID:       order.UserID,
			TotalAmount:  order.TotalAmount,
			PointsEarned: order.PointsEarned,
			Status:       string(order.Status),
		}
		if err := s.events.PublishOrderPlaced(event); err != nil {
			log.Printf("Warning: Failed to publish order placed event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// ListUserOrders retrieves the caller's orders, newest first.
func (s *OrderService) ListUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrder retrieves a single order. Non-admin callers only see their own
// orders; anything else reads as not found.
func (s *OrderService) GetOrder(orderID, callerID string, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != callerID && !isAdmin {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, repositories.ErrOrderNotFound)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to the next status if the transition
// table allows it.
func (s *OrderService) UpdateOrderStatus(orderID string, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("status %q: %w", next, models.ErrInvalidTransition)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, next, models.ErrInvalidTransition)
	}
	if err := s.orderRepo.UpdateStatus(orderID, next); err != nil {
		return nil, err
	}
	order.Status = next
	return order, nil
}
