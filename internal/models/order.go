package models

import (
	"errors"
	"math"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusPacked     OrderStatus = "Packed"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ErrInvalidTransition is returned when a status change is not allowed by the
// transition table.
var ErrInvalidTransition = errors.New("invalid order status transition")

// statusTransitions is the closed set of allowed status changes. Delivered
// and Cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusPacked, StatusCancelled},
	StatusPacked:     {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table allows moving from s
// to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PointsForAmount computes the loyalty points earned for an order total:
// 10 points per full 1000 spent, nothing for the remainder.
func PointsForAmount(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(math.Floor(amount/1000.0)) * 10
}

// OrderItem represents a single line item within an order. Price is the unit
// price snapshot taken from the catalog at checkout.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	OrderID   string  `json:"-" gorm:"type:varchar(36);index"`
	ProductID string  `json:"product_id" validate:"required"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price"`
}

// ShippingAddress is the address snapshot embedded in an order. It is copied
// at checkout so later edits to the user's address book do not rewrite
// history.
type ShippingAddress struct {
	Recipient  string `json:"recipient" validate:"required,max=100"`
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
}

// Order represents a customer order. ClientReference is an optional
// idempotency key; when present it is unique per user so client retries
// cannot create duplicate orders.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);index;index:idx_orders_user_ref,unique"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"total_amount"`
	PointsEarned    int             `json:"points_earned"`
	Shipping        ShippingAddress `json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientReference string          `json:"client_reference,omitempty" gorm:"type:varchar(64);index:idx_orders_user_ref,unique,where:client_reference <> ''"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(16)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
