package services

import (
	"context"
	"fmt"

	"butik/internal/repositories"
	"butik/pkg/payment"
)

// CheckoutItem is one cart entry submitted for a payment session.
type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PaymentService builds priced line items from the catalog and delegates
// session creation to the external payment provider.
type PaymentService struct {
	productRepo repositories.ProductRepository
	provider    payment.SessionProvider
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(productRepo repositories.ProductRepository, provider payment.SessionProvider) *PaymentService {
	return &PaymentService{
		productRepo: productRepo,
		provider:    provider,
	}
}

// CreateCheckoutSession resolves the cart against the catalog and asks the
// provider for a session. Prices come from the catalog, never the client.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, items []CheckoutItem) (*payment.Session, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %s: quantity must be positive", item.ProductID)
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:      product.Name,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
	}

	session, err := s.provider.CreateSession(ctx, payment.SessionRequest{Items: lineItems})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session, nil
}
