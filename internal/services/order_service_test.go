package services_test

import (
	"errors"
	"sync"
	"testing"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/internal/services"
	"butik/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
)

// capturingPublisher records published order events.
type capturingPublisher struct {
	mu     sync.Mutex
	events []rabbitmq.OrderPlacedEvent
	err    error
}

func (p *capturingPublisher) PublishOrderPlaced(event rabbitmq.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type orderFixture struct {
	service  *services.OrderService
	users    *repositories.MockUserRepository
	products *repositories.MockProductRepository
	orders   *repositories.MockOrderRepository
	events   *capturingPublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	users := repositories.NewMockUserRepository()
	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository(users)
	events := &capturingPublisher{}
	return &orderFixture{
		service:  services.NewOrderService(orders, products, users, events),
		users:    users,
		products: products,
		orders:   orders,
		events:   events,
	}
}

func (f *orderFixture) seedUser(t *testing.T, id string) {
	t.Helper()
	err := f.users.Create(&models.User{ID: id, Name: "Shopper", Email: id + "@example.com", Password: "hash"})
	assert.NoError(t, err)
}

func (f *orderFixture) seedProduct(t *testing.T, id string, price float64) {
	t.Helper()
	err := f.products.Create(&models.Product{
		ID: id, Name: "Item " + id, Brand: "Butik", Category: "Shirts",
		Price: price, InStock: true,
	})
	assert.NoError(t, err)
}

func (f *orderFixture) balance(t *testing.T, userID string) int {
	t.Helper()
	user, err := f.users.GetByID(userID)
	assert.NoError(t, err)
	return user.LoyaltyPoints
}

func placeRequest(productID string, qty int) services.PlaceOrderRequest {
	return services.PlaceOrderRequest{
		Items: []models.OrderItem{{ProductID: productID, Size: "M", Color: "Black", Quantity: qty}},
		Shipping: models.ShippingAddress{
			Recipient: "A Shopper", Street: "1 Main St", City: "Oslo", PostalCode: "0150",
		},
		PaymentIntentID: "pi_test",
	}
}

func TestOrderService_PlaceOrder_CreditsPoints(t *testing.T) {
	cases := []struct {
		name   string
		price  float64
		points int
	}{
		{"below threshold earns nothing", 999, 0},
		{"exactly one unit", 1000, 10},
		{"two and a half units", 2500, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture(t)
			f.seedUser(t, "user-1")
			f.seedProduct(t, "prod-1", tc.price)

			order, err := f.service.PlaceOrder("user-1", placeRequest("prod-1", 1))

			assert.NoError(t, err)
			assert.Equal(t, tc.price, order.TotalAmount)
			assert.Equal(t, tc.points, order.PointsEarned)
			assert.Equal(t, models.StatusProcessing, order.Status)
			assert.Equal(t, tc.points, f.balance(t, "user-1"))
		})
	}
}

func TestOrderService_PlaceOrder_SequenceAccruesExpectedBalances(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1500", 1500)
	f.seedProduct(t, "prod-500", 500)
	f.seedProduct(t, "prod-1000", 1000)

	_, err := f.service.PlaceOrder("user-1", placeRequest("prod-1500", 1))
	assert.NoError(t, err)
	assert.Equal(t, 10, f.balance(t, "user-1"))

	_, err = f.service.PlaceOrder("user-1", placeRequest("prod-500", 1))
	assert.NoError(t, err)
	assert.Equal(t, 10, f.balance(t, "user-1"), "amount under the unit threshold earns nothing")

	_, err = f.service.PlaceOrder("user-1", placeRequest("prod-1000", 1))
	assert.NoError(t, err)
	assert.Equal(t, 20, f.balance(t, "user-1"))
}

func TestOrderService_PlaceOrder_ConcurrentPlacementsDoNotLoseUpdates(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1000", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.PlaceOrder("user-1", placeRequest("prod-1000", 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, f.balance(t, "user-1"), "both placements must be credited")
}

func TestOrderService_PlaceOrder_StoreFailureCreditsNothing(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1", 2500)
	f.orders.CreateErr = errors.New("database is down")

	order, err := f.service.PlaceOrder("user-1", placeRequest("prod-1", 1))

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, 0, f.balance(t, "user-1"), "failed placement must not credit points")
	assert.Empty(t, f.events.events, "failed placement must not publish an event")
}

func TestOrderService_PlaceOrder_IdempotencyKeyReturnsExistingOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1", 2000)

	req := placeRequest("prod-1", 1)
	req.ClientReference = "checkout-abc"

	first, err := f.service.PlaceOrder("user-1", req)
	assert.NoError(t, err)
	assert.Equal(t, 20, f.balance(t, "user-1"))

	second, err := f.service.PlaceOrder("user-1", req)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "retry must return the stored order")
	assert.Equal(t, 20, f.balance(t, "user-1"), "retry must not credit points twice")

	orders, err := f.orders.GetByUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_PlaceOrder_RecomputesAmountFromCatalog(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1", 1200)

	// A tampered client amount is rejected.
	req := placeRequest("prod-1", 2)
	req.Amount = 99
	_, err := f.service.PlaceOrder("user-1", req)
	assert.ErrorIs(t, err, services.ErrAmountMismatch)
	assert.Equal(t, 0, f.balance(t, "user-1"))

	// A truthful client amount is accepted, and the snapshot price lands on
	// the line item.
	req.Amount = 2400
	order, err := f.service.PlaceOrder("user-1", req)
	assert.NoError(t, err)
	assert.Equal(t, 2400.0, order.TotalAmount)
	assert.Equal(t, 1200.0, order.Items[0].Price)
	assert.Equal(t, 20, f.balance(t, "user-1"))
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1", 500)

	// Empty item list.
	_, err := f.service.PlaceOrder("user-1", services.PlaceOrderRequest{})
	assert.ErrorIs(t, err, services.ErrNoItems)

	// Non-positive quantity.
	_, err = f.service.PlaceOrder("user-1", placeRequest("prod-1", 0))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be positive")

	// Unknown product.
	_, err = f.service.PlaceOrder("user-1", placeRequest("prod-missing", 1))
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	// Unknown user.
	_, err = f.service.PlaceOrder("user-missing", placeRequest("prod-1", 1))
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	// Out-of-stock product.
	err = f.products.Create(&models.Product{ID: "prod-out", Name: "Sold Out", Brand: "Butik", Category: "Shirts", Price: 100, InStock: false})
	assert.NoError(t, err)
	_, err = f.service.PlaceOrder("user-1", placeRequest("prod-out", 1))
	assert.ErrorIs(t, err, services.ErrProductUnavailable)
}

func TestOrderService_PlaceOrder_PublishesEvent(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1", 3000)

	order, err := f.service.PlaceOrder("user-1", placeRequest("prod-1", 1))
	assert.NoError(t, err)
	assert.Len(t, f.events.events, 1)
	assert.Equal(t, order.ID, f.events.events[0].OrderID)
	assert.Equal(t, 30, f.events.events[0].PointsEarned)

	// A publish failure must not fail the checkout.
	f.events.err = errors.New("broker unavailable")
	order, err = f.service.PlaceOrder("user-1", placeRequest("prod-1", 1))
	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, 60, f.balance(t, "user-1"))
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "owner")
	f.seedUser(t, "stranger")
	f.seedProduct(t, "prod-1", 700)

	order, err := f.service.PlaceOrder("owner", placeRequest("prod-1", 1))
	assert.NoError(t, err)

	// Owner sees it.
	got, err := f.service.GetOrder(order.ID, "owner", false)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// A different caller reads it as not found.
	_, err = f.service.GetOrder(order.ID, "stranger", false)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	// Admins see everything.
	got, err = f.service.GetOrder(order.ID, "stranger", true)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.seedUser(t, "user-1")
	f.seedProduct(t, "prod-1", 800)

	order, err := f.service.PlaceOrder("user-1", placeRequest("prod-1", 1))
	assert.NoError(t, err)

	// Legal walk through the lifecycle.
	updated, err := f.service.UpdateOrderStatus(order.ID, models.StatusPacked)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPacked, updated.Status)

	updated, err = f.service.UpdateOrderStatus(order.ID, models.StatusShipped)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	// Shipped orders cannot be cancelled.
	_, err = f.service.UpdateOrderStatus(order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// Unknown status values are rejected outright.
	_, err = f.service.UpdateOrderStatus(order.ID, models.OrderStatus("Refunded"))
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// Unknown order.
	_, err = f.service.UpdateOrderStatus("nope", models.StatusPacked)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}
