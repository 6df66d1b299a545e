package handlers

import (
	"errors"
	"log"

	"butik/internal/repositories"
	"butik/internal/services"
	"butik/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles checkout-session creation against the external
// payment provider.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the payment routes.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payment")
	paymentRoutes.Post("/create-checkout-session", h.HandleCreateCheckoutSession)
}

// CheckoutSessionRequest represents the request body for session creation.
type CheckoutSessionRequest struct {
	CartItems []services.CheckoutItem `json:"cart_items" validate:"required,min=1,dive"`
}

// HandleCreateCheckoutSession resolves the cart against the catalog and
// returns the provider's opaque session identifier.
func (h *PaymentHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout session request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	session, err := h.service.CreateCheckoutSession(c.UserContext(), req.CartItems)
	if err != nil {
		log.Printf("Error creating checkout session: %v", err)
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cart references an unknown product",
				"error":   err.Error(),
			})
		case errors.Is(err, payment.ErrProviderUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Payment provider is unavailable",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not create checkout session",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(session)
}
