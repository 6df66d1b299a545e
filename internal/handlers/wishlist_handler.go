package handlers

import (
	"log"

	"butik/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for the caller's wishlist.
type WishlistHandler struct {
	service *services.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		service: service,
	}
}

// RegisterRoutes registers the wishlist routes. All of them require a token.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleGetWishlist)
	wishlistRoutes.Post("/:productId", h.HandleAddToWishlist)
	wishlistRoutes.Delete("/:productId", h.HandleRemoveFromWishlist)
}

// HandleGetWishlist returns the caller's wishlist set.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	wishlist, err := h.service.GetWishlist(currentUserID(c))
	if err != nil {
		log.Printf("Error loading wishlist: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"wishlist": wishlist})
}

// HandleAddToWishlist inserts a product into the caller's wishlist and
// returns the updated set. Adding a member twice is a no-op.
func (h *WishlistHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	productID := c.Params("productId")
	wishlist, err := h.service.AddToWishlist(currentUserID(c), productID)
	if err != nil {
		log.Printf("Error adding product %s to wishlist: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"wishlist": wishlist})
}

// HandleRemoveFromWishlist deletes a product from the caller's wishlist and
// returns the updated set. Removing an absent member is a no-op.
func (h *WishlistHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	productID := c.Params("productId")
	wishlist, err := h.service.RemoveFromWishlist(currentUserID(c), productID)
	if err != nil {
		log.Printf("Error removing product %s from wishlist: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"wishlist": wishlist})
}
