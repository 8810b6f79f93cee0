package handlers

import (
	"log"

	"partspicker/internal/middleware"
	"partspicker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart. Every route is
// session-gated and owner-scoped: the resolved user can only see and mutate
// their own cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes behind the session middleware.
func (h *CartHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	cartRoutes := router.Group("/cart", session)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the user's cart, creating an empty one on first
// access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	cart, err := h.service.GetOrCreateCart(user.ID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(cart)
}

// AddItemRequest represents the request body for adding a part to the cart.
type AddItemRequest struct {
	PartID   string `json:"part_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// HandleAddItem reserves stock for a part into the user's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.UserFromContext(c)
	item, err := h.service.AddItem(user.ID, req.PartID, req.Quantity)
	if err != nil {
		log.Printf("Error adding part %s to cart of user %s: %v", req.PartID, user.ID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItemRequest represents the request body for a quantity change.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateItem sets a new quantity on a cart item.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.UserFromContext(c)
	itemID := c.Params("id")
	item, err := h.service.UpdateItem(user.ID, itemID, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item %s for user %s: %v", itemID, user.ID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a cart item and releases its stock.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	itemID := c.Params("id")
	if err := h.service.RemoveItem(user.ID, itemID); err != nil {
		log.Printf("Error removing cart item %s for user %s: %v", itemID, user.ID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart item removed successfully",
	})
}
