package repositories

import "partspicker/internal/models"

// CartRepository defines the interface for cart data access. The three item
// mutations adjust the owning part's stock quantity and the cart item
// together; implementations must apply each mutation atomically so that
// concurrent writers cannot drive stock below zero.
type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating an empty
	// cart on first access. Idempotent.
	GetOrCreate(userID string) (*models.Cart, error)

	// AddItem reserves quantity units of the part: decrements the part's
	// stock and creates the cart item, or increments an existing item for
	// the same part. Returns models.ErrInsufficientStock when the part
	// cannot cover the quantity.
	AddItem(userID, partID string, quantity int) (*models.CartItem, error)

	// UpdateItem sets an item's quantity and moves the stock delta in the
	// same transaction. The item must belong to the user's cart.
	UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error)

	// RemoveItem deletes the item and restores its quantity to the part's
	// stock. The item must belong to the user's cart.
	RemoveItem(userID, itemID string) error
}
