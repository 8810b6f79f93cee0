package repositories

import (
	"fmt"
	"sync"

	"partspicker/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository. It
// shares a MockPartRepository for stock bookkeeping; a single mutex around
// each mutation stands in for the database transaction.
type MockCartRepository struct {
	parts *MockPartRepository
	carts map[string]models.Cart     // keyed by user ID
	items map[string]models.CartItem // keyed by item ID
	mu    sync.Mutex
}

// NewMockCartRepository creates a new instance of MockCartRepository backed
// by the given part repository.
func NewMockCartRepository(parts *MockPartRepository) *MockCartRepository {
	return &MockCartRepository{
		parts: parts,
		carts: make(map[string]models.Cart),
		items: make(map[string]models.CartItem),
	}
}

// GetOrCreate returns the user's cart with its items, creating an empty cart
// on first access.
func (r *MockCartRepository) GetOrCreate(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.getOrCreateLocked(userID)
	return &cart, nil
}

func (r *MockCartRepository) getOrCreateLocked(userID string) models.Cart {
	cart, ok := r.carts[userID]
	if !ok {
		cart = models.Cart{ID: uuid.New().String(), UserID: userID}
		r.carts[userID] = cart
	}
	cart.Items = nil
	for _, item := range r.items {
		if item.CartID == cart.ID {
			cart.Items = append(cart.Items, item)
		}
	}
	return cart
}

// AddItem reserves stock for the part and upserts the cart item.
func (r *MockCartRepository) AddItem(userID, partID string, quantity int) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.getOrCreateLocked(userID)
	part, err := r.parts.GetByID(partID)
	if err != nil {
		return nil, err
	}
	if part.StockQuantity < quantity {
		return nil, fmt.Errorf("part %s has %d in stock, requested %d: %w",
			partID, part.StockQuantity, quantity, models.ErrInsufficientStock)
	}
	part.StockQuantity -= quantity
	if err := r.parts.Update(part); err != nil {
		return nil, err
	}

	for id, item := range r.items {
		if item.CartID == cart.ID && item.PartID == partID {
			item.Quantity += quantity
			r.items[id] = item
			return &item, nil
		}
	}
	item := models.CartItem{
		ID:       uuid.New().String(),
		CartID:   cart.ID,
		PartID:   partID,
		Quantity: quantity,
	}
	r.items[item.ID] = item
	return &item, nil
}

// UpdateItem sets a new quantity on the item and applies the stock delta.
func (r *MockCartRepository) UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.ownedItemLocked(userID, itemID)
	if err != nil {
		return nil, err
	}
	part, err := r.parts.GetByID(item.PartID)
	if err != nil {
		return nil, err
	}
	delta := quantity - item.Quantity
	if delta > 0 && part.StockQuantity < delta {
		return nil, fmt.Errorf("part %s has %d in stock, increase needs %d: %w",
			item.PartID, part.StockQuantity, delta, models.ErrInsufficientStock)
	}
	part.StockQuantity -= delta
	if err := r.parts.Update(part); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	r.items[itemID] = *item
	return item, nil
}

// RemoveItem deletes the item and restores its quantity to the part's stock.
func (r *MockCartRepository) RemoveItem(userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.ownedItemLocked(userID, itemID)
	if err != nil {
		return err
	}
	part, err := r.parts.GetByID(item.PartID)
	if err != nil {
		return err
	}
	part.StockQuantity += item.Quantity
	if err := r.parts.Update(part); err != nil {
		return err
	}
	delete(r.items, itemID)
	return nil
}

func (r *MockCartRepository) ownedItemLocked(userID, itemID string) (*models.CartItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, fmt.Errorf("cart item with ID %s: %w", itemID, models.ErrNotFound)
	}
	cart, ok := r.carts[userID]
	if !ok || cart.ID != item.CartID {
		return nil, fmt.Errorf("cart item with ID %s: %w", itemID, models.ErrNotFound)
	}
	return &item, nil
}
