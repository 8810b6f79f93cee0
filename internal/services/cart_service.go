package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"partspicker/internal/models"
	"partspicker/internal/repositories"
)

// StockEventPublisher publishes stock reservation events to the message
// broker. A nil publisher disables event publication.
type StockEventPublisher interface {
	PublishStockEvent(routingKey string, body []byte) error
}

// CartService is the stock-reservation ledger: every cart mutation adjusts
// the part's stock inside the repository's transaction, and a mutation that
// lost to a concurrent writer is retried once before surfacing a conflict.
type CartService struct {
	cartRepo  repositories.CartRepository
	publisher StockEventPublisher
}

// NewCartService creates a new CartService. publisher may be nil.
func NewCartService(cartRepo repositories.CartRepository, publisher StockEventPublisher) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		publisher: publisher,
	}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access.
func (s *CartService) GetOrCreateCart(userID string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreate(userID)
}

// AddItem reserves quantity units of a part into the user's cart.
func (s *CartService) AddItem(userID, partID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	var item *models.CartItem
	err := s.withRetry(func() error {
		var err error
		item, err = s.cartRepo.AddItem(userID, partID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishStockEvent("stock.reserved", partID, quantity)
	return item, nil
}

// UpdateItem sets a new quantity on a cart item, moving the stock delta on
// the part symmetrically.
func (s *CartService) UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	// Remember the old quantity so the emitted event carries the delta.
	oldQuantity := quantity
	if cart, err := s.cartRepo.GetOrCreate(userID); err == nil {
		for _, it := range cart.Items {
			if it.ID == itemID {
				oldQuantity = it.Quantity
				break
			}
		}
	}

	var item *models.CartItem
	err := s.withRetry(func() error {
		var err error
		item, err = s.cartRepo.UpdateItem(userID, itemID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	if delta := quantity - oldQuantity; delta != 0 {
		event := "stock.reserved"
		if delta < 0 {
			event = "stock.released"
			delta = -delta
		}
		s.publishStockEvent(event, item.PartID, delta)
	}
	return item, nil
}

// RemoveItem deletes a cart item, restoring its quantity to the part's
// stock.
func (s *CartService) RemoveItem(userID, itemID string) error {
	var partID string
	var quantity int
	err := s.withRetry(func() error {
		cart, err := s.cartRepo.GetOrCreate(userID)
		if err != nil {
			return err
		}
		for _, it := range cart.Items {
			if it.ID == itemID {
				partID, quantity = it.PartID, it.Quantity
				break
			}
		}
		return s.cartRepo.RemoveItem(userID, itemID)
	})
	if err != nil {
		return err
	}

	if partID != "" {
		s.publishStockEvent("stock.released", partID, quantity)
	}
	return nil
}

// withRetry runs a stock-adjustment once, retrying a single time when the
// failure is not one of the terminal domain errors. A second failure is
// surfaced as a conflict.
func (s *CartService) withRetry(op func() error) error {
	err := op()
	if err == nil || isTerminal(err) {
		return err
	}
	log.Printf("cart mutation conflicted, retrying once: %v", err)
	if err = op(); err == nil || isTerminal(err) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrConflict, err)
}

func isTerminal(err error) bool {
	return errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInsufficientStock)
}

func (s *CartService) publishStockEvent(routingKey, partID string, quantity int) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"part_id":  partID,
		"quantity": quantity,
	})
	if err != nil {
		log.Printf("failed to marshal stock event for part %s: %v", partID, err)
		return
	}
	if err := s.publisher.PublishStockEvent(routingKey, body); err != nil {
		// Event publication is best-effort; the reservation already
		// committed.
		log.Printf("failed to publish %s event for part %s: %v", routingKey, partID, err)
	}
}
