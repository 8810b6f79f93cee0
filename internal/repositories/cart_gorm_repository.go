package repositories

import (
	"errors"
	"fmt"

	"partspicker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository. Every item
// mutation runs inside a transaction that locks the affected part row
// (SELECT ... FOR UPDATE), so two requests touching the same part are
// serialized by the database.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreate returns the user's cart with items preloaded, creating an
// empty cart on first access.
func (r *GORMCartRepository) GetOrCreate(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return getOrCreateCartTx(tx, userID, &cart)
	})
	if err != nil {
		return nil, err
	}
	if err := r.db.Preload("Items").First(&cart, "id = ?", cart.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", cart.ID, err)
	}
	return &cart, nil
}

// getOrCreateCartTx looks up the user's cart inside tx, creating it when
// absent. A concurrent insert on the unique user_id column is retried as a
// plain lookup.
func getOrCreateCartTx(tx *gorm.DB, userID string, cart *models.Cart) error {
	err := tx.First(cart, "user_id = ?", userID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	*cart = models.Cart{ID: uuid.New().String(), UserID: userID}
	if createErr := tx.Create(cart).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return tx.First(cart, "user_id = ?", userID).Error
		}
		return fmt.Errorf("failed to create cart for user %s: %w", userID, createErr)
	}
	return nil
}

// lockPartTx fetches the part row under a FOR UPDATE lock.
func lockPartTx(tx *gorm.DB, partID string, part *models.Part) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(part, "id = ?", partID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("part with ID %s: %w", partID, models.ErrNotFound)
	}
	return err
}

// ownedItemTx fetches a cart item and verifies it belongs to the user's
// cart. Foreign items are reported as not found, not as forbidden, so the
// response does not confirm the item exists.
func ownedItemTx(tx *gorm.DB, userID, itemID string, item *models.CartItem) error {
	if err := tx.First(item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item with ID %s: %w", itemID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	var cart models.Cart
	if err := tx.First(&cart, "id = ?", item.CartID).Error; err != nil {
		return fmt.Errorf("failed to get cart %s: %w", item.CartID, err)
	}
	if cart.UserID != userID {
		return fmt.Errorf("cart item with ID %s: %w", itemID, models.ErrNotFound)
	}
	return nil
}

// AddItem reserves stock for the part and upserts the cart item in one
// transaction.
func (r *GORMCartRepository) AddItem(userID, partID string, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := getOrCreateCartTx(tx, userID, &cart); err != nil {
			return err
		}

		var part models.Part
		if err := lockPartTx(tx, partID, &part); err != nil {
			return err
		}
		if part.StockQuantity < quantity {
			return fmt.Errorf("part %s has %d in stock, requested %d: %w",
				partID, part.StockQuantity, quantity, models.ErrInsufficientStock)
		}
		if err := tx.Model(&models.Part{}).Where("id = ?", partID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity)).Error; err != nil {
			return fmt.Errorf("failed to reserve stock for part %s: %w", partID, err)
		}

		err := tx.First(&item, "cart_id = ? AND part_id = ?", cart.ID, partID).Error
		switch {
		case err == nil:
			item.Quantity += quantity
			return tx.Model(&item).Update("quantity", item.Quantity).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				ID:       uuid.New().String(),
				CartID:   cart.ID,
				PartID:   partID,
				Quantity: quantity,
			}
			return tx.Create(&item).Error
		default:
			return fmt.Errorf("failed to get cart item: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem sets a new quantity on the item and applies the stock delta to
// the part symmetrically in one transaction.
func (r *GORMCartRepository) UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ownedItemTx(tx, userID, itemID, &item); err != nil {
			return err
		}

		var part models.Part
		if err := lockPartTx(tx, item.PartID, &part); err != nil {
			return err
		}

		delta := quantity - item.Quantity
		if delta > 0 && part.StockQuantity < delta {
			return fmt.Errorf("part %s has %d in stock, increase needs %d: %w",
				item.PartID, part.StockQuantity, delta, models.ErrInsufficientStock)
		}
		if err := tx.Model(&models.Part{}).Where("id = ?", item.PartID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", delta)).Error; err != nil {
			return fmt.Errorf("failed to adjust stock for part %s: %w", item.PartID, err)
		}

		item.Quantity = quantity
		return tx.Model(&item).Update("quantity", quantity).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes the item and restores its quantity to the part's stock
// in one transaction.
func (r *GORMCartRepository) RemoveItem(userID, itemID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := ownedItemTx(tx, userID, itemID, &item); err != nil {
			return err
		}

		var part models.Part
		if err := lockPartTx(tx, item.PartID, &part); err != nil {
			return err
		}
		if err := tx.Model(&models.Part{}).Where("id = ?", item.PartID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
			return fmt.Errorf("failed to restore stock for part %s: %w", item.PartID, err)
		}
		return tx.Unscoped().Delete(&item).Error
	})
}
