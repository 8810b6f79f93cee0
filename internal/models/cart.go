package models

import "gorm.io/gorm"

// Cart holds a user's reserved items. Exactly one cart exists per user,
// created lazily on first access.
type Cart struct {
	ID     string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required,uuid"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID"`
	gorm.Model
}

// CartItem is one reserved part line in a cart. Quantity units of the part
// have already been subtracted from the part's stock.
type CartItem struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CartID   string `json:"cart_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	PartID   string `json:"part_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
	gorm.Model
}
