package models

import "gorm.io/gorm"

// Part represents an auto part in the catalog. StockQuantity is the number
// of units still available for reservation and must never go below zero.
type Part struct {
	ID             string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string  `json:"name" gorm:"index" validate:"required,min=2,max=100"`
	Description    string  `json:"description" validate:"omitempty,max=500"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	Currency       string  `json:"currency" gorm:"type:varchar(8)" validate:"required,len=3"`
	StockQuantity  int     `json:"stock_quantity" validate:"gte=0"`
	PartNumber     string  `json:"part_number" gorm:"type:varchar(64)" validate:"omitempty,max=64"`
	Manufacturer   string  `json:"manufacturer" validate:"omitempty,max=100"`
	CarParameterID *string `json:"car_parameter_id,omitempty" gorm:"type:varchar(36)" validate:"omitempty,uuid"`
	PhotoPath      *string `json:"photo_path,omitempty"`
	gorm.Model
}

// CarParameter is descriptive car metadata a part can be fitted against.
// Many parts may reference the same parameter set.
type CarParameter struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CarName      string `json:"car_name" gorm:"index" validate:"required,min=2,max=100"`
	Manufacturer string `json:"manufacturer" validate:"required,max=100"`
	Year         int    `json:"year" validate:"required,gte=1900,lte=2100"`
	EngineType   string `json:"engine_type" validate:"required,max=50"`
	Parts        []Part `json:"parts,omitempty" gorm:"foreignKey:CarParameterID"`
	gorm.Model
}
