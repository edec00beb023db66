package model

import "github.com/google/uuid"

// DefaultProductQuantity applies when a product is created without a quantity
const DefaultProductQuantity = 1

type Product struct {
	BaseModel
	Name        string     `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `gorm:"type:text" json:"image"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
}
