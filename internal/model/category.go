package model

import (
	"strings"

	"github.com/google/uuid"
)

// Category groups products. Membership is stored only on Product.CategoryID;
// Products and ProductIDs are filled on read by the repository.
type Category struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	NameKey string `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`

	Products   []Product   `gorm:"foreignKey:CategoryID" json:"products"`
	ProductIDs []uuid.UUID `gorm:"-" json:"product_ids"`
}

// CategoryNameKey is the normalized form used for case-insensitive uniqueness
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IndexProducts rebuilds ProductIDs from the loaded Products, keeping their order.
func (c *Category) IndexProducts() {
	c.ProductIDs = make([]uuid.UUID, 0, len(c.Products))
	for _, p := range c.Products {
		c.ProductIDs = append(c.ProductIDs, p.ID)
	}
}
