package model

import "github.com/google/uuid"

type Operation string

const (
	OpReceive    Operation = "Receive"
	OpDistribute Operation = "Distribute"
)

// Transaction is an append-only stock movement. Each line carries its own
// quantity; Unit multiplies every line (e.g. kg per package).
type Transaction struct {
	BaseModel
	Operation Operation         `gorm:"type:varchar(20);not null;index" json:"operation"`
	Lines     []TransactionLine `gorm:"foreignKey:TransactionID" json:"products"`
	Unit      float64           `gorm:"not null" json:"unit"`
	Purpose   string            `gorm:"type:varchar(255)" json:"purpose"`
	BatchSize int               `gorm:"not null;default:0" json:"batch_size"`
}

type TransactionLine struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity"`
}
