// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	CustomerName    string          `json:"customerName" gorm:"size:255;not null"`
	CustomerEmail   string          `json:"customerEmail" gorm:"size:255;not null;index"`
	CustomerPhone   string          `json:"customerPhone" gorm:"size:20;not null"`
	DeliveryAddress string          `json:"deliveryAddress" gorm:"type:text;not null"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee" gorm:"type:decimal(10,2);not null"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`

	// ClientTotal is what the storefront claimed; pricing never reads it.
	ClientTotal decimal.NullDecimal `json:"-" gorm:"type:decimal(12,2)"`

	// Relationships
	Items  []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	Outbox []EmailOutbox `json:"-" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots product name, farmer and price so history survives
// product edits and deletion. product_id carries no foreign key.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID       `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	ProductName string          `json:"productName" gorm:"size:255;not null"`
	FarmerID    uuid.UUID       `json:"farmerId" gorm:"type:uuid;not null;index"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
