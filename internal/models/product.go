// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Unit        string          `json:"unit" gorm:"size:50"`
	Category    string          `json:"category" gorm:"size:100;index"`
	Description string          `json:"description" gorm:"type:text"`
	Stock       int             `json:"stock" gorm:"not null"`
	Image       string          `json:"image" gorm:"type:text"`
	Location    string          `json:"location" gorm:"size:255"`
	FarmerID    uuid.UUID       `json:"farmerId" gorm:"type:uuid;not null;index"`

	// Computed from the owning farmer, never stored.
	FarmerName string `json:"farmerName,omitempty" gorm:"-"`

	// Relationships
	Farmer *Farmer `json:"-" gorm:"foreignKey:FarmerID"`
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.FillFarmerName()
	return nil
}

func (p *Product) FillFarmerName() {
	if p.Farmer != nil {
		p.FarmerName = p.Farmer.Name
	}
}
