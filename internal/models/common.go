// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Storefront clients read money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base model with common fields. Rows are hard-deleted; nothing here is soft-deleted.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the id client-side so callers can reference it before commit.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Defaults applied when optional fields are omitted.
const (
	DefaultLocation          = "Unknown"
	DefaultFarmerDescription = "New verified local farmer."
	DefaultFarmerImageURL    = "https://images.unsplash.com/photo-1654526645468-9ae1cde48fe2?q=80&w=1080&auto=format&fit=crop"
	DefaultProductImageURL   = "https://images.unsplash.com/photo-1717959159782-98c42b1d4f37?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&ixid=M3w3Nzg4Nzd8MHwxfHNlYXJjaHwxfHxmcmVzaCUyMHZlZ2V0YWJsZXMlMjBmYXJtfGVufDF8fHx8MTc2NzU5NjM3Nnww&ixlib=rb-4.1.0&q=80&w=1080"
	CategoryAll              = "All"
)

type OutboxKind string

const (
	OutboxKindFarmerNewOrder       OutboxKind = "farmer_new_order"
	OutboxKindCustomerConfirmation OutboxKind = "customer_confirmation"
)

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)
