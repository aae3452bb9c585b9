// internal/models/outbox.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailOutbox is one rendered email waiting for (or done with) delivery.
type EmailOutbox struct {
	BaseModel
	OrderID       uuid.UUID    `json:"orderId" gorm:"type:uuid;not null;index"`
	Kind          OutboxKind   `json:"kind" gorm:"type:varchar(40);not null"`
	Recipient     string       `json:"recipient" gorm:"size:255;not null"`
	RecipientName string       `json:"recipientName" gorm:"size:255"`
	Subject       string       `json:"subject" gorm:"size:255;not null"`
	HTMLBody      string       `json:"-" gorm:"type:text;not null"`
	Status        OutboxStatus `json:"status" gorm:"type:varchar(20);not null;index:idx_email_outbox_due,priority:1"`
	Attempts      int          `json:"attempts" gorm:"not null"`
	NextAttemptAt time.Time    `json:"nextAttemptAt" gorm:"not null;index:idx_email_outbox_due,priority:2"`
	LastError     string       `json:"lastError,omitempty" gorm:"type:text"`
	SentAt        *time.Time   `json:"sentAt,omitempty"`
}

func (EmailOutbox) TableName() string {
	return "email_outbox"
}
