// Package repository holds the persistence contracts used by services and
// their gorm-backed implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/internal/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrForeignKey = errors.New("foreign key violated")
)

type FarmerRepository interface {
	Create(ctx context.Context, farmer *models.Farmer) error
	FindByID(ctx context.Context, id uuid.UUID, withProducts bool) (*models.Farmer, error)
	FindByEmail(ctx context.Context, email string) (*models.Farmer, error)
	FindByEmailOrAadhar(ctx context.Context, email, aadhar string) (*models.Farmer, error)
	List(ctx context.Context) ([]models.Farmer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

// ProductFilter narrows List. Empty fields match everything.
type ProductFilter struct {
	Category string
	FarmerID *uuid.UUID
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepository interface {
	// Create inserts the order with its items and outbox rows atomically.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Order, error)
}

type OutboxRepository interface {
	// ClaimDue leases up to limit pending rows due at now until now+lease.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]models.EmailOutbox, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.EmailOutbox, error)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	}
	return err
}
