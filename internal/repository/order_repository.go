package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/internal/database"
	"github.com/farmdirect/farmdirect-backend/internal/models"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		// Items and Outbox are inserted as associations. Items carry only a
		// ProductID, so no product row is upserted.
		return tx.Create(order).Error
	}))
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err)
}

// ListByFarmer returns orders containing the farmer's items, each carrying
// only that farmer's lines.
func (r *orderRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("farmer_id = ?", farmerID).Order("created_at ASC")
		}).
		Preload("Items.Product").
		Where("id IN (?)", r.db.Model(&models.OrderItem{}).Select("order_id").Where("farmer_id = ?", farmerID)).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err)
}
