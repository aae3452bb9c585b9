package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/internal/models"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Farmer").Create(product).Error; err != nil {
		return translate(err)
	}
	// Reload so the caller gets the owning farmer's name.
	return translate(db.Preload("Farmer").First(product, "id = ?", product.ID).Error)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Farmer").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Preload("Farmer").Where("id IN ?", ids).Find(&products).Error
	return products, translate(err)
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Preload("Farmer")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FarmerID != nil {
		query = query.Where("farmer_id = ?", *filter.FarmerID)
	}

	products := []models.Product{}
	err := query.Order("created_at ASC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}

	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
