package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/internal/models"
)

type farmerRepository struct {
	db *gorm.DB
}

func NewFarmerRepository(db *gorm.DB) FarmerRepository {
	return &farmerRepository{db: db}
}

func (r *farmerRepository) Create(ctx context.Context, farmer *models.Farmer) error {
	return translate(r.db.WithContext(ctx).Create(farmer).Error)
}

func (r *farmerRepository) FindByID(ctx context.Context, id uuid.UUID, withProducts bool) (*models.Farmer, error) {
	query := r.db.WithContext(ctx)
	if withProducts {
		query = query.Preload("Products")
	}

	var farmer models.Farmer
	if err := query.First(&farmer, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &farmer, nil
}

func (r *farmerRepository) FindByEmail(ctx context.Context, email string) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&farmer).Error; err != nil {
		return nil, translate(err)
	}
	return &farmer, nil
}

func (r *farmerRepository) FindByEmailOrAadhar(ctx context.Context, email, aadhar string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.db.WithContext(ctx).
		Where("email = ? OR aadhar_number = ?", email, aadhar).
		First(&farmer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &farmer, nil
}

func (r *farmerRepository) List(ctx context.Context) ([]models.Farmer, error) {
	farmers := []models.Farmer{}
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Find(&farmers).Error
	return farmers, translate(err)
}

func (r *farmerRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Farmer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
