// Package mocks provides testify mocks of the repository and mailer contracts.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
)

type FarmerRepository struct{ mock.Mock }

func (m *FarmerRepository) Create(ctx context.Context, farmer *models.Farmer) error {
	return m.Called(ctx, farmer).Error(0)
}

func (m *FarmerRepository) FindByID(ctx context.Context, id uuid.UUID, withProducts bool) (*models.Farmer, error) {
	args := m.Called(ctx, id, withProducts)
	f, _ := args.Get(0).(*models.Farmer)
	return f, args.Error(1)
}

func (m *FarmerRepository) FindByEmail(ctx context.Context, email string) (*models.Farmer, error) {
	args := m.Called(ctx, email)
	f, _ := args.Get(0).(*models.Farmer)
	return f, args.Error(1)
}

func (m *FarmerRepository) FindByEmailOrAadhar(ctx context.Context, email, aadhar string) (*models.Farmer, error) {
	args := m.Called(ctx, email, aadhar)
	f, _ := args.Get(0).(*models.Farmer)
	return f, args.Error(1)
}

func (m *FarmerRepository) List(ctx context.Context) ([]models.Farmer, error) {
	args := m.Called(ctx)
	farmers, _ := args.Get(0).([]models.Farmer)
	return farmers, args.Error(1)
}

func (m *FarmerRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

type ProductRepository struct{ mock.Mock }

func (m *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, farmerID)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

type OutboxRepository struct{ mock.Mock }

func (m *OutboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]models.EmailOutbox, error) {
	args := m.Called(ctx, now, lease, limit)
	rows, _ := args.Get(0).([]models.EmailOutbox)
	return rows, args.Error(1)
}

func (m *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *OutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	return m.Called(ctx, id, attempts, next, lastErr).Error(0)
}

func (m *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return m.Called(ctx, id, attempts, lastErr).Error(0)
}

func (m *OutboxRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.EmailOutbox, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]models.EmailOutbox)
	return rows, args.Error(1)
}

var (
	_ repository.FarmerRepository  = (*FarmerRepository)(nil)
	_ repository.ProductRepository = (*ProductRepository)(nil)
	_ repository.OrderRepository   = (*OrderRepository)(nil)
	_ repository.OutboxRepository  = (*OutboxRepository)(nil)
)
