// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type ProductService struct {
	products repository.ProductRepository
	farmers  repository.FarmerRepository
}

type CreateProductRequest struct {
	Name        string            `json:"name" validate:"required,max=255"`
	Price       utils.FlexDecimal `json:"price"`
	Unit        string            `json:"unit" validate:"max=50"`
	Category    string            `json:"category" validate:"max=100"`
	Description string            `json:"description"`
	Stock       utils.FlexInt     `json:"stock"`
	Image       string            `json:"image,omitempty"`
	Location    string            `json:"location,omitempty"`
	FarmerID    string            `json:"farmerId,omitempty"`
}

// UpdateProductRequest changes only the fields that are present.
type UpdateProductRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Price       utils.FlexDecimal `json:"price"`
	Unit        *string           `json:"unit,omitempty" validate:"omitempty,max=50"`
	Category    *string           `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string           `json:"description,omitempty"`
	Stock       utils.FlexInt     `json:"stock"`
	Image       *string           `json:"image,omitempty"`
	Location    *string           `json:"location,omitempty" validate:"omitempty,max=255"`
}

// ProductQuery is the public listing filter. An empty or "All" category
// matches everything.
type ProductQuery struct {
	Category string
	FarmerID string
}

func NewProductService(products repository.ProductRepository, farmers repository.FarmerRepository) *ProductService {
	return &ProductService{
		products: products,
		farmers:  farmers,
	}
}

// Create adds a product for callerID when a farmer token was presented,
// otherwise for the body's farmerId.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest, callerID *uuid.UUID) (*models.Product, error) {
	if errs := utils.GetValidationErrors(utils.ValidateStruct(req)); len(errs) > 0 {
		return nil, apperr.Validation(errs[0].Message)
	}
	if !req.Price.Set {
		return nil, apperr.Validation("price is required")
	}
	if err := checkAmounts(req.Price, req.Stock); err != nil {
		return nil, err
	}

	farmerID, err := s.resolveOwner(req.FarmerID, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.farmers.FindByID(ctx, farmerID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("Farmer does not exist").WithKey(i18n.KeyValidationUnknownFarmer)
		}
		return nil, apperr.Dependency("Failed to create product", err).WithKey(i18n.KeyProductCreateFailed)
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price.Value.Round(2),
		Unit:        req.Unit,
		Category:    req.Category,
		Description: req.Description,
		Stock:       req.Stock.Value,
		Image:       firstNonEmpty(req.Image, models.DefaultProductImageURL),
		Location:    firstNonEmpty(req.Location, models.DefaultLocation),
		FarmerID:    farmerID,
	}

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.Validation("Farmer does not exist").WithKey(i18n.KeyValidationUnknownFarmer)
		}
		return nil, apperr.Dependency("Failed to create product", err).WithKey(i18n.KeyProductCreateFailed)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"farmer_id":  farmerID,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) List(ctx context.Context, query ProductQuery) ([]models.Product, error) {
	filter := repository.ProductFilter{}
	if query.Category != "" && query.Category != models.CategoryAll {
		filter.Category = query.Category
	}
	if query.FarmerID != "" {
		id, err := uuid.Parse(query.FarmerID)
		if err != nil {
			// No farmer has a malformed id.
			return []models.Product{}, nil
		}
		filter.FarmerID = &id
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("Failed to fetch products", err).WithKey(i18n.KeyProductFetchFailed)
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, rawID string, req *UpdateProductRequest, callerID *uuid.UUID) (*models.Product, error) {
	product, err := s.findOwned(ctx, rawID, callerID)
	if err != nil {
		return nil, err
	}
	if errs := utils.GetValidationErrors(utils.ValidateStruct(req)); len(errs) > 0 {
		return nil, apperr.Validation(errs[0].Message)
	}
	if err := checkAmounts(req.Price, req.Stock); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price.Set {
		updates["price"] = req.Price.Value.Round(2)
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Stock.Set {
		updates["stock"] = req.Stock.Value
	}
	if req.Image != nil {
		updates["image"] = firstNonEmpty(*req.Image, models.DefaultProductImageURL)
	}
	if req.Location != nil {
		updates["location"] = firstNonEmpty(*req.Location, models.DefaultLocation)
	}

	if err := s.products.Update(ctx, product.ID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, apperr.Dependency("Failed to update product", err).WithKey(i18n.KeyProductUpdateFailed)
	}

	updated, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, apperr.Dependency("Failed to update product", err).WithKey(i18n.KeyProductUpdateFailed)
	}
	return updated, nil
}

// Delete removes the product. Order items keep their own snapshot.
func (s *ProductService) Delete(ctx context.Context, rawID string, callerID *uuid.UUID) error {
	product, err := s.findOwned(ctx, rawID, callerID)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return productNotFound()
		}
		return apperr.Dependency("Failed to delete product", err).WithKey(i18n.KeyProductDeleteFailed)
	}

	logrus.WithField("product_id", product.ID).Info("Product deleted")
	return nil
}

func (s *ProductService) findOwned(ctx context.Context, rawID string, callerID *uuid.UUID) (*models.Product, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, productNotFound()
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, apperr.Dependency("Failed to fetch products", err).WithKey(i18n.KeyProductFetchFailed)
	}

	if callerID != nil && product.FarmerID != *callerID {
		return nil, apperr.Forbidden("You can only manage your own farm").WithKey(i18n.KeyAuthForbidden)
	}
	return product, nil
}

func (s *ProductService) resolveOwner(bodyFarmerID string, callerID *uuid.UUID) (uuid.UUID, error) {
	if callerID != nil {
		if bodyFarmerID != "" && bodyFarmerID != callerID.String() {
			return uuid.Nil, apperr.Forbidden("You can only manage your own farm").WithKey(i18n.KeyAuthForbidden)
		}
		return *callerID, nil
	}

	if strings.TrimSpace(bodyFarmerID) == "" {
		return uuid.Nil, apperr.Validation("farmerId is required")
	}
	id, err := uuid.Parse(bodyFarmerID)
	if err != nil {
		return uuid.Nil, apperr.Validation("Farmer does not exist").WithKey(i18n.KeyValidationUnknownFarmer)
	}
	return id, nil
}

func checkAmounts(price utils.FlexDecimal, stock utils.FlexInt) error {
	if price.Set && price.Value.IsNegative() {
		return apperr.Validation("price must be at least 0")
	}
	if stock.Set && stock.Value < 0 {
		return apperr.Validation("stock must be at least 0")
	}
	return nil
}

func productNotFound() error {
	return apperr.NotFound("Product").WithKey(i18n.KeyProductNotFound)
}
