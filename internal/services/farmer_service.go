// internal/services/farmer_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

const (
	msgMissingFields = "Missing fields"
	msgInvalidAadhar = "Invalid Aadhar Format. Must be 12 digits."
	msgFarmerExists  = "Farmer with this Email or Aadhar already exists"
)

type FarmerService struct {
	farmers repository.FarmerRepository
	cfg     *config.Config
}

type RegisterFarmerRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	AadharNumber string `json:"aadharNumber" validate:"required,aadhar"`
	FarmName     string `json:"farmName,omitempty"`
	Location     string `json:"location,omitempty"`
	Description  string `json:"description,omitempty"`
}

type LoginFarmerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the farmer profile plus an access token.
type LoginResult struct {
	*models.Farmer
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"` // in seconds
}

// UpdateFarmerRequest changes only the fields that are present.
type UpdateFarmerRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

func NewFarmerService(farmers repository.FarmerRepository, cfg *config.Config) *FarmerService {
	return &FarmerService{
		farmers: farmers,
		cfg:     cfg,
	}
}

func (s *FarmerService) Register(ctx context.Context, req *RegisterFarmerRequest) (uuid.UUID, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.AadharNumber = strings.TrimSpace(req.AadharNumber)

	if errs := utils.GetValidationErrors(utils.ValidateStruct(req)); len(errs) > 0 {
		if utils.HasTag(errs, "required") {
			return uuid.Nil, apperr.Validation(msgMissingFields).WithKey(i18n.KeyValidationMissingFields)
		}
		if utils.HasTag(errs, "aadhar") {
			return uuid.Nil, apperr.Validation(msgInvalidAadhar).WithKey(i18n.KeyValidationInvalidAadhar)
		}
		return uuid.Nil, apperr.Validation(errs[0].Message)
	}

	_, err := s.farmers.FindByEmailOrAadhar(ctx, req.Email, req.AadharNumber)
	switch {
	case err == nil:
		return uuid.Nil, apperr.Conflict(msgFarmerExists).WithKey(i18n.KeyFarmerExists)
	case !errors.Is(err, repository.ErrNotFound):
		return uuid.Nil, apperr.Dependency("Registration failed", err).WithKey(i18n.KeyRegistrationFailed)
	}

	farmer := &models.Farmer{
		Name:         firstNonEmpty(req.FarmName, req.Name),
		Email:        req.Email,
		AadharNumber: req.AadharNumber,
		Location:     firstNonEmpty(req.Location, models.DefaultLocation),
		Description:  firstNonEmpty(req.Description, models.DefaultFarmerDescription),
		Image:        models.DefaultFarmerImageURL,
		Specialties:  pq.StringArray{},
		IsVerified:   true,
	}
	if err := farmer.SetPassword(req.Password); err != nil {
		return uuid.Nil, apperr.Dependency("Registration failed", err).WithKey(i18n.KeyRegistrationFailed)
	}

	if err := s.farmers.Create(ctx, farmer); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, apperr.Conflict(msgFarmerExists).WithKey(i18n.KeyFarmerExists)
		}
		return uuid.Nil, apperr.Dependency("Registration failed", err).WithKey(i18n.KeyRegistrationFailed)
	}

	logrus.WithFields(logrus.Fields{
		"farmer_id": farmer.ID,
		"name":      farmer.Name,
	}).Info("Farmer registered")

	return farmer.ID, nil
}

func (s *FarmerService) Login(ctx context.Context, req *LoginFarmerRequest) (*LoginResult, error) {
	farmer, err := s.farmers.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Auth().WithKey(i18n.KeyAuthInvalidCredentials)
		}
		return nil, apperr.Dependency("Login failed", err).WithKey(i18n.KeyLoginFailed)
	}

	if err := farmer.CheckPassword(req.Password); err != nil {
		return nil, apperr.Auth().WithKey(i18n.KeyAuthInvalidCredentials)
	}

	token, err := utils.GenerateJWT(farmer.ID.String(), farmer.Email, farmer.Name, utils.RoleFarmer, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Dependency("Login failed", err).WithKey(i18n.KeyLoginFailed)
	}

	return &LoginResult{
		Farmer:    farmer,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *FarmerService) List(ctx context.Context) ([]models.Farmer, error) {
	farmers, err := s.farmers.List(ctx)
	if err != nil {
		return nil, apperr.Dependency("Failed to fetch farmers", err).WithKey(i18n.KeyFarmerFetchFailed)
	}
	return farmers, nil
}

// GetByID treats a malformed id like an unknown one.
func (s *FarmerService) GetByID(ctx context.Context, rawID string) (*models.Farmer, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, farmerNotFound()
	}

	farmer, err := s.farmers.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, farmerNotFound()
		}
		return nil, apperr.Dependency("Failed to fetch farmer", err).WithKey(i18n.KeyFarmerFetchFailed)
	}
	return farmer, nil
}

// UpdateProfile lets a farmer edit their own farm profile.
func (s *FarmerService) UpdateProfile(ctx context.Context, rawID string, callerID uuid.UUID, req *UpdateFarmerRequest) (*models.Farmer, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, farmerNotFound()
	}
	if id != callerID {
		return nil, apperr.Forbidden("You can only manage your own farm").WithKey(i18n.KeyAuthForbidden)
	}
	if errs := utils.GetValidationErrors(utils.ValidateStruct(req)); len(errs) > 0 {
		return nil, apperr.Validation(errs[0].Message)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		updates["location"] = firstNonEmpty(strings.TrimSpace(*req.Location), models.DefaultLocation)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = firstNonEmpty(strings.TrimSpace(*req.Image), models.DefaultFarmerImageURL)
	}
	if req.Specialties != nil {
		updates["specialties"] = pq.StringArray(cleanList(req.Specialties))
	}

	if len(updates) > 0 {
		if err := s.farmers.Update(ctx, id, updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, farmerNotFound()
			}
			return nil, apperr.Dependency("Failed to update farmer", err)
		}
	}

	return s.GetByID(ctx, rawID)
}

func farmerNotFound() error {
	return apperr.NotFound("Farmer").WithKey(i18n.KeyFarmerNotFound)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
