package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/mocks"
	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:      config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 24, CustomerTTL: 12},
		Checkout: config.CheckoutConfig{DeliveryFee: 50, CurrencySymbol: "₹"},
		Outbox:   config.OutboxConfig{BatchSize: 10, MaxAttempts: 3},
	}
}

type FarmerServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	farmers *mocks.FarmerRepository
	service *FarmerService
}

func (suite *FarmerServiceTestSuite) SetupTest() {
	utils.SetJWTSecret("test-secret")
	suite.ctx = context.Background()
	suite.farmers = new(mocks.FarmerRepository)
	suite.service = NewFarmerService(suite.farmers, testConfig())
}

func (suite *FarmerServiceTestSuite) validRequest() *RegisterFarmerRequest {
	return &RegisterFarmerRequest{
		Name:         "Ravi Kumar",
		Email:        "ravi@example.com",
		Password:     "harvest",
		AadharNumber: "123456789012",
	}
}

func (suite *FarmerServiceTestSuite) TestRegisterAppliesDefaults() {
	suite.farmers.On("FindByEmailOrAadhar", suite.ctx, "ravi@example.com", "123456789012").Return(nil, repository.ErrNotFound)

	var created *models.Farmer
	suite.farmers.On("Create", suite.ctx, mock.AnythingOfType("*models.Farmer")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Farmer)
			created.ID = uuid.New()
		}).Return(nil)

	id, err := suite.service.Register(suite.ctx, suite.validRequest())
	suite.Require().NoError(err)
	suite.Equal(created.ID, id)

	suite.Equal("Ravi Kumar", created.Name)
	suite.Equal(models.DefaultLocation, created.Location)
	suite.Equal(models.DefaultFarmerDescription, created.Description)
	suite.Equal(models.DefaultFarmerImageURL, created.Image)
	suite.Empty(created.Specialties)
	suite.True(created.IsVerified)
	suite.NotEqual("harvest", created.Password)
	suite.NoError(created.CheckPassword("harvest"))
}

func (suite *FarmerServiceTestSuite) TestRegisterPrefersFarmName() {
	req := suite.validRequest()
	req.FarmName = "Green Acres"
	req.Location = "Mysuru"

	suite.farmers.On("FindByEmailOrAadhar", suite.ctx, mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	suite.farmers.On("Create", suite.ctx, mock.MatchedBy(func(f *models.Farmer) bool {
		return f.Name == "Green Acres" && f.Location == "Mysuru"
	})).Return(nil)

	_, err := suite.service.Register(suite.ctx, req)
	suite.NoError(err)
	suite.farmers.AssertExpectations(suite.T())
}

func (suite *FarmerServiceTestSuite) TestRegisterMissingFields() {
	for _, mutate := range []func(*RegisterFarmerRequest){
		func(r *RegisterFarmerRequest) { r.Name = "" },
		func(r *RegisterFarmerRequest) { r.Email = "  " },
		func(r *RegisterFarmerRequest) { r.Password = "" },
		func(r *RegisterFarmerRequest) { r.AadharNumber = "" },
	} {
		req := suite.validRequest()
		mutate(req)

		_, err := suite.service.Register(suite.ctx, req)
		suite.True(apperr.Is(err, apperr.KindValidation))
		suite.Equal("Missing fields", apperr.MessageOf(err))
	}
	suite.farmers.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *FarmerServiceTestSuite) TestRegisterRejectsBadAadhar() {
	for _, aadhar := range []string{"12345678901", "1234567890123", "12345678901x", "1234 5678 9012"} {
		req := suite.validRequest()
		req.AadharNumber = aadhar

		_, err := suite.service.Register(suite.ctx, req)
		suite.True(apperr.Is(err, apperr.KindValidation), aadhar)
		suite.Equal("Invalid Aadhar Format. Must be 12 digits.", apperr.MessageOf(err))
	}
}

func (suite *FarmerServiceTestSuite) TestRegisterRejectsMalformedEmail() {
	for _, email := range []string{"ravi", "ravi@", "@example.com"} {
		req := suite.validRequest()
		req.Email = email

		_, err := suite.service.Register(suite.ctx, req)
		suite.True(apperr.Is(err, apperr.KindValidation), email)
		suite.Equal("Invalid email format", apperr.MessageOf(err))
	}
	suite.farmers.AssertNotCalled(suite.T(), "FindByEmailOrAadhar", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FarmerServiceTestSuite) TestRegisterDuplicate() {
	suite.farmers.On("FindByEmailOrAadhar", suite.ctx, mock.Anything, mock.Anything).Return(&models.Farmer{}, nil)

	_, err := suite.service.Register(suite.ctx, suite.validRequest())
	suite.True(apperr.Is(err, apperr.KindConflict))
	suite.Equal("Farmer with this Email or Aadhar already exists", apperr.MessageOf(err))
}

func (suite *FarmerServiceTestSuite) TestRegisterDuplicateRace() {
	suite.farmers.On("FindByEmailOrAadhar", suite.ctx, mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	suite.farmers.On("Create", suite.ctx, mock.Anything).Return(repository.ErrDuplicate)

	_, err := suite.service.Register(suite.ctx, suite.validRequest())
	suite.True(apperr.Is(err, apperr.KindConflict))
}

func (suite *FarmerServiceTestSuite) TestRegisterStoreFailure() {
	suite.farmers.On("FindByEmailOrAadhar", suite.ctx, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := suite.service.Register(suite.ctx, suite.validRequest())
	suite.True(apperr.Is(err, apperr.KindDependency))
	suite.NotContains(apperr.MessageOf(err), "connection reset")
}

func (suite *FarmerServiceTestSuite) TestLoginIssuesToken() {
	farmer := &models.Farmer{Email: "ravi@example.com", Name: "Green Acres"}
	farmer.ID = uuid.New()
	suite.Require().NoError(farmer.SetPassword("harvest"))
	suite.farmers.On("FindByEmail", suite.ctx, "ravi@example.com").Return(farmer, nil)

	result, err := suite.service.Login(suite.ctx, &LoginFarmerRequest{Email: "ravi@example.com", Password: "harvest"})
	suite.Require().NoError(err)
	suite.Equal(farmer.ID, result.ID)

	claims, err := utils.ValidateJWT(result.Token)
	suite.Require().NoError(err)
	suite.Equal(farmer.ID.String(), claims.Subject)
	suite.Equal(utils.RoleFarmer, claims.Role)
}

func (suite *FarmerServiceTestSuite) TestLoginFailuresAreIndistinguishable() {
	farmer := &models.Farmer{Email: "ravi@example.com"}
	suite.Require().NoError(farmer.SetPassword("harvest"))
	suite.farmers.On("FindByEmail", suite.ctx, "ravi@example.com").Return(farmer, nil)
	suite.farmers.On("FindByEmail", suite.ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)

	_, wrongPassword := suite.service.Login(suite.ctx, &LoginFarmerRequest{Email: "ravi@example.com", Password: "nope"})
	_, unknownEmail := suite.service.Login(suite.ctx, &LoginFarmerRequest{Email: "nobody@example.com", Password: "harvest"})

	suite.True(apperr.Is(wrongPassword, apperr.KindAuth))
	suite.Equal(wrongPassword.Error(), unknownEmail.Error())
	suite.Equal(apperr.KindOf(wrongPassword), apperr.KindOf(unknownEmail))
	suite.Equal("Invalid credentials", apperr.MessageOf(unknownEmail))
}

func (suite *FarmerServiceTestSuite) TestGetByIDNotFound() {
	_, err := suite.service.GetByID(suite.ctx, "not-a-uuid")
	suite.True(apperr.Is(err, apperr.KindNotFound))

	id := uuid.New()
	suite.farmers.On("FindByID", suite.ctx, id, true).Return(nil, repository.ErrNotFound)
	_, err = suite.service.GetByID(suite.ctx, id.String())
	suite.True(apperr.Is(err, apperr.KindNotFound))
	suite.Equal("Farmer not found", apperr.MessageOf(err))
}

func (suite *FarmerServiceTestSuite) TestUpdateProfileOwnership() {
	id := uuid.New()

	_, err := suite.service.UpdateProfile(suite.ctx, id.String(), uuid.New(), &UpdateFarmerRequest{})
	suite.True(apperr.Is(err, apperr.KindForbidden))
	suite.farmers.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FarmerServiceTestSuite) TestUpdateProfile() {
	id := uuid.New()
	location := "Hassan"
	suite.farmers.On("Update", suite.ctx, id, mock.MatchedBy(func(u map[string]interface{}) bool {
		specialties, ok := u["specialties"].(pq.StringArray)
		return ok && u["location"] == "Hassan" &&
			len(specialties) == 2 && specialties[0] == "Mangoes" && specialties[1] == "Coconut"
	})).Return(nil)
	suite.farmers.On("FindByID", suite.ctx, id, true).Return(&models.Farmer{Location: "Hassan"}, nil)

	farmer, err := suite.service.UpdateProfile(suite.ctx, id.String(), id, &UpdateFarmerRequest{
		Location:    &location,
		Specialties: []string{"Mangoes", " Mangoes ", "", "Coconut"},
	})
	suite.Require().NoError(err)
	suite.Equal("Hassan", farmer.Location)
	suite.farmers.AssertExpectations(suite.T())
}

func TestFarmerServiceSuite(t *testing.T) {
	suite.Run(t, new(FarmerServiceTestSuite))
}
