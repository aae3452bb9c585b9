package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/internal/database"
	"github.com/farmdirect/farmdirect-backend/internal/models"
)

// RepositoryTestSuite runs against a throwaway postgres container.
type RepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	db        *gorm.DB

	farmers  FarmerRepository
	products ProductRepository
	orders   OrderRepository
	outbox   OutboxRepository
}

func (suite *RepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("skipping postgres integration tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(suite.T())
	suite.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "farmdirect",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(suite.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		suite.T().Skipf("postgres container unavailable: %v", err)
	}
	suite.container = container

	host, err := container.Host(suite.ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(suite.ctx, "5432")
	suite.Require().NoError(err)

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=farmdirect sslmode=disable", host, port.Port())
	suite.db, err = gorm.Open(postgres.Open(dsn), database.GormConfig("silent"))
	suite.Require().NoError(err)
	suite.Require().NoError(database.RunMigrations(suite.db))

	suite.farmers = NewFarmerRepository(suite.db)
	suite.products = NewProductRepository(suite.db)
	suite.orders = NewOrderRepository(suite.db)
	suite.outbox = NewOutboxRepository(suite.db)
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	if suite.db != nil {
		database.Close(suite.db)
	}
	if suite.container != nil {
		if err := suite.container.Terminate(suite.ctx); err != nil {
			suite.T().Logf("Failed to terminate container: %v", err)
		}
	}
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.Require().NoError(database.ResetCatalog(suite.db, true))
}

func (suite *RepositoryTestSuite) createFarmer(email, aadhar string) *models.Farmer {
	farmer := &models.Farmer{Name: "Farm " + email, Email: email, Password: "hash", AadharNumber: aadhar}
	suite.Require().NoError(suite.farmers.Create(suite.ctx, farmer))
	return farmer
}

func (suite *RepositoryTestSuite) createProduct(farmer *models.Farmer, name, category string, price int64) *models.Product {
	product := &models.Product{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Unit:     "kg",
		Category: category,
		Stock:    1,
		FarmerID: farmer.ID,
	}
	suite.Require().NoError(suite.products.Create(suite.ctx, product))
	return product
}

func (suite *RepositoryTestSuite) newOrder(products ...*models.Product) *models.Order {
	order := &models.Order{
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 Market Road",
		DeliveryFee:     decimal.NewFromInt(50),
	}
	order.ID = uuid.New()
	subtotal := decimal.Zero
	for _, p := range products {
		item := models.OrderItem{OrderID: order.ID, ProductID: p.ID, ProductName: p.Name, FarmerID: p.FarmerID, Quantity: 1, Price: p.Price}
		order.Items = append(order.Items, item)
		subtotal = subtotal.Add(item.LineTotal())
	}
	order.Subtotal = subtotal
	order.TotalAmount = subtotal.Add(order.DeliveryFee)
	order.Outbox = []models.EmailOutbox{{
		OrderID:       order.ID,
		Kind:          models.OutboxKindCustomerConfirmation,
		Recipient:     order.CustomerEmail,
		Subject:       "Order Confirmed",
		HTMLBody:      "<p>thanks</p>",
		Status:        models.OutboxStatusPending,
		NextAttemptAt: time.Now().Add(-time.Second),
	}}
	return order
}

func (suite *RepositoryTestSuite) TestDuplicateEmailOrAadhar() {
	suite.createFarmer("ravi@example.com", "123456789012")

	err := suite.farmers.Create(suite.ctx, &models.Farmer{Name: "x", Email: "ravi@example.com", Password: "h", AadharNumber: "999999999999"})
	suite.ErrorIs(err, ErrDuplicate)

	err = suite.farmers.Create(suite.ctx, &models.Farmer{Name: "x", Email: "other@example.com", Password: "h", AadharNumber: "123456789012"})
	suite.ErrorIs(err, ErrDuplicate)

	found, err := suite.farmers.FindByEmailOrAadhar(suite.ctx, "nobody@example.com", "123456789012")
	suite.Require().NoError(err)
	suite.Equal("ravi@example.com", found.Email)
}

func (suite *RepositoryTestSuite) TestProductCarriesFarmerName() {
	farmer := suite.createFarmer("ravi@example.com", "123456789012")
	product := suite.createProduct(farmer, "Tomatoes", "Vegetables", 40)

	suite.Equal(farmer.Name, product.FarmerName)

	listed, err := suite.products.List(suite.ctx, ProductFilter{Category: "Vegetables"})
	suite.Require().NoError(err)
	suite.Require().Len(listed, 1)
	suite.Equal(farmer.Name, listed[0].FarmerName)

	none, err := suite.products.List(suite.ctx, ProductFilter{Category: "Electronics"})
	suite.Require().NoError(err)
	suite.Empty(none)
	suite.NotNil(none)
}

func (suite *RepositoryTestSuite) TestUnknownFarmerIsForeignKey() {
	err := suite.products.Create(suite.ctx, &models.Product{Name: "Ghost", Price: decimal.NewFromInt(1), FarmerID: uuid.New()})
	suite.ErrorIs(err, ErrForeignKey)
}

func (suite *RepositoryTestSuite) TestDeletingOrderedProductKeepsHistory() {
	farmer := suite.createFarmer("ravi@example.com", "123456789012")
	product := suite.createProduct(farmer, "Tomatoes", "Vegetables", 40)

	order := suite.newOrder(product)
	suite.Require().NoError(suite.orders.Create(suite.ctx, order))
	suite.Require().NoError(suite.products.Delete(suite.ctx, product.ID))

	stored, err := suite.orders.FindByID(suite.ctx, order.ID)
	suite.Require().NoError(err)
	suite.Require().Len(stored.Items, 1)
	suite.Equal(product.ID, stored.Items[0].ProductID)
	suite.Equal("Tomatoes", stored.Items[0].ProductName)
	suite.True(decimal.NewFromInt(40).Equal(stored.Items[0].Price))
	suite.Nil(stored.Items[0].Product)
}

func (suite *RepositoryTestSuite) TestListByFarmerTrimsLines() {
	a := suite.createFarmer("a@example.com", "111111111111")
	b := suite.createFarmer("b@example.com", "222222222222")
	pa := suite.createProduct(a, "Okra", "Vegetables", 30)
	pb := suite.createProduct(b, "Milk", "Dairy", 60)

	suite.Require().NoError(suite.orders.Create(suite.ctx, suite.newOrder(pa, pb)))
	suite.Require().NoError(suite.orders.Create(suite.ctx, suite.newOrder(pb)))

	orders, err := suite.orders.ListByFarmer(suite.ctx, a.ID)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Require().Len(orders[0].Items, 1)
	suite.Equal(pa.ID, orders[0].Items[0].ProductID)
}

func (suite *RepositoryTestSuite) TestConcurrentOrdersForLastUnit() {
	farmer := suite.createFarmer("ravi@example.com", "123456789012")
	product := suite.createProduct(farmer, "Tomatoes", "Vegetables", 40)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = suite.orders.Create(suite.ctx, suite.newOrder(product))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		suite.NoError(err)
	}
	all, err := suite.orders.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *RepositoryTestSuite) TestClaimDueLeasesRows() {
	farmer := suite.createFarmer("ravi@example.com", "123456789012")
	product := suite.createProduct(farmer, "Tomatoes", "Vegetables", 40)
	order := suite.newOrder(product)
	suite.Require().NoError(suite.orders.Create(suite.ctx, order))

	now := time.Now()
	claimed, err := suite.outbox.ClaimDue(suite.ctx, now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 1)

	again, err := suite.outbox.ClaimDue(suite.ctx, now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Empty(again)

	suite.Require().NoError(suite.outbox.MarkSent(suite.ctx, claimed[0].ID, now))
	rows, err := suite.outbox.ListByOrder(suite.ctx, order.ID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(models.OutboxStatusSent, rows[0].Status)
	suite.Equal(1, rows[0].Attempts)
	suite.NotNil(rows[0].SentAt)
}

func (suite *RepositoryTestSuite) TestMarkFailedStopsClaims() {
	farmer := suite.createFarmer("ravi@example.com", "123456789012")
	product := suite.createProduct(farmer, "Tomatoes", "Vegetables", 40)
	order := suite.newOrder(product)
	suite.Require().NoError(suite.orders.Create(suite.ctx, order))

	rows, err := suite.outbox.ListByOrder(suite.ctx, order.ID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.outbox.MarkFailed(suite.ctx, rows[0].ID, 3, "smtp: 550"))

	claimed, err := suite.outbox.ClaimDue(suite.ctx, time.Now().Add(time.Hour), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Empty(claimed)

	suite.ErrorIs(suite.outbox.MarkSent(suite.ctx, uuid.New(), time.Now()), ErrNotFound)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
