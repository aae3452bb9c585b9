package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/mocks"
	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type countingWaker struct {
	mu    sync.Mutex
	count int
}

func (w *countingWaker) Wake() {
	w.mu.Lock()
	w.count++
	w.mu.Unlock()
}

type OrderServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	orders   *mocks.OrderRepository
	products *mocks.ProductRepository
	waker    *countingWaker
	service  *OrderService

	greenAcres models.Farmer
	hillFarm   models.Farmer
	tomato     models.Product
	okra       models.Product
	mango      models.Product
}

func newProduct(name, price string, farmer *models.Farmer) models.Product {
	p := models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: 1, FarmerID: farmer.ID, Farmer: farmer}
	p.ID = uuid.New()
	p.FillFarmerName()
	return p
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.orders = new(mocks.OrderRepository)
	suite.products = new(mocks.ProductRepository)
	suite.waker = &countingWaker{}

	cfg := testConfig()
	notifications := NewNotificationService(&mocks.RecordingMailer{}, cfg)
	suite.service = NewOrderService(suite.orders, suite.products, notifications, suite.waker, cfg)
	suite.service.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	suite.greenAcres = models.Farmer{Name: "Green Acres", Email: "green@example.com"}
	suite.greenAcres.ID = uuid.New()
	suite.hillFarm = models.Farmer{Name: "Hill Farm", Email: "hill@example.com"}
	suite.hillFarm.ID = uuid.New()

	suite.tomato = newProduct("Tomato", "40", &suite.greenAcres)
	suite.okra = newProduct("Okra", "30", &suite.hillFarm)
	suite.mango = newProduct("Mango", "120.50", &suite.greenAcres)
}

func (suite *OrderServiceTestSuite) request(items ...OrderItemRequest) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 MG Road, Bengaluru",
		Items:           items,
	}
}

func item(p models.Product, qty int, claimedPrice string) OrderItemRequest {
	return OrderItemRequest{
		ProductID: p.ID.String(),
		Quantity:  qty,
		Price:     utils.NewFlexDecimal(decimal.RequireFromString(claimedPrice)),
	}
}

func (suite *OrderServiceTestSuite) expectCatalog(products ...models.Product) {
	suite.products.On("FindByIDs", suite.ctx, mock.Anything).Return(products, nil)
}

func (suite *OrderServiceTestSuite) TestGroupsByFarmerInFirstSeenOrder() {
	suite.expectCatalog(suite.tomato, suite.okra, suite.mango)

	var saved *models.Order
	suite.orders.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.Order) }).
		Return(nil)

	result, err := suite.service.PlaceOrder(suite.ctx, suite.request(
		item(suite.tomato, 2, "40"),
		item(suite.okra, 1, "30"),
		item(suite.mango, 1, "120.50"),
	))
	suite.Require().NoError(err)

	suite.Require().Len(result.Groups, 2)
	suite.Equal(suite.greenAcres.ID, result.Groups[0].FarmerID)
	suite.Len(result.Groups[0].Items, 2)
	suite.True(decimal.RequireFromString("200.50").Equal(result.Groups[0].Subtotal))
	suite.Equal(suite.hillFarm.ID, result.Groups[1].FarmerID)
	suite.True(decimal.NewFromInt(30).Equal(result.Groups[1].Subtotal))

	suite.True(decimal.RequireFromString("230.50").Equal(saved.Subtotal))
	suite.True(decimal.RequireFromString("280.50").Equal(saved.TotalAmount))

	suite.Require().Len(saved.Outbox, 3)
	suite.Equal("green@example.com", saved.Outbox[0].Recipient)
	suite.Equal(models.OutboxKindFarmerNewOrder, saved.Outbox[0].Kind)
	suite.Equal(SubjectFarmerNewOrder, saved.Outbox[0].Subject)
	suite.Contains(saved.Outbox[0].HTMLBody, "Tomato - Quantity: 2 - ₹80")
	suite.Contains(saved.Outbox[0].HTMLBody, "Total Amount: ₹200.5")
	suite.NotContains(saved.Outbox[0].HTMLBody, "Okra")

	suite.Equal("hill@example.com", saved.Outbox[1].Recipient)
	suite.Contains(saved.Outbox[1].HTMLBody, "Okra - Quantity: 1 - ₹30")
	suite.NotContains(saved.Outbox[1].HTMLBody, "Tomato")

	customer := saved.Outbox[2]
	suite.Equal(models.OutboxKindCustomerConfirmation, customer.Kind)
	suite.Equal("asha@example.com", customer.Recipient)
	suite.Equal(SubjectCustomerConfirmation, customer.Subject)
	suite.Contains(customer.HTMLBody, "Tomato")
	suite.Contains(customer.HTMLBody, "Okra")
	suite.Contains(customer.HTMLBody, "Total Amount: ₹280.5")

	for _, row := range saved.Outbox {
		suite.Equal(models.OutboxStatusPending, row.Status)
		suite.Equal(saved.ID, row.OrderID)
	}
	suite.Equal(1, suite.waker.count)
}

func (suite *OrderServiceTestSuite) TestServerPricingIgnoresClientClaims() {
	suite.expectCatalog(suite.tomato)

	var saved *models.Order
	suite.orders.On("Create", suite.ctx, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.Order) }).
		Return(nil)

	req := suite.request(item(suite.tomato, 3, "0.01"))
	req.TotalAmount = utils.NewFlexDecimal(decimal.NewFromInt(1))

	result, err := suite.service.PlaceOrder(suite.ctx, req)
	suite.Require().NoError(err)

	suite.True(decimal.NewFromInt(40).Equal(saved.Items[0].Price))
	suite.Equal("Tomato", saved.Items[0].ProductName)
	suite.Equal(suite.greenAcres.ID, saved.Items[0].FarmerID)
	suite.True(decimal.NewFromInt(170).Equal(result.Order.TotalAmount))
	suite.True(saved.ClientTotal.Valid)
	suite.True(decimal.NewFromInt(1).Equal(saved.ClientTotal.Decimal))
}

func (suite *OrderServiceTestSuite) TestValidation() {
	cases := []*PlaceOrderRequest{
		suite.request(),
		func() *PlaceOrderRequest { r := suite.request(item(suite.tomato, 1, "40")); r.CustomerName = ""; return r }(),
		func() *PlaceOrderRequest { r := suite.request(item(suite.tomato, 1, "40")); r.CustomerEmail = "asha"; return r }(),
		func() *PlaceOrderRequest { r := suite.request(item(suite.tomato, 1, "40")); r.DeliveryAddress = ""; return r }(),
		suite.request(item(suite.tomato, 0, "40")),
	}

	for _, req := range cases {
		_, err := suite.service.PlaceOrder(suite.ctx, req)
		suite.True(apperr.Is(err, apperr.KindValidation))
	}

	_, err := suite.service.PlaceOrder(suite.ctx, suite.request())
	suite.Equal("Order must contain at least one item", apperr.MessageOf(err))
	suite.orders.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestUnknownProduct() {
	suite.expectCatalog(suite.tomato)

	_, err := suite.service.PlaceOrder(suite.ctx, suite.request(
		item(suite.tomato, 1, "40"),
		OrderItemRequest{ProductID: uuid.NewString(), Quantity: 1},
	))
	suite.True(apperr.Is(err, apperr.KindValidation))
	suite.orders.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestPersistenceFailureFailsRequest() {
	suite.expectCatalog(suite.tomato)
	suite.orders.On("Create", suite.ctx, mock.Anything).Return(errors.New("tx aborted"))

	_, err := suite.service.PlaceOrder(suite.ctx, suite.request(item(suite.tomato, 1, "40")))
	suite.True(apperr.Is(err, apperr.KindDependency))
	suite.Equal("Failed to create order", apperr.MessageOf(err))
	suite.Equal(0, suite.waker.count)
}

func (suite *OrderServiceTestSuite) TestConcurrentOrdersForLastUnit() {
	suite.expectCatalog(suite.tomato)
	suite.orders.On("Create", suite.ctx, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.service.PlaceOrder(suite.ctx, suite.request(item(suite.tomato, 1, "40")))
		}(i)
	}
	wg.Wait()

	suite.NoError(errs[0])
	suite.NoError(errs[1])
	suite.orders.AssertNumberOfCalls(suite.T(), "Create", 2)
}

func (suite *OrderServiceTestSuite) TestListForFarmerOwnership() {
	_, err := suite.service.ListForFarmer(suite.ctx, suite.greenAcres.ID.String(), suite.hillFarm.ID)
	suite.True(apperr.Is(err, apperr.KindForbidden))

	suite.orders.On("ListByFarmer", suite.ctx, suite.greenAcres.ID).Return([]models.Order{{}}, nil)
	orders, err := suite.service.ListForFarmer(suite.ctx, suite.greenAcres.ID.String(), suite.greenAcres.ID)
	suite.NoError(err)
	suite.Len(orders, 1)
}

func (suite *OrderServiceTestSuite) TestGetByID() {
	_, err := suite.service.GetByID(suite.ctx, "123")
	suite.True(apperr.Is(err, apperr.KindNotFound))
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
