// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

// Waker is poked after an order commits so queued email goes out without
// waiting for the next poll.
type Waker interface {
	Wake()
}

type OrderService struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	notifications *NotificationService
	waker         Waker
	deliveryFee   decimal.Decimal
	now           func() time.Time
}

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
	// Price is what the storefront displayed. Pricing never reads it.
	Price utils.FlexDecimal `json:"price"`
}

type PlaceOrderRequest struct {
	CustomerName    string             `json:"customerName" validate:"required,max=255"`
	CustomerEmail   string             `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string             `json:"customerPhone" validate:"required,phone"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     utils.FlexDecimal  `json:"totalAmount"`
}

// FarmerGroup is the slice of an order one farmer has to fulfil.
type FarmerGroup struct {
	FarmerID    uuid.UUID
	FarmerName  string
	FarmerEmail string
	Items       []models.OrderItem
	Subtotal    decimal.Decimal
}

type PlaceOrderResult struct {
	Order  *models.Order
	Groups []FarmerGroup
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	notifications *NotificationService,
	waker Waker,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orders:        orders,
		products:      products,
		notifications: notifications,
		waker:         waker,
		deliveryFee:   decimal.NewFromFloat(cfg.Checkout.DeliveryFee).Round(2),
		now:           time.Now,
	}
}

// PlaceOrder prices the order from stored products, then commits the order,
// its items and one email per farmer plus one for the customer together.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	if errs := utils.GetValidationErrors(utils.ValidateStruct(req)); len(errs) > 0 {
		if errs[0].Field == "items" {
			return nil, apperr.Validation("Order must contain at least one item").WithKey(i18n.KeyValidationEmptyOrder)
		}
		return nil, apperr.Validation(errs[0].Message)
	}

	catalog, err := s.loadProducts(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		DeliveryFee:     s.deliveryFee,
	}
	order.ID = uuid.New()

	subtotal := decimal.Zero
	for _, line := range req.Items {
		product := catalog[uuid.MustParse(line.ProductID)]
		item := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			FarmerID:    product.FarmerID,
			Quantity:    line.Quantity,
			Price:       product.Price,
		}
		order.Items = append(order.Items, item)
		subtotal = subtotal.Add(item.LineTotal())
	}
	order.Subtotal = subtotal
	order.TotalAmount = subtotal.Add(s.deliveryFee)

	if req.TotalAmount.Set {
		order.ClientTotal = decimal.NewNullDecimal(req.TotalAmount.Value)
		if !req.TotalAmount.Value.Equal(order.TotalAmount) {
			logrus.WithFields(logrus.Fields{
				"order_id":     order.ID,
				"client_total": req.TotalAmount.Value.String(),
				"server_total": order.TotalAmount.String(),
			}).Warn("Client total differs from server total")
		}
	}

	groups := GroupByFarmer(order.Items, catalog)
	outbox, err := s.composeEmails(order, groups)
	if err != nil {
		return nil, apperr.Dependency("Failed to create order", err).WithKey(i18n.KeyOrderFailed)
	}
	order.Outbox = outbox

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperr.Dependency("Failed to create order", err).WithKey(i18n.KeyOrderFailed)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"farmers":  len(groups),
		"total":    order.TotalAmount.String(),
	}).Info("Order placed")

	if s.waker != nil {
		s.waker.Wake()
	}

	return &PlaceOrderResult{Order: order, Groups: groups}, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperr.Dependency("Failed to fetch orders", err).WithKey(i18n.KeyOrderFetchFailed)
	}
	return orders, nil
}

func (s *OrderService) GetByID(ctx context.Context, rawID string) (*models.Order, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, orderNotFound()
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, orderNotFound()
		}
		return nil, apperr.Dependency("Failed to fetch orders", err).WithKey(i18n.KeyOrderFetchFailed)
	}
	return order, nil
}

// ListForFarmer returns the caller's orders, each trimmed to their own lines.
func (s *OrderService) ListForFarmer(ctx context.Context, rawFarmerID string, callerID uuid.UUID) ([]models.Order, error) {
	farmerID, err := uuid.Parse(rawFarmerID)
	if err != nil || farmerID != callerID {
		return nil, apperr.Forbidden("You can only manage your own farm").WithKey(i18n.KeyAuthForbidden)
	}

	orders, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, apperr.Dependency("Failed to fetch orders", err).WithKey(i18n.KeyOrderFetchFailed)
	}
	return orders, nil
}

func (s *OrderService) loadProducts(ctx context.Context, lines []OrderItemRequest) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, unknownProduct()
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Dependency("Failed to create order", err).WithKey(i18n.KeyOrderFailed)
	}

	catalog := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return nil, unknownProduct()
		}
	}
	return catalog, nil
}

func (s *OrderService) composeEmails(order *models.Order, groups []FarmerGroup) ([]models.EmailOutbox, error) {
	now := s.now()
	rows := make([]models.EmailOutbox, 0, len(groups)+1)

	for _, group := range groups {
		email, err := s.notifications.RenderFarmerNotification(group.FarmerName, orderDetails(order, group.Items, group.Subtotal))
		if err != nil {
			return nil, err
		}
		rows = append(rows, outboxRow(order.ID, models.OutboxKindFarmerNewOrder, group.FarmerEmail, group.FarmerName, email, now))
	}

	email, err := s.notifications.RenderCustomerConfirmation(order.CustomerName, orderDetails(order, order.Items, order.TotalAmount))
	if err != nil {
		return nil, err
	}
	rows = append(rows, outboxRow(order.ID, models.OutboxKindCustomerConfirmation, order.CustomerEmail, order.CustomerName, email, now))

	return rows, nil
}

// GroupByFarmer partitions items by farmer in first-seen order.
func GroupByFarmer(items []models.OrderItem, catalog map[uuid.UUID]models.Product) []FarmerGroup {
	var groups []FarmerGroup
	index := make(map[uuid.UUID]int)

	for _, item := range items {
		i, ok := index[item.FarmerID]
		if !ok {
			group := FarmerGroup{FarmerID: item.FarmerID, Subtotal: decimal.Zero}
			if p, found := catalog[item.ProductID]; found && p.Farmer != nil {
				group.FarmerName = p.Farmer.Name
				group.FarmerEmail = p.Farmer.Email
			}
			groups = append(groups, group)
			i = len(groups) - 1
			index[item.FarmerID] = i
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Subtotal = groups[i].Subtotal.Add(item.LineTotal())
	}
	return groups
}

func orderDetails(order *models.Order, items []models.OrderItem, total decimal.Decimal) OrderDetails {
	lines := make([]OrderLine, len(items))
	for i, item := range items {
		lines[i] = OrderLine{ProductName: item.ProductName, Quantity: item.Quantity, Price: item.Price}
	}
	return OrderDetails{
		OrderID:         order.ID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		Items:           lines,
		TotalAmount:     total,
	}
}

func outboxRow(orderID uuid.UUID, kind models.OutboxKind, to, toName string, email Email, due time.Time) models.EmailOutbox {
	return models.EmailOutbox{
		OrderID:       orderID,
		Kind:          kind,
		Recipient:     to,
		RecipientName: toName,
		Subject:       email.Subject,
		HTMLBody:      email.HTMLBody,
		Status:        models.OutboxStatusPending,
		NextAttemptAt: due,
	}
}

func unknownProduct() error {
	return apperr.Validation("Order contains an unknown product").WithKey(i18n.KeyValidationUnknownItem)
}

func orderNotFound() error {
	return apperr.NotFound("Order").WithKey(i18n.KeyOrderNotFound)
}
