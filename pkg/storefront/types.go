package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	FarmerID    string          `json:"farmerId"`
	FarmerName  string          `json:"farmerName"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	Location    string          `json:"location"`
}

type Farmer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Specialties []string  `json:"specialties"`
	IsVerified  bool      `json:"isVerified"`
	Products    []Product `json:"products,omitempty"`
}

type RegisterFarmerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	AadharNumber string `json:"aadharNumber"`
	FarmName     string `json:"farmName,omitempty"`
	Location     string `json:"location,omitempty"`
	Description  string `json:"description,omitempty"`
}

type FarmerLogin struct {
	Farmer
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
}

// ProductInput is the body for create and update. Nil Price or Stock are
// left out so an update keeps the stored value.
type ProductInput struct {
	Name        string           `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Image       string           `json:"image,omitempty"`
	Location    string           `json:"location,omitempty"`
	FarmerID    string           `json:"farmerId,omitempty"`
}

type OrderLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CheckoutRequest is what the storefront posts to /orders. The server
// reprices every line, so Price and TotalAmount are informational.
type CheckoutRequest struct {
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Items           []OrderLine     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

type OrderReceipt struct {
	Success     bool            `json:"success"`
	OrderID     string          `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type OrderItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	FarmerID    string          `json:"farmerId"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type CustomerProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type CustomerSession struct {
	User      CustomerProfile `json:"user"`
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType"`
	ExpiresIn int             `json:"expiresIn"`
}
