// Package storefront is a Go client for the FarmDirect API together with the
// session, cart and filtering state a storefront keeps between requests.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDeliveryFee is the flat fee the storefront shows before checkout.
var DefaultDeliveryFee = decimal.NewFromInt(50)

// APIError is a non-2xx response. Message is the server's "error" field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("farmdirect: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	language   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends the bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLanguage sets Accept-Language so error messages come back translated.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// NewClient talks to baseURL, e.g. http://localhost:3000/api.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForSession returns a copy of c authenticated as s.
func (c *Client) ForSession(s *Session) *Client {
	clone := *c
	clone.token = s.Token
	if s.Language != "" {
		clone.language = s.Language
	}
	return &clone
}

func (c *Client) ListFarmers(ctx context.Context) ([]Farmer, error) {
	var farmers []Farmer
	return farmers, c.do(ctx, http.MethodGet, "/farmers", nil, &farmers)
}

func (c *Client) GetFarmer(ctx context.Context, id string) (*Farmer, error) {
	var farmer Farmer
	if err := c.do(ctx, http.MethodGet, "/farmers/"+url.PathEscape(id), nil, &farmer); err != nil {
		return nil, err
	}
	return &farmer, nil
}

// ListProducts fetches the catalog. An empty category or "All" returns everything.
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	path := "/products"
	if category != "" && category != CategoryAll {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var products []Product
	return products, c.do(ctx, http.MethodGet, path, nil, &products)
}

// RegisterFarmer returns the new farmer's id.
func (c *Client) RegisterFarmer(ctx context.Context, req RegisterFarmerRequest) (string, error) {
	var out struct {
		Message  string `json:"message"`
		FarmerID string `json:"farmerId"`
	}
	if err := c.do(ctx, http.MethodPost, "/farmers/register", req, &out); err != nil {
		return "", err
	}
	return out.FarmerID, nil
}

func (c *Client) LoginFarmer(ctx context.Context, email, password string) (*FarmerLogin, error) {
	var out FarmerLogin
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/farmers/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomerSession exchanges a Google access token for a customer session.
func (c *Client) CreateCustomerSession(ctx context.Context, accessToken string) (*CustomerSession, error) {
	var out CustomerSession
	body := map[string]string{"accessToken": accessToken}
	if err := c.do(ctx, http.MethodPost, "/customers/session", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PlaceOrder(ctx context.Context, req CheckoutRequest) (*OrderReceipt, error) {
	var out OrderReceipt
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	return orders, c.do(ctx, http.MethodGet, "/orders", nil, &orders)
}

// ListFarmerOrders needs a farmer token for farmerID.
func (c *Client) ListFarmerOrders(ctx context.Context, farmerID string) ([]Order, error) {
	var orders []Order
	return orders, c.do(ctx, http.MethodGet, "/farmers/"+url.PathEscape(farmerID)+"/orders", nil, &orders)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
