package storefront

import (
	"github.com/shopspring/decimal"
)

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart keeps lines in the order products were first added.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add puts one unit of p in the cart, merging with an existing line.
func (c *Cart) Add(p Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
}

// SetQuantity sets the line for productID. Zero or less removes it.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Remove(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Count is the number of units, not lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) Total(deliveryFee decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(deliveryFee)
}

// CheckoutRequest builds the order body for the current cart.
func (c *Cart) CheckoutRequest(customer CustomerProfile, phone, address string, deliveryFee decimal.Decimal) CheckoutRequest {
	lines := make([]OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, OrderLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}
	return CheckoutRequest{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   phone,
		DeliveryAddress: address,
		Items:           lines,
		TotalAmount:     c.Total(deliveryFee),
	}
}
