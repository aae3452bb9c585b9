// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/mailer"
)

const (
	SubjectFarmerNewOrder       = "🎉 New Order Received - FarmDirect"
	SubjectCustomerConfirmation = "✅ Order Confirmed - FarmDirect"

	templateFarmerNewOrder       = "farmer_new_order"
	templateCustomerConfirmation = "customer_confirmation"
)

type NotificationService struct {
	mailer    mailer.Mailer
	currency  string
	templates map[string]*template.Template
}

type EmailTemplate struct {
	Subject string
	Body    string
}

// Email is a rendered message ready for the outbox or the relay.
type Email struct {
	Subject  string
	HTMLBody string
}

// OrderLine is one product line as shown in an email.
type OrderLine struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderDetails is what both templates render. TotalAmount is the farmer's
// subtotal in farmer emails and the order total in customer emails.
type OrderDetails struct {
	OrderID         uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Items           []OrderLine
	TotalAmount     decimal.Decimal
}

// SendResult reports delivery without failing the caller.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func NewNotificationService(m mailer.Mailer, cfg *config.Config) *NotificationService {
	currency := cfg.Checkout.CurrencySymbol
	if currency == "" {
		currency = "₹"
	}

	s := &NotificationService{
		mailer:    m,
		currency:  currency,
		templates: make(map[string]*template.Template),
	}
	for _, name := range []string{templateFarmerNewOrder, templateCustomerConfirmation} {
		s.templates[name] = template.Must(template.New(name).Funcs(template.FuncMap{
			"money": s.formatMoney,
		}).Parse(s.getEmailTemplate(name).Body))
	}
	return s
}

func (s *NotificationService) RenderFarmerNotification(farmerName string, details OrderDetails) (Email, error) {
	return s.render(templateFarmerNewOrder, farmerName, details)
}

func (s *NotificationService) RenderCustomerConfirmation(customerName string, details OrderDetails) (Email, error) {
	return s.render(templateCustomerConfirmation, customerName, details)
}

// NotifyFarmer renders and sends the new-order email right away.
func (s *NotificationService) NotifyFarmer(ctx context.Context, farmerEmail, farmerName string, details OrderDetails) SendResult {
	email, err := s.RenderFarmerNotification(farmerName, details)
	if err != nil {
		return s.result(farmerEmail, err)
	}
	return s.result(farmerEmail, s.Send(ctx, farmerEmail, farmerName, email))
}

// ConfirmToCustomer renders and sends the confirmation email right away.
func (s *NotificationService) ConfirmToCustomer(ctx context.Context, customerEmail, customerName string, details OrderDetails) SendResult {
	email, err := s.RenderCustomerConfirmation(customerName, details)
	if err != nil {
		return s.result(customerEmail, err)
	}
	return s.result(customerEmail, s.Send(ctx, customerEmail, customerName, email))
}

func (s *NotificationService) Send(ctx context.Context, to, toName string, email Email) error {
	return s.mailer.Send(ctx, mailer.Message{
		To:       to,
		ToName:   toName,
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
	})
}

func (s *NotificationService) result(to string, err error) SendResult {
	if err != nil {
		logrus.WithError(err).WithField("to", to).Error("Error sending email")
		return SendResult{Success: false, Error: err.Error()}
	}
	logrus.WithField("to", to).Info("Email sent")
	return SendResult{Success: true}
}

func (s *NotificationService) render(name, recipientName string, details OrderDetails) (Email, error) {
	data := map[string]interface{}{
		"Name":         recipientName,
		"Order":        details,
		"PlatformName": "FarmDirect",
	}

	body, err := s.renderTemplate(name, data)
	if err != nil {
		return Email{}, fmt.Errorf("failed to render email template: %w", err)
	}
	return Email{Subject: s.getEmailTemplate(name).Subject, HTMLBody: body}, nil
}

func (s *NotificationService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) formatMoney(d decimal.Decimal) string {
	return s.currency + d.String()
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		templateFarmerNewOrder: {
			Subject: SubjectFarmerNewOrder,
			Body: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #16a34a;">New Order Received!</h2>
  <p>Hello {{.Name}},</p>
  <p>You have received a new order for your products:</p>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Order Details:</h3>
    <p><strong>Customer:</strong> {{.Order.CustomerName}}</p>
    <p><strong>Phone:</strong> {{.Order.CustomerPhone}}</p>
    <p><strong>Email:</strong> {{.Order.CustomerEmail}}</p>
    <p><strong>Delivery Address:</strong> {{.Order.DeliveryAddress}}</p>
    <h4>Products:</h4>
    <ul>
      {{- range .Order.Items}}
      <li>{{.ProductName}} - Quantity: {{.Quantity}} - {{money .LineTotal}}</li>
      {{- end}}
    </ul>
    <p style="font-size: 18px; font-weight: bold; color: #16a34a;">Total Amount: {{money .Order.TotalAmount}}</p>
  </div>
  <p>Please prepare the order for delivery.</p>
  <p>Thank you for being part of {{.PlatformName}}!</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #e5e7eb;">
  <p style="color: #6b7280; font-size: 12px;">This is an automated email from {{.PlatformName}}. Please do not reply to this email.</p>
</div>`,
		},
		templateCustomerConfirmation: {
			Subject: SubjectCustomerConfirmation,
			Body: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #16a34a;">Order Confirmed!</h2>
  <p>Hello {{.Name}},</p>
  <p>Thank you for your order! Your order has been confirmed and will be delivered soon.</p>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Order Summary:</h3>
    <p><strong>Delivery Address:</strong> {{.Order.DeliveryAddress}}</p>
    <h4>Products:</h4>
    <ul>
      {{- range .Order.Items}}
      <li>{{.ProductName}} - Quantity: {{.Quantity}} - {{money .LineTotal}}</li>
      {{- end}}
    </ul>
    <p style="font-size: 18px; font-weight: bold; color: #16a34a;">Total Amount: {{money .Order.TotalAmount}}</p>
  </div>
  <p>We'll notify you when your order is on its way!</p>
  <p>Thank you for supporting local farmers!</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #e5e7eb;">
  <p style="color: #6b7280; font-size: 12px;">This is an automated email from {{.PlatformName}}. Please do not reply to this email.</p>
</div>`,
		},
	}

	return templates[templateType]
}
