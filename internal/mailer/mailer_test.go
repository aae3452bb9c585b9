package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farmdirect/farmdirect-backend/internal/config"
)

func TestComposeHeaders(t *testing.T) {
	raw := string(Compose("FarmDirect", "noreply@farmdirect.com", Message{
		To:       "asha@example.com",
		ToName:   "Asha",
		Subject:  "✅ Order Confirmed - FarmDirect",
		HTMLBody: "<p>hi</p>",
	}))

	assert.True(t, strings.HasPrefix(raw, "From: FarmDirect <noreply@farmdirect.com>\r\n"))
	assert.Contains(t, raw, "To: Asha <asha@example.com>\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n<p>hi</p>")
}

func TestNewPicksLogMailerWhenDisabled(t *testing.T) {
	m := New(config.EmailConfig{Enabled: false, SMTPHost: "smtp.example.com"})
	assert.IsType(t, LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), Message{To: "x@example.com"}))

	assert.IsType(t, &SMTPMailer{}, New(config.EmailConfig{Enabled: true, SMTPHost: "smtp.example.com", SMTPPort: "587"}))
}

func TestSMTPMailerDialFailure(t *testing.T) {
	m := NewSMTPMailer(config.EmailConfig{SMTPHost: "127.0.0.1", SMTPPort: "1"})
	err := m.Send(context.Background(), Message{To: "x@example.com"})
	assert.Error(t, err)
}
