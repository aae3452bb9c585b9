// Package mailer submits rendered emails to an SMTP relay.
package mailer

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/config"
)

type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when the relay is enabled and a log-only mailer otherwise.
func New(cfg config.EmailConfig) Mailer {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

type SMTPMailer struct {
	cfg     config.EmailConfig
	dialer  net.Dialer
	timeout time.Duration
}

func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, timeout: 30 * time.Second}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.cfg.SMTPHost, m.cfg.SMTPPort)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp relay: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsConfig(m.cfg.SMTPHost)); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.cfg.SMTPUsername != "" {
		auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(Compose(m.cfg.FromName, m.cfg.FromEmail, msg)); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return client.Quit()
}

// Compose builds the RFC 5322 message with an encoded UTF-8 subject.
func Compose(fromName, fromEmail string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), fromEmail)
	if msg.ToName != "" {
		fmt.Fprintf(&b, "To: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", msg.ToName), msg.To)
	} else {
		fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	return []byte(b.String())
}

// LogMailer records emails in the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email relay disabled, message not sent")
	return nil
}
