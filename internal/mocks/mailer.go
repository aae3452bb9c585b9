package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/farmdirect/farmdirect-backend/internal/mailer"
)

type Mailer struct{ mock.Mock }

func (m *Mailer) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// RecordingMailer keeps every message it is handed.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
}

func (r *RecordingMailer) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, msg)
	return nil
}

func (r *RecordingMailer) Messages() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.Sent...)
}

var (
	_ mailer.Mailer = (*Mailer)(nil)
	_ mailer.Mailer = (*RecordingMailer)(nil)
)
