// internal/services/outbox_dispatcher.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/mailer"
	"github.com/farmdirect/farmdirect-backend/internal/models"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
)

const (
	// claimLease hides claimed rows from other dispatchers while they are sent.
	claimLease = 5 * time.Minute
	maxBackoff = time.Hour
)

// Dispatcher delivers queued order emails and retries failures with
// exponential backoff.
type Dispatcher struct {
	outbox repository.OutboxRepository
	mailer mailer.Mailer
	cfg    config.OutboxConfig
	wake   chan struct{}
	now    func() time.Time
}

func NewDispatcher(outbox repository.OutboxRepository, m mailer.Mailer, cfg config.OutboxConfig) *Dispatcher {
	return &Dispatcher{
		outbox: outbox,
		mailer: m,
		cfg:    cfg,
		wake:   make(chan struct{}, 1),
		now:    time.Now,
	}
}

// Wake asks Run for an immediate pass. It never blocks.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	logrus.WithField("interval", d.cfg.PollInterval.String()).Info("Email dispatcher started")
	for {
		if _, _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("Email dispatch pass failed")
		}

		select {
		case <-ctx.Done():
			logrus.Info("Email dispatcher stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

// DispatchOnce sends one batch of due emails. failed counts send errors,
// whether the row was rescheduled or given up on.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (sent, failed int, err error) {
	rows, err := d.outbox.ClaimDue(ctx, d.now(), claimLease, d.cfg.BatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			// Unsent rows become due again when the lease runs out.
			break
		}

		sendErr := d.mailer.Send(ctx, mailer.Message{
			To:       row.Recipient,
			ToName:   row.RecipientName,
			Subject:  row.Subject,
			HTMLBody: row.HTMLBody,
		})
		if sendErr == nil {
			sent++
			if err := d.outbox.MarkSent(ctx, row.ID, d.now()); err != nil {
				logrus.WithError(err).WithField("outbox_id", row.ID).Error("Failed to mark email sent")
			}
			continue
		}

		failed++
		d.reschedule(ctx, row, sendErr)
	}

	if sent > 0 || failed > 0 {
		logrus.WithFields(logrus.Fields{"sent": sent, "failed": failed}).Info("Email dispatch pass")
	}
	return sent, failed, nil
}

func (d *Dispatcher) reschedule(ctx context.Context, row models.EmailOutbox, sendErr error) {
	attempts := row.Attempts + 1
	entry := logrus.WithError(sendErr).WithFields(logrus.Fields{
		"outbox_id": row.ID,
		"order_id":  row.OrderID,
		"kind":      row.Kind,
		"attempts":  attempts,
	})

	if attempts >= d.cfg.MaxAttempts {
		entry.Error("Giving up on email")
		if err := d.outbox.MarkFailed(ctx, row.ID, attempts, sendErr.Error()); err != nil {
			logrus.WithError(err).WithField("outbox_id", row.ID).Error("Failed to mark email failed")
		}
		return
	}

	next := d.now().Add(Backoff(d.cfg.BaseBackoff, attempts))
	entry.WithField("next_attempt_at", next).Warn("Email send failed, will retry")
	if err := d.outbox.MarkRetry(ctx, row.ID, attempts, next, sendErr.Error()); err != nil {
		logrus.WithError(err).WithField("outbox_id", row.ID).Error("Failed to reschedule email")
	}
}

// Backoff is base × 2^(attempts-1), capped at one hour.
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	if delay > maxBackoff {
		return maxBackoff
	}
	return delay
}
