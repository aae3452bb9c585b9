package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmdirect/farmdirect-backend/internal/database"
	"github.com/farmdirect/farmdirect-backend/internal/models"
)

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]models.EmailOutbox, error) {
	var claimed []models.EmailOutbox

	err := database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND next_attempt_at <= ?", models.OutboxStatusPending, now).
			Order("next_attempt_at ASC").
			Limit(limit).
			Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(claimed))
		for i := range claimed {
			ids[i] = claimed[i].ID
		}
		// Push the rows out of the due window so a second dispatcher skips them.
		return tx.Model(&models.EmailOutbox{}).
			Where("id IN ?", ids).
			Update("next_attempt_at", now.Add(lease)).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return claimed, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     models.OutboxStatusSent,
		"sent_at":    at,
		"last_error": "",
		"attempts":   gorm.Expr("attempts + 1"),
	})
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	return r.update(ctx, id, map[string]interface{}{
		"attempts":        attempts,
		"next_attempt_at": next,
		"last_error":      lastErr,
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     models.OutboxStatusFailed,
		"attempts":   attempts,
		"last_error": lastErr,
	})
}

func (r *outboxRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.EmailOutbox, error) {
	rows := []models.EmailOutbox{}
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	return rows, translate(err)
}

func (r *outboxRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.EmailOutbox{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
