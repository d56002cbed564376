package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/joshu-sajeev/stepform/internal/webhook"
	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

var _ webhook.RepoInterface = (*WebhookRepository)(nil)

// Create inserts a queued webhook. Producers call it once per submission;
// after that only the queue processor mutates the row.
func (r *WebhookRepository) Create(ctx context.Context, item *models.QueuedWebhook) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create queued webhook: %w", err)
	}
	return nil
}

func (r *WebhookRepository) Get(ctx context.Context, id uint) (*models.QueuedWebhook, error) {
	var item models.QueuedWebhook
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("queued webhook not found: %w", err)
		}
		return nil, fmt.Errorf("get queued webhook: %w", err)
	}
	return &item, nil
}

// List returns the newest items first, optionally filtered by status.
func (r *WebhookRepository) List(ctx context.Context, status string, limit int) ([]models.QueuedWebhook, error) {
	var items []models.QueuedWebhook
	q := r.db.WithContext(ctx).Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list queued webhooks: %w", err)
	}
	return items, nil
}

// ListDue selects pending or retrying items whose send_at has passed,
// oldest-due first.
func (r *WebhookRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.QueuedWebhook, error) {
	var items []models.QueuedWebhook
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(config.WebhookStatusPending),
			string(config.WebhookStatusRetrying),
		}).
		Where("send_at <= ?", now).
		Order("send_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list due webhooks: %w", err)
	}
	return items, nil
}

// LastSentAt returns the most recent successful delivery time for url, or
// nil when nothing was ever sent there.
func (r *WebhookRepository) LastSentAt(ctx context.Context, url string) (*time.Time, error) {
	var item models.QueuedWebhook
	err := r.db.WithContext(ctx).
		Select("id", "sent_at").
		Where("webhook_url = ? AND status = ? AND sent_at IS NOT NULL", url, string(config.WebhookStatusSent)).
		Order("sent_at DESC").
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("last sent at: %w", err)
	}
	return item.SentAt, nil
}

// SaveAttempt persists the outcome of one delivery attempt. The write only
// applies while the stored attempts still equal prevAttempts, so a row is
// never moved backwards by an overlapping pass.
func (r *WebhookRepository) SaveAttempt(ctx context.Context, item *models.QueuedWebhook, prevAttempts int) error {
	res := r.db.WithContext(ctx).Model(&models.QueuedWebhook{}).
		Where("id = ? AND attempts = ?", item.ID, prevAttempts).
		Updates(map[string]any{
			"status":        item.Status,
			"attempts":      item.Attempts,
			"send_at":       item.SendAt,
			"sent_at":       item.SentAt,
			"error_message": item.ErrorMessage,
		})
	if res.Error != nil {
		return fmt.Errorf("save attempt: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("save attempt for webhook %d: %w", item.ID, webhook.ErrConcurrentUpdate)
	}
	return nil
}
