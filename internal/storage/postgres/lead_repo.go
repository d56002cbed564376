package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshu-sajeev/stepform/internal/lead"
	"github.com/joshu-sajeev/stepform/internal/models"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

var _ lead.RepoInterface = (*LeadRepository)(nil)

// CreateWithWebhook inserts the lead and, when build returns a queue item,
// the webhook delivery for it in the same transaction. build runs after the
// lead insert so the payload can carry the generated ID.
func (r *LeadRepository) CreateWithWebhook(
	ctx context.Context,
	l *models.Lead,
	build func(*models.Lead) (*models.QueuedWebhook, error),
) (*models.QueuedWebhook, error) {
	var queued *models.QueuedWebhook

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(l).Error; err != nil {
			return fmt.Errorf("create lead: %w", err)
		}
		if build == nil {
			return nil
		}

		item, err := build(l)
		if err != nil {
			return fmt.Errorf("build lead webhook: %w", err)
		}
		if item == nil {
			return nil
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("create queued webhook: %w", err)
		}
		queued = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return queued, nil
}

func (r *LeadRepository) Get(ctx context.Context, id uint) (*models.Lead, error) {
	var l models.Lead
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lead not found: %w", err)
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}
