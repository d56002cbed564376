package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/joshu-sajeev/stepform/internal/settings"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

var _ settings.RepoInterface = (*SettingRepository)(nil)

func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.db.WithContext(ctx).First(&s, `"key" = ?`, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("setting not found: %w", err)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &s, nil
}

// Upsert writes value under key, replacing any previous value.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	s := models.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&s).Error
	if err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return &s, nil
}
