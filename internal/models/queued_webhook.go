package models

import (
	"time"

	"gorm.io/datatypes"
)

type QueuedWebhook struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	WebhookURL   string         `gorm:"type:text;not null;index:idx_webhook_queue_url_status"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"`
	Status       string         `gorm:"type:varchar(20);not null;default:'pending';index:idx_webhook_queue_url_status;index:idx_webhook_queue_due"`
	Attempts     int            `gorm:"default:0;not null"`
	SendAt       time.Time      `gorm:"not null;index:idx_webhook_queue_due"`
	SentAt       *time.Time
	ErrorMessage *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (QueuedWebhook) TableName() string {
	return "webhook_queue"
}
