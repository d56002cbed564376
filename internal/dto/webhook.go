package dto

import (
	"encoding/json"
	"time"
)

type QueuedWebhookResponseDTO struct {
	ID           uint            `json:"id"`
	WebhookURL   string          `json:"webhook_url"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	SendAt       time.Time       `json:"send_at"`
	SentAt       *time.Time      `json:"sent_at"`
	ErrorMessage *string         `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProcessResultDTO summarizes one processor pass.
type ProcessResultDTO struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}
