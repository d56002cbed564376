package config

import "time"

type WebhookStatus string

var (
	WebhookStatusPending  WebhookStatus = "pending"
	WebhookStatusRetrying WebhookStatus = "retrying"
	WebhookStatusSent     WebhookStatus = "sent"
	WebhookStatusFailed   WebhookStatus = "failed"

	AllowedWebhookStatuses = []WebhookStatus{
		WebhookStatusPending,
		WebhookStatusRetrying,
		WebhookStatusSent,
		WebhookStatusFailed,
	}

	AllowedLeadSources = []string{"stepform", "inbound"}
)

const (
	// Queue processor limits.
	ProcessBatchSize    = 20
	MinSendInterval     = 45 * time.Second
	MaxDeliveryAttempts = 3
	RetryBackoffStep    = 60 * time.Second
	MaxErrorMessageLen  = 500

	WebhookUserAgent = "StepForm-Webhook-Queue/1.0"

	SettingWebhookURL = "stepform_webhook_url"
)
