package webhook

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/metrics"
	"github.com/joshu-sajeev/stepform/internal/models"
	"go.uber.org/zap"
)

// Processor drains due webhook deliveries. A pass is sequential: one HTTP
// call at a time, at most one attempt per item, and no destination URL gets
// two successful deliveries less than minInterval apart.
type Processor struct {
	repo        RepoInterface
	sender      Sender
	backoff     BackoffPolicy
	log         *zap.Logger
	now         func() time.Time
	batchSize   int
	minInterval time.Duration
	maxAttempts int
}

var _ QueueProcessor = (*Processor)(nil)

type ProcessorOption func(*Processor)

func WithBackoff(b BackoffPolicy) ProcessorOption {
	return func(p *Processor) {
		if b != nil {
			p.backoff = b
		}
	}
}

func WithLogger(log *zap.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProcessor(repo RepoInterface, sender Sender, opts ...ProcessorOption) *Processor {
	p := &Processor{
		repo:        repo,
		sender:      sender,
		backoff:     LinearBackoff{Step: config.RetryBackoffStep},
		log:         zap.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
		batchSize:   config.ProcessBatchSize,
		minInterval: config.MinSendInterval,
		maxAttempts: config.MaxDeliveryAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessQueue runs one pass. Store errors while selecting candidates abort
// the pass before anything is sent. A failed write after a delivery is
// logged and the pass continues with the next item.
func (p *Processor) ProcessQueue(ctx context.Context) (dto.ProcessResultDTO, error) {
	var result dto.ProcessResultDTO

	items, err := p.repo.ListDue(ctx, p.now(), p.batchSize)
	if err != nil {
		return result, fmt.Errorf("select due webhooks: %w", err)
	}
	result.Total = len(items)

	lastSent, err := p.lastSentByURL(ctx, items)
	if err != nil {
		return result, err
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			p.log.Warn("webhook pass interrupted",
				zap.Int("processed", result.Processed),
				zap.Int("remaining", len(items)-i),
			)
			return result, fmt.Errorf("webhook pass interrupted: %w", err)
		}

		item := &items[i]
		now := p.now()

		if last, ok := lastSent[item.WebhookURL]; ok && now.Sub(last) < p.minInterval {
			result.Skipped++
			metrics.WebhookDeliveries.WithLabelValues("skipped").Inc()
			p.log.Debug("webhook rate limited",
				zap.Uint("id", item.ID),
				zap.String("url", item.WebhookURL),
				zap.Duration("since_last_send", now.Sub(last)),
			)
			continue
		}

		lc, err := NewLifecycle(item.Status, item.ID)
		if err != nil {
			p.log.Error("webhook lifecycle",
				zap.Uint("id", item.ID),
				zap.String("url", item.WebhookURL),
				zap.Error(err),
			)
			continue
		}

		result.Processed++
		if sentAt, ok := p.attempt(ctx, item, lc); ok {
			lastSent[item.WebhookURL] = sentAt
		}
	}

	metrics.QueuePasses.Inc()
	p.log.Info("webhook pass complete",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("total", result.Total),
	)
	return result, nil
}

// lastSentByURL looks up the latest successful send once per distinct URL.
func (p *Processor) lastSentByURL(ctx context.Context, items []models.QueuedWebhook) (map[string]time.Time, error) {
	lastSent := make(map[string]time.Time)
	seen := make(map[string]struct{})

	for _, item := range items {
		if _, ok := seen[item.WebhookURL]; ok {
			continue
		}
		seen[item.WebhookURL] = struct{}{}

		at, err := p.repo.LastSentAt(ctx, item.WebhookURL)
		if err != nil {
			return nil, fmt.Errorf("last send lookup for %s: %w", item.WebhookURL, err)
		}
		if at != nil {
			lastSent[item.WebhookURL] = *at
		}
	}
	return lastSent, nil
}

// attempt delivers one item and persists the outcome. It reports the send
// time when the delivery succeeded.
func (p *Processor) attempt(ctx context.Context, item *models.QueuedWebhook, lc *Lifecycle) (time.Time, bool) {
	log := p.log.With(zap.Uint("id", item.ID), zap.String("url", item.WebhookURL))

	sendErr := p.sender.Send(ctx, item.WebhookURL, item.Payload)
	at := p.now()

	prevAttempts := item.Attempts
	item.Attempts++

	event := EventDelivered
	switch {
	case sendErr == nil:
		item.SentAt = &at
	case item.Attempts >= p.maxAttempts:
		event = EventExhausted
	default:
		event = EventRetry
		item.SendAt = at.Add(p.backoff.NextDelay(item.Attempts))
	}
	if sendErr != nil {
		msg := truncate(sendErr.Error(), config.MaxErrorMessageLen)
		item.ErrorMessage = &msg
	}

	status, err := lc.Fire(event)
	if err != nil {
		log.Error("webhook transition rejected", zap.String("event", event), zap.Error(err))
		return time.Time{}, false
	}
	item.Status = status

	if err := p.repo.SaveAttempt(ctx, item, prevAttempts); err != nil {
		log.Error("failed to record webhook attempt",
			zap.String("status", status),
			zap.Int("attempts", item.Attempts),
			zap.Error(err),
		)
	}

	metrics.WebhookDeliveries.WithLabelValues(status).Inc()
	if sendErr != nil {
		log.Warn("webhook delivery failed",
			zap.String("status", status),
			zap.Int("attempts", item.Attempts),
			zap.Time("send_at", item.SendAt),
			zap.Error(sendErr),
		)
		return time.Time{}, false
	}

	log.Info("webhook delivered", zap.Int("attempts", item.Attempts))
	return at, true
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
