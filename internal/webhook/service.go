package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/joshu-sajeev/stepform/common"
	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// listLimit caps the admin listing.
const listLimit = 100

type Service struct {
	repo      RepoInterface
	processor QueueProcessor
	now       func() time.Time

	// serializes passes triggered through the API
	mu sync.Mutex
}

func NewService(repo RepoInterface, processor QueueProcessor) *Service {
	return &Service{
		repo:      repo,
		processor: processor,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ ServiceInterface = (*Service)(nil)

// Enqueue stores a pending delivery of payload to rawURL, due immediately.
func (s *Service) Enqueue(ctx context.Context, rawURL string, payload []byte) (*dto.QueuedWebhookResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	item, err := NewQueuedWebhook(rawURL, payload, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, common.FromStoreError(err, "failed to enqueue webhook")
	}

	resp := toResponse(item)
	return &resp, nil
}

// NewQueuedWebhook validates the destination and payload and builds a
// pending queue item due at now. Producers that persist the item themselves
// use it directly.
func NewQueuedWebhook(rawURL string, payload []byte, now time.Time) (*models.QueuedWebhook, error) {
	if !ValidURL(rawURL) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid webhook url",
			map[string]any{"provided": rawURL},
		)
	}

	if !json.Valid(payload) {
		return nil, common.Errf(http.StatusBadRequest, "payload must be valid JSON")
	}

	return &models.QueuedWebhook{
		WebhookURL: rawURL,
		Payload:    datatypes.JSON(payload),
		Status:     string(config.WebhookStatusPending),
		Attempts:   0,
		SendAt:     now,
	}, nil
}

// ValidURL reports whether raw is an absolute http(s) URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *Service) Get(ctx context.Context, id uint) (*dto.QueuedWebhookResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Errf(http.StatusNotFound, "queued webhook not found")
		}
		return nil, common.FromStoreError(err, "failed to get queued webhook")
	}

	resp := toResponse(item)
	return &resp, nil
}

// List returns the newest queue items, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]dto.QueuedWebhookResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	if status != "" && !slices.Contains(config.AllowedWebhookStatuses, config.WebhookStatus(status)) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid status",
			map[string]any{
				"provided": status,
				"allowed":  config.AllowedWebhookStatuses,
			},
		)
	}

	items, err := s.repo.List(ctx, status, listLimit)
	if err != nil {
		return nil, common.FromStoreError(err, "failed to list queued webhooks")
	}

	resp := make([]dto.QueuedWebhookResponseDTO, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// Process runs one processor pass. Concurrent callers wait for the running
// pass instead of overlapping it.
func (s *Service) Process(ctx context.Context) (dto.ProcessResultDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.processor.ProcessQueue(ctx)
	if err != nil {
		return result, common.FromStoreError(err, "failed to process webhook queue")
	}
	return result, nil
}

func toResponse(item *models.QueuedWebhook) dto.QueuedWebhookResponseDTO {
	return dto.QueuedWebhookResponseDTO{
		ID:           item.ID,
		WebhookURL:   item.WebhookURL,
		Payload:      json.RawMessage(item.Payload),
		Status:       item.Status,
		Attempts:     item.Attempts,
		SendAt:       item.SendAt,
		SentAt:       item.SentAt,
		ErrorMessage: item.ErrorMessage,
		CreatedAt:    item.CreatedAt,
	}
}
