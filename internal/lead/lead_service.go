package lead

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/joshu-sajeev/stepform/common"
	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/metrics"
	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/joshu-sajeev/stepform/internal/notify"
	"github.com/joshu-sajeev/stepform/internal/phone"
	"github.com/joshu-sajeev/stepform/internal/webhook"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventLeadCreated = "lead.created"
	SourceStepForm   = "stepform"
	SourceInbound    = "inbound"
)

type Service struct {
	repo     RepoInterface
	settings SettingsReader
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo RepoInterface, settings SettingsReader, notifier notify.Notifier, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		settings: settings,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ ServiceInterface = (*Service)(nil)

// Submit accepts a lead: the phone is normalized to its canonical form and
// must be complete, then the lead and, when a webhook URL is configured, its
// queued delivery are stored in one transaction. Notifications go out after
// the commit and cannot fail the submission.
func (s *Service) Submit(ctx context.Context, req *dto.LeadCreateDTO) (*dto.LeadResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	source := req.Source
	if source == "" {
		source = SourceStepForm
	}
	if !slices.Contains(config.AllowedLeadSources, source) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid source",
			map[string]any{
				"provided": source,
				"allowed":  config.AllowedLeadSources,
			},
		)
	}

	// validate before prefixing: "55" + 9 digits would pass as 11 local digits
	digits := phone.Normalize9thDigit(phone.ExtractDigits(req.Phone))
	if !phone.IsValid(digits) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"validation failed",
			map[string]any{"phone": "incomplete phone number"},
		)
	}

	if len(req.Answers) > 0 && !json.Valid(req.Answers) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"validation failed",
			map[string]any{"answers": "must be valid JSON"},
		)
	}

	webhookURL, err := s.settings.WebhookURL(ctx)
	if err != nil {
		s.log.Error("read webhook setting", zap.Error(err))
		return nil, common.FromStoreError(err, "failed to read settings")
	}
	if webhookURL != "" && !webhook.ValidURL(webhookURL) {
		s.log.Warn("ignoring invalid webhook url setting", zap.String("url", webhookURL))
		webhookURL = ""
	}

	canonical := phone.CountryCode + digits

	submittedAt := s.now()
	l := &models.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   canonical,
		FormID:  req.FormID,
		Source:  source,
		Answers: datatypes.JSON(req.Answers),
	}

	var build func(*models.Lead) (*models.QueuedWebhook, error)
	if webhookURL != "" {
		build = func(saved *models.Lead) (*models.QueuedWebhook, error) {
			payload, err := json.Marshal(dto.LeadWebhookPayload{
				Event:       EventLeadCreated,
				Lead:        toResponse(saved),
				SubmittedAt: submittedAt,
			})
			if err != nil {
				return nil, err
			}
			return webhook.NewQueuedWebhook(webhookURL, payload, submittedAt)
		}
	}

	queued, err := s.repo.CreateWithWebhook(ctx, l, build)
	if err != nil {
		s.log.Error("store lead", zap.String("form_id", req.FormID), zap.Error(err))
		return nil, common.FromStoreError(err, "failed to save lead")
	}

	resp := toResponse(l)
	resp.WebhookQueued = queued != nil

	metrics.LeadsTotal.WithLabelValues(source).Inc()
	s.log.Info("lead accepted",
		zap.Uint("lead_id", l.ID),
		zap.String("form_id", l.FormID),
		zap.String("source", source),
		zap.Bool("webhook_queued", resp.WebhookQueued),
	)

	s.notifier.Notify(ctx, notify.NewEvent(req.EventID, EventLeadCreated, l.FormID, map[string]any{
		"lead_id": l.ID,
		"name":    l.Name,
		"email":   l.Email,
		"phone":   l.Phone,
		"source":  source,
	}))

	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*dto.LeadResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Errf(http.StatusNotFound, "lead not found")
		}
		return nil, common.FromStoreError(err, "failed to get lead")
	}

	resp := toResponse(l)
	return &resp, nil
}

func toResponse(l *models.Lead) dto.LeadResponseDTO {
	return dto.LeadResponseDTO{
		ID:           l.ID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		PhoneDisplay: phone.Format(phone.ExtractDigits(l.Phone)),
		FormID:       l.FormID,
		Source:       l.Source,
		Answers:      json.RawMessage(l.Answers),
		CreatedAt:    l.CreatedAt,
	}
}
