package settings

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/joshu-sajeev/stepform/common"
	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/joshu-sajeev/stepform/internal/webhook"
	"gorm.io/gorm"
)

// KnownKeys are the settings the API accepts.
var KnownKeys = []string{config.SettingWebhookURL}

type Service struct {
	repo RepoInterface
}

func NewService(repo RepoInterface) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) Get(ctx context.Context, key string) (*dto.SettingResponseDTO, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Errf(http.StatusNotFound, "setting not found")
		}
		return nil, common.FromStoreError(err, "failed to get setting")
	}

	return toResponse(setting), nil
}

// Set validates and stores a setting. An empty webhook URL clears the
// destination, which stops new leads from being queued.
func (s *Service) Set(ctx context.Context, key string, req *dto.SettingUpdateDTO) (*dto.SettingResponseDTO, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	value := strings.TrimSpace(req.Value)
	if key == config.SettingWebhookURL && value != "" {
		if !webhook.ValidURL(value) {
			return nil, common.NewAPIError(
				http.StatusBadRequest,
				"validation failed",
				map[string]any{"value": "must be an absolute http(s) URL"},
			)
		}
	}

	setting, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, common.FromStoreError(err, "failed to save setting")
	}

	return toResponse(setting), nil
}

// WebhookURL returns the configured lead webhook destination, or "" when
// none is set.
func (s *Service) WebhookURL(ctx context.Context) (string, error) {
	setting, err := s.repo.Get(ctx, config.SettingWebhookURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(setting.Value), nil
}

func checkKey(key string) error {
	if !slices.Contains(KnownKeys, key) {
		return common.NewAPIError(
			http.StatusNotFound,
			"unknown setting",
			map[string]any{
				"provided": key,
				"allowed":  KnownKeys,
			},
		)
	}
	return nil
}

func toResponse(s *models.Setting) *dto.SettingResponseDTO {
	return &dto.SettingResponseDTO{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: s.UpdatedAt,
	}
}
