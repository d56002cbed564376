package mocks

import (
	"context"
	"time"

	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/stretchr/testify/mock"
)

type WebhookRepoMock struct {
	mock.Mock
}

func (m *WebhookRepoMock) Create(ctx context.Context, item *models.QueuedWebhook) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *WebhookRepoMock) Get(ctx context.Context, id uint) (*models.QueuedWebhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueuedWebhook), args.Error(1)
}

func (m *WebhookRepoMock) List(ctx context.Context, status string, limit int) ([]models.QueuedWebhook, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QueuedWebhook), args.Error(1)
}

func (m *WebhookRepoMock) ListDue(ctx context.Context, now time.Time, limit int) ([]models.QueuedWebhook, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QueuedWebhook), args.Error(1)
}

func (m *WebhookRepoMock) LastSentAt(ctx context.Context, url string) (*time.Time, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *WebhookRepoMock) SaveAttempt(ctx context.Context, item *models.QueuedWebhook, prevAttempts int) error {
	args := m.Called(ctx, item, prevAttempts)
	return args.Error(0)
}

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Send(ctx context.Context, url string, payload []byte) error {
	args := m.Called(ctx, url, payload)
	return args.Error(0)
}
