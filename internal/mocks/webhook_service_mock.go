package mocks

import (
	"context"

	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/stretchr/testify/mock"
)

type WebhookServiceMock struct {
	mock.Mock
}

func (m *WebhookServiceMock) Enqueue(ctx context.Context, url string, payload []byte) (*dto.QueuedWebhookResponseDTO, error) {
	args := m.Called(ctx, url, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QueuedWebhookResponseDTO), args.Error(1)
}

func (m *WebhookServiceMock) Get(ctx context.Context, id uint) (*dto.QueuedWebhookResponseDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QueuedWebhookResponseDTO), args.Error(1)
}

func (m *WebhookServiceMock) List(ctx context.Context, status string) ([]dto.QueuedWebhookResponseDTO, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.QueuedWebhookResponseDTO), args.Error(1)
}

func (m *WebhookServiceMock) Process(ctx context.Context) (dto.ProcessResultDTO, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.ProcessResultDTO), args.Error(1)
}

type QueueProcessorMock struct {
	mock.Mock
}

func (m *QueueProcessorMock) ProcessQueue(ctx context.Context) (dto.ProcessResultDTO, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.ProcessResultDTO), args.Error(1)
}
