package mocks

import (
	"context"

	"github.com/joshu-sajeev/stepform/internal/dto"
	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/stretchr/testify/mock"
)

type LeadRepoMock struct {
	mock.Mock
}

func (m *LeadRepoMock) CreateWithWebhook(
	ctx context.Context,
	l *models.Lead,
	build func(*models.Lead) (*models.QueuedWebhook, error),
) (*models.QueuedWebhook, error) {
	args := m.Called(ctx, l, build)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueuedWebhook), args.Error(1)
}

func (m *LeadRepoMock) Get(ctx context.Context, id uint) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

type SettingsReaderMock struct {
	mock.Mock
}

func (m *SettingsReaderMock) WebhookURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type LeadServiceMock struct {
	mock.Mock
}

func (m *LeadServiceMock) Submit(ctx context.Context, req *dto.LeadCreateDTO) (*dto.LeadResponseDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LeadResponseDTO), args.Error(1)
}

func (m *LeadServiceMock) Get(ctx context.Context, id uint) (*dto.LeadResponseDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LeadResponseDTO), args.Error(1)
}
