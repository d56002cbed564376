package mocks

import (
	"context"

	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/stretchr/testify/mock"
)

type SettingRepoMock struct {
	mock.Mock
}

func (m *SettingRepoMock) Get(ctx context.Context, key string) (*models.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Setting), args.Error(1)
}

func (m *SettingRepoMock) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Setting), args.Error(1)
}
