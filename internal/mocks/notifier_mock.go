package mocks

import (
	"context"

	"github.com/joshu-sajeev/stepform/internal/notify"
	"github.com/stretchr/testify/mock"
)

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(ctx context.Context, e notify.Event) {
	m.Called(ctx, e)
}
