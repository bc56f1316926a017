package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, messages []string) {
	m.Called(ctx, messages)
}

func (m *MockDispatcher) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}
