package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

type MockMetricsSampler struct {
	mock.Mock
}

func (m *MockMetricsSampler) CPUPercent(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockMetricsSampler) Memory(ctx context.Context) (models.Usage, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Usage), args.Error(1)
}

func (m *MockMetricsSampler) Disk(ctx context.Context, path string) (models.Usage, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(models.Usage), args.Error(1)
}

type MockLogScanner struct {
	mock.Mock
}

func (m *MockLogScanner) Scan(ctx context.Context) (models.ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ScanResult), args.Error(1)
}
