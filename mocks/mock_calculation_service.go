package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"marithon/internal/domain"
	"marithon/internal/export"
	"marithon/internal/service"
)

// MockCalculationService is a mock implementation of service.CalculationService.
type MockCalculationService struct {
	mock.Mock
}

func (m *MockCalculationService) view(args mock.Arguments) (*service.CalculationView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CalculationView), args.Error(1)
}

func (m *MockCalculationService) Create(ctx context.Context, input service.CreateCalculationInput) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, input))
}

func (m *MockCalculationService) Get(ctx context.Context, userID, calcID uuid.UUID) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, userID, calcID))
}

func (m *MockCalculationService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]service.CalculationView, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]service.CalculationView), args.Int(1), args.Error(2)
}

func (m *MockCalculationService) Delete(ctx context.Context, userID, calcID uuid.UUID) error {
	args := m.Called(ctx, userID, calcID)
	return args.Error(0)
}

func (m *MockCalculationService) AddEvent(ctx context.Context, userID, calcID uuid.UUID, input service.EventInput) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, userID, calcID, input))
}

func (m *MockCalculationService) UpdateEvent(ctx context.Context, userID, calcID uuid.UUID, index int, input service.EventInput) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, userID, calcID, index, input))
}

func (m *MockCalculationService) SetEventPercent(ctx context.Context, userID, calcID uuid.UUID, index int, percent string) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, userID, calcID, index, percent))
}

func (m *MockCalculationService) DeleteEvent(ctx context.Context, userID, calcID uuid.UUID, index int) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, userID, calcID, index))
}

func (m *MockCalculationService) Import(ctx context.Context, userID uuid.UUID, data []byte) (*service.CalculationView, error) {
	return m.view(m.Called(ctx, userID, data))
}

func (m *MockCalculationService) Export(ctx context.Context, userID, calcID uuid.UUID, format domain.ExportFormat) (*export.File, error) {
	args := m.Called(ctx, userID, calcID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.File), args.Error(1)
}
