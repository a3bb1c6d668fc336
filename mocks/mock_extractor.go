package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marithon/internal/domain"
	"marithon/internal/sof"
)

// MockExtractor is a mock implementation of service.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Run(ctx context.Context, filename string, content []byte, opts sof.Options) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, filename, content, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
