package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marithon/internal/port"
)

// MockOCRParser is a mock implementation of port.OCRParser.
type MockOCRParser struct {
	mock.Mock
}

func (m *MockOCRParser) Transcribe(ctx context.Context, input port.OCRInput) (*port.OCROutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.OCROutput), args.Error(1)
}
