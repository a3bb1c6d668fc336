package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marithon/internal/port"
)

// MockDocumentParser is a mock implementation of port.DocumentParser.
type MockDocumentParser struct {
	mock.Mock
}

func (m *MockDocumentParser) Parse(ctx context.Context, filename string, content []byte, forceOCR bool) (*port.ParsedDocument, error) {
	args := m.Called(ctx, filename, content, forceOCR)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ParsedDocument), args.Error(1)
}
