package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// MockDocumentProvider is a mock implementation of port.DocumentProvider.
type MockDocumentProvider struct {
	mock.Mock
}

func (m *MockDocumentProvider) ListDocuments(ctx context.Context, setID string) ([]domain.RemoteDocument, error) {
	args := m.Called(ctx, setID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemoteDocument), args.Error(1)
}

func (m *MockDocumentProvider) GetSetDetails(ctx context.Context, setID string) (*domain.RemoteSetDetails, error) {
	args := m.Called(ctx, setID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteSetDetails), args.Error(1)
}

// MockAnalysisEngine is a mock implementation of port.AnalysisEngine.
type MockAnalysisEngine struct {
	mock.Mock
}

func (m *MockAnalysisEngine) Analyze(ctx context.Context, req *port.AnalyzeRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockSetDetailsCache is a mock implementation of port.SetDetailsCache.
type MockSetDetailsCache struct {
	mock.Mock
}

func (m *MockSetDetailsCache) Get(ctx context.Context, setID string) (*domain.RemoteSetDetails, error) {
	args := m.Called(ctx, setID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteSetDetails), args.Error(1)
}

func (m *MockSetDetailsCache) Set(ctx context.Context, details *domain.RemoteSetDetails, ttl time.Duration) error {
	args := m.Called(ctx, details, ttl)
	return args.Error(0)
}
