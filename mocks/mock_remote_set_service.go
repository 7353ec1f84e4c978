package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
)

// MockRemoteSetService is a mock implementation of service.RemoteSetService.
type MockRemoteSetService struct {
	mock.Mock
}

func (m *MockRemoteSetService) ListDocuments(ctx context.Context, setID string) ([]domain.RemoteDocument, error) {
	args := m.Called(ctx, setID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemoteDocument), args.Error(1)
}
