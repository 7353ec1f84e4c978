package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, input *service.UploadDocumentInput) (*domain.UploadedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadedDocument), args.Error(1)
}

func (m *MockUploadService) ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]domain.UploadedDocument, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadedDocument), args.Error(1)
}

func (m *MockUploadService) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, documentID)
	return args.Error(0)
}
