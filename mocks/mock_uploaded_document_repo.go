package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
)

// MockUploadedDocumentRepo is a mock implementation of port.UploadedDocumentRepository.
type MockUploadedDocumentRepo struct {
	mock.Mock
}

func (m *MockUploadedDocumentRepo) Create(ctx context.Context, doc *domain.UploadedDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockUploadedDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadedDocument), args.Error(1)
}

func (m *MockUploadedDocumentRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.UploadedDocument, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadedDocument), args.Error(1)
}

func (m *MockUploadedDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
