package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
)

// MockGroupRepo is a mock implementation of port.GroupRepository.
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(ctx context.Context, group *domain.DocumentGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentGroup), args.Error(1)
}

func (m *MockGroupRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DocumentGroup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentGroup), args.Error(1)
}

func (m *MockGroupRepo) Update(ctx context.Context, group *domain.DocumentGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
