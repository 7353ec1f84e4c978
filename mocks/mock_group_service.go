package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/service"
)

// MockGroupService is a mock implementation of service.GroupService.
type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) List(ctx context.Context, userID uuid.UUID) ([]domain.DocumentGroup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentGroup), args.Error(1)
}

func (m *MockGroupService) GetByID(ctx context.Context, userID, groupID uuid.UUID) (*domain.DocumentGroup, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentGroup), args.Error(1)
}

func (m *MockGroupService) Create(ctx context.Context, input *service.CreateGroupInput) (*domain.DocumentGroup, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentGroup), args.Error(1)
}

func (m *MockGroupService) Update(ctx context.Context, input *service.UpdateGroupInput) (*domain.DocumentGroup, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentGroup), args.Error(1)
}

func (m *MockGroupService) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}
