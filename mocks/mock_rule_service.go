package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/service"
)

// MockRuleService is a mock implementation of service.RuleService.
type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) List(ctx context.Context, userID uuid.UUID) ([]domain.ComparisonRule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComparisonRule), args.Error(1)
}

func (m *MockRuleService) GetByID(ctx context.Context, userID, ruleID uuid.UUID) (*domain.ComparisonRule, error) {
	args := m.Called(ctx, userID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRule), args.Error(1)
}

func (m *MockRuleService) Create(ctx context.Context, input *service.CreateRuleInput) (*domain.ComparisonRule, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRule), args.Error(1)
}

func (m *MockRuleService) Update(ctx context.Context, input *service.UpdateRuleInput) (*domain.ComparisonRule, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRule), args.Error(1)
}

func (m *MockRuleService) Delete(ctx context.Context, userID, ruleID uuid.UUID) error {
	args := m.Called(ctx, userID, ruleID)
	return args.Error(0)
}
