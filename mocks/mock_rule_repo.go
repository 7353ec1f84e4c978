package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
)

// MockRuleRepo is a mock implementation of port.RuleRepository.
type MockRuleRepo struct {
	mock.Mock
}

func (m *MockRuleRepo) Create(ctx context.Context, rule *domain.ComparisonRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComparisonRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRule), args.Error(1)
}

func (m *MockRuleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ComparisonRule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComparisonRule), args.Error(1)
}

func (m *MockRuleRepo) CreateDefault(ctx context.Context, rule *domain.ComparisonRule) (bool, error) {
	args := m.Called(ctx, rule)
	return args.Bool(0), args.Error(1)
}

func (m *MockRuleRepo) Update(ctx context.Context, rule *domain.ComparisonRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
