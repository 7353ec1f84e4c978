package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
)

// MockSessionRepo is a mock implementation of port.SessionRepository.
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.AnalysisSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisSession), args.Error(1)
}

func (m *MockSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.AnalysisSession, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnalysisSession), args.Int(1), args.Error(2)
}

func (m *MockSessionRepo) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSessionRepo) Finalize(ctx context.Context, session *domain.AnalysisSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) ListRemoteSetHistory(ctx context.Context, userID uuid.UUID) ([]domain.RemoteSetHistoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemoteSetHistoryItem), args.Error(1)
}

func (m *MockSessionRepo) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	args := m.Called(ctx, cutoff, message)
	return args.Get(0).(int64), args.Error(1)
}
