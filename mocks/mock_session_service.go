package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.AnalysisSession, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnalysisSession), args.Int(1), args.Error(2)
}

func (m *MockSessionService) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.AnalysisSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisSession), args.Error(1)
}

func (m *MockSessionService) RemoteSetHistory(ctx context.Context, userID uuid.UUID) ([]domain.RemoteSetHistoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemoteSetHistoryItem), args.Error(1)
}

func (m *MockSessionService) ExportXLSX(ctx context.Context, userID, sessionID uuid.UUID) (*service.ExportFile, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockSessionService) ExportCSV(ctx context.Context, userID uuid.UUID) (*service.ExportFile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}
