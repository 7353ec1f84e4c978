package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doccompare/internal/domain"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func remoteRef(id string) domain.SetReference {
	return domain.SetReference{RemoteSetID: &id}
}

func TestSessionManager_Create(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	userID := uuid.New()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AnalysisSession")).Return(nil)

	s, err := m.Create(context.Background(), &service.CreateSessionInput{
		UserID:      userID,
		Ref:         remoteRef("QT-1"),
		DocumentIDs: []string{"D1", "D2"},
		Summary:     "QT-1 - ABC",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusProcessing, s.Status)
	assert.Equal(t, domain.AnalysisModeRemote, s.Mode)
	assert.Equal(t, domain.StringList{"D1", "D2"}, s.DocumentIDs)
	assert.Nil(t, s.Results)
	assert.Nil(t, s.ErrorMessage)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestSessionManager_Create_Invalid(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	groupID := uuid.New()

	_, err := m.Create(context.Background(), &service.CreateSessionInput{UserID: uuid.New(), Ref: remoteRef("QT-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	both := domain.SetReference{RemoteSetID: remoteRef("QT-1").RemoteSetID, GroupID: &groupID}
	_, err = m.Create(context.Background(), &service.CreateSessionInput{UserID: uuid.New(), Ref: both, DocumentIDs: []string{"D1"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSessionManager_Create_PersistenceError(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := m.Create(context.Background(), &service.CreateSessionInput{
		UserID: uuid.New(), Ref: remoteRef("QT-1"), DocumentIDs: []string{"D1"},
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func newProcessingSession() *domain.AnalysisSession {
	return &domain.AnalysisSession{ID: uuid.New(), Status: domain.SessionStatusProcessing}
}

func TestSessionManager_MarkStarted_SwallowsErrors(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	s := newProcessingSession()
	repo.On("MarkStarted", mock.Anything, s.ID, mock.Anything).Return(errors.New("timeout"))

	m.MarkStarted(context.Background(), s)
	assert.Nil(t, s.StartedAt)
}

func TestSessionManager_MarkCompleted(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	s := newProcessingSession()
	results := &domain.AnalysisResults{Success: true}
	repo.On("Finalize", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, m.MarkCompleted(context.Background(), s, results))
	assert.Equal(t, domain.SessionStatusCompleted, s.Status)
	assert.Same(t, results, s.Results)
	assert.NotNil(t, s.CompletedAt)

	// Terminal sessions reject further transitions.
	err := m.MarkFailed(context.Background(), s, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.SessionStatusCompleted, s.Status)
	repo.AssertNumberOfCalls(t, "Finalize", 1)
}

func TestSessionManager_MarkFailed_WriteErrorLeavesSessionUntouched(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	s := newProcessingSession()
	repo.On("Finalize", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := m.MarkFailed(context.Background(), s, "boom")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.SessionStatusProcessing, s.Status)
	assert.Nil(t, s.ErrorMessage)
}

func TestSessionManager_MarkCompleted_SessionAlreadyClosed(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	s := newProcessingSession()
	closed := fmt.Errorf("sessionRepo.Finalize: %w: session %s is not processing", domain.ErrInvalidTransition, s.ID)
	repo.On("Finalize", mock.Anything, mock.Anything).Return(closed)

	err := m.MarkCompleted(context.Background(), s, &domain.AnalysisResults{Success: true})

	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.SessionStatusProcessing, s.Status)
	assert.Nil(t, s.Results)
}

func TestSessionManager_MarkFailed_DefaultMessage(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	m := service.NewSessionManager(repo)
	s := newProcessingSession()
	repo.On("Finalize", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, m.MarkFailed(context.Background(), s, ""))
	require.NotNil(t, s.ErrorMessage)
	assert.Equal(t, "unknown analysis error", *s.ErrorMessage)
	assert.Nil(t, s.Results)
}
