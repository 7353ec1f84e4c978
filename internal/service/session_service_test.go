package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"doccompare/internal/domain"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func completedSession(userID uuid.UUID) *domain.AnalysisSession {
	setID := "QT-1"
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &domain.AnalysisSession{
		ID:          uuid.New(),
		UserID:      userID,
		Mode:        domain.AnalysisModeRemote,
		RemoteSetID: &setID,
		Summary:     "QT-1 - ABC Company",
		DocumentIDs: domain.StringList{"D1"},
		Status:      domain.SessionStatusCompleted,
		Results: &domain.AnalysisResults{
			Success:              true,
			Results:              []domain.DocumentFeedback{{DocumentID: "D1", DocumentName: "a.pdf", AIFeedback: "ok"}},
			CriticalCheckResults: []domain.CriticalCheckResult{{CheckName: "weights", Status: domain.CheckStatusPass}},
		},
		CreatedAt:   now,
		CompletedAt: &now,
	}
}

func TestSessionService_GetByID(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	userID := uuid.New()
	s := completedSession(userID)
	repo.On("GetByID", mock.Anything, s.ID).Return(s, nil)

	svc := service.NewSessionService(repo, service.NewOwnershipGuard(false))
	got, err := svc.GetByID(context.Background(), userID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = svc.GetByID(context.Background(), uuid.New(), s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	opaque := service.NewSessionService(repo, service.NewOwnershipGuard(true))
	_, err = opaque.GetByID(context.Background(), uuid.New(), s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_List(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	userID := uuid.New()
	repo.On("ListByUser", mock.Anything, userID, 20, 10).Return(nil, 25, nil)

	sessions, total, err := service.NewSessionService(repo, service.NewOwnershipGuard(false)).List(context.Background(), userID, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.NotNil(t, sessions)
}

func TestSessionService_RemoteSetHistory(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	userID := uuid.New()
	items := []domain.RemoteSetHistoryItem{{RemoteSetID: "QT-2", Summary: "QT-2"}, {RemoteSetID: "QT-1", Summary: "QT-1"}}
	repo.On("ListRemoteSetHistory", mock.Anything, userID).Return(items, nil)

	got, err := service.NewSessionService(repo, service.NewOwnershipGuard(false)).RemoteSetHistory(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestSessionService_ExportXLSX(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	userID := uuid.New()
	s := completedSession(userID)
	repo.On("GetByID", mock.Anything, s.ID).Return(s, nil)

	out, err := service.NewSessionService(repo, service.NewOwnershipGuard(false)).ExportXLSX(context.Background(), userID, s.ID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.FileName, "QT-1_-_ABC_Company_"))
	assert.True(t, strings.HasSuffix(out.FileName, ".xlsx"))
	wb, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	assert.Contains(t, wb.GetSheetList(), "Summary")
}

func TestSessionService_ExportXLSX_RequiresCompleted(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	userID := uuid.New()
	s := completedSession(userID)
	s.Status = domain.SessionStatusProcessing
	s.Results = nil
	repo.On("GetByID", mock.Anything, s.ID).Return(s, nil)

	_, err := service.NewSessionService(repo, service.NewOwnershipGuard(false)).ExportXLSX(context.Background(), userID, s.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSessionService_ExportCSV_Pages(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	userID := uuid.New()
	page1 := make([]domain.AnalysisSession, 500)
	for i := range page1 {
		page1[i] = *completedSession(userID)
	}
	page2 := []domain.AnalysisSession{*completedSession(userID)}
	repo.On("ListByUser", mock.Anything, userID, 0, 500).Return(page1, 501, nil)
	repo.On("ListByUser", mock.Anything, userID, 500, 500).Return(page2, 501, nil)

	out, err := service.NewSessionService(repo, service.NewOwnershipGuard(false)).ExportCSV(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)
	assert.True(t, bytes.HasPrefix(out.Data, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(strings.TrimRight(string(out.Data), "\n"), "\n")
	assert.Len(t, lines, 502)
	repo.AssertNumberOfCalls(t, "ListByUser", 2)
}
