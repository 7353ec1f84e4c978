package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/export"
	"doccompare/internal/port"
)

// ExportFile is a rendered export ready to be streamed to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// SessionService exposes analysis history to the owning user.
type SessionService interface {
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.AnalysisSession, int, error)
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.AnalysisSession, error)
	RemoteSetHistory(ctx context.Context, userID uuid.UUID) ([]domain.RemoteSetHistoryItem, error)
	ExportXLSX(ctx context.Context, userID, sessionID uuid.UUID) (*ExportFile, error)
	ExportCSV(ctx context.Context, userID uuid.UUID) (*ExportFile, error)
}

type sessionService struct {
	repo  port.SessionRepository
	guard *OwnershipGuard
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(repo port.SessionRepository, guard *OwnershipGuard) SessionService {
	return &sessionService{repo: repo, guard: guard}
}

func (s *sessionService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.AnalysisSession, int, error) {
	sessions, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionService.List: %w", err)
	}
	if sessions == nil {
		sessions = []domain.AnalysisSession{}
	}
	return sessions, total, nil
}

func (s *sessionService) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.AnalysisSession, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(session, userID, domain.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) RemoteSetHistory(ctx context.Context, userID uuid.UUID) ([]domain.RemoteSetHistoryItem, error) {
	items, err := s.repo.ListRemoteSetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sessionService.RemoteSetHistory: %w", err)
	}
	if items == nil {
		items = []domain.RemoteSetHistoryItem{}
	}
	return items, nil
}

func (s *sessionService) ExportXLSX(ctx context.Context, userID, sessionID uuid.UUID) (*ExportFile, error) {
	session, err := s.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusCompleted {
		return nil, domain.ValidationError("only completed sessions can be exported")
	}

	var buf bytes.Buffer
	if err := export.WriteSessionWorkbook(&buf, session); err != nil {
		return nil, fmt.Errorf("sessionService.ExportXLSX: %w", err)
	}
	return &ExportFile{
		FileName:    export.BuildFilename(session.Summary, "xlsx"),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

// exportPageSize bounds each repository read while building a CSV export.
const exportPageSize = 500

func (s *sessionService) ExportCSV(ctx context.Context, userID uuid.UUID) (*ExportFile, error) {
	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewCSVWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("sessionService.ExportCSV: %w", err)
	}

	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.repo.ListByUser(ctx, userID, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("sessionService.ExportCSV: %w", err)
		}
		if err := w.WriteSessions(page); err != nil {
			return nil, fmt.Errorf("sessionService.ExportCSV: %w", err)
		}
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("sessionService.ExportCSV: %w", err)
	}

	return &ExportFile{
		FileName:    export.BuildFilename("analysis_sessions", "csv"),
		ContentType: csvContentType,
		Data:        buf.Bytes(),
	}, nil
}
