package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// CreateSessionInput is the DTO for opening an analysis session.
type CreateSessionInput struct {
	UserID      uuid.UUID
	RuleID      *uuid.UUID
	Ref         domain.SetReference
	DocumentIDs []string
	Summary     string
}

// SessionManager owns the lifecycle of analysis sessions.
type SessionManager struct {
	repo port.SessionRepository
	now  func() time.Time
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(repo port.SessionRepository) *SessionManager {
	return &SessionManager{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists a new session already in processing.
func (m *SessionManager) Create(ctx context.Context, in *CreateSessionInput) (*domain.AnalysisSession, error) {
	if len(in.DocumentIDs) == 0 {
		return nil, domain.ValidationError("document_ids must not be empty")
	}
	if err := in.Ref.Validate(); err != nil {
		return nil, err
	}

	session := &domain.AnalysisSession{
		ID:          uuid.New(),
		UserID:      in.UserID,
		RuleID:      in.RuleID,
		Mode:        in.Ref.Mode(),
		RemoteSetID: in.Ref.RemoteSetID,
		GroupID:     in.Ref.GroupID,
		Summary:     in.Summary,
		DocumentIDs: append(domain.StringList{}, in.DocumentIDs...),
		Status:      domain.SessionStatusPending,
		CreatedAt:   m.now(),
	}
	if err := session.Begin(); err != nil {
		return nil, err
	}

	if err := m.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("sessionManager.Create: %w: %w", domain.ErrPersistence, err)
	}
	return session, nil
}

// MarkStarted records started_at. Failures are logged and not retried.
func (m *SessionManager) MarkStarted(ctx context.Context, s *domain.AnalysisSession) {
	at := m.now()
	if err := m.repo.MarkStarted(ctx, s.ID, at); err != nil {
		log.Printf("sessionManager.MarkStarted: session %s: %v", s.ID, err)
		return
	}
	s.StartedAt = &at
}

// MarkCompleted attaches results and closes the session. s is only updated
// once the write succeeds.
func (m *SessionManager) MarkCompleted(ctx context.Context, s *domain.AnalysisSession, results *domain.AnalysisResults) error {
	next := *s
	if err := next.Complete(results, m.now()); err != nil {
		return fmt.Errorf("sessionManager.MarkCompleted: %w", err)
	}
	if err := m.repo.Finalize(ctx, &next); err != nil {
		return finalizeError("sessionManager.MarkCompleted", err)
	}
	*s = next
	return nil
}

// MarkFailed records msg and closes the session as failed.
func (m *SessionManager) MarkFailed(ctx context.Context, s *domain.AnalysisSession, msg string) error {
	next := *s
	if err := next.Fail(msg, m.now()); err != nil {
		return fmt.Errorf("sessionManager.MarkFailed: %w", err)
	}
	if err := m.repo.Finalize(ctx, &next); err != nil {
		return finalizeError("sessionManager.MarkFailed", err)
	}
	*s = next
	return nil
}

// finalizeError separates a session that was already closed elsewhere, such
// as by the reaper, from a failed write.
func finalizeError(op string, err error) error {
	if errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("%s: %w", op, domain.ErrSessionClosed)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
