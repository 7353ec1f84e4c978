package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

type sessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new PostgreSQL-backed SessionRepository.
func NewSessionRepo(db *sqlx.DB) port.SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.AnalysisSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO analysis_sessions (id, user_id, rule_id, analysis_mode, remote_set_id, group_id,
			summary, document_ids, status, results, error_message, created_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.RuleID, s.Mode, s.RemoteSetID, s.GroupID,
		s.Summary, s.DocumentIDs, s.Status, s.Results, s.ErrorMessage, s.CreatedAt, s.StartedAt, s.CompletedAt)
	if err != nil {
		return fmt.Errorf("sessionRepo.Create: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisSession, error) {
	var s domain.AnalysisSession
	err := r.db.GetContext(ctx, &s, "SELECT * FROM analysis_sessions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.AnalysisSession, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM analysis_sessions WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.ListByUser count: %w", err)
	}

	var sessions []domain.AnalysisSession
	err = r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM analysis_sessions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.ListByUser: %w", err)
	}
	return sessions, total, nil
}

func (r *sessionRepo) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE analysis_sessions SET started_at = $1 WHERE id = $2 AND status = 'processing'",
		at, id)
	if err != nil {
		return fmt.Errorf("sessionRepo.MarkStarted: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepo) Finalize(ctx context.Context, s *domain.AnalysisSession) error {
	if !s.Status.IsTerminal() {
		return fmt.Errorf("sessionRepo.Finalize: %w: %s", domain.ErrInvalidTransition, s.Status)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE analysis_sessions SET status = $1, results = $2, error_message = $3, completed_at = $4
		 WHERE id = $5 AND status = 'processing'`,
		s.Status, s.Results, s.ErrorMessage, s.CompletedAt, s.ID)
	if err != nil {
		return fmt.Errorf("sessionRepo.Finalize: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("sessionRepo.Finalize: %w: session %s is not processing", domain.ErrInvalidTransition, s.ID)
	}
	return nil
}

func (r *sessionRepo) ListRemoteSetHistory(ctx context.Context, userID uuid.UUID) ([]domain.RemoteSetHistoryItem, error) {
	var items []domain.RemoteSetHistoryItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT remote_set_id, summary, last_analyzed FROM (
			SELECT DISTINCT ON (remote_set_id) remote_set_id, summary, created_at AS last_analyzed
			FROM analysis_sessions
			WHERE user_id = $1 AND remote_set_id IS NOT NULL
			ORDER BY remote_set_id, created_at DESC
		 ) latest
		 ORDER BY last_analyzed DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo.ListRemoteSetHistory: %w", err)
	}
	return items, nil
}

func (r *sessionRepo) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE analysis_sessions SET status = 'failed', results = NULL, error_message = $1, completed_at = NOW()
		 WHERE status = 'processing' AND COALESCE(started_at, created_at) < $2`,
		message, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sessionRepo.FailStale: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
