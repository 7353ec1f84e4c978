package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"doccompare/internal/domain"
)

// RuleRepository defines the contract for comparison rule persistence.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.ComparisonRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ComparisonRule, error)
	// ListByUser returns the user's rules, default rules first then newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ComparisonRule, error)
	// CreateDefault inserts rule as the user's default unless one exists.
	// Reports whether a row was inserted.
	CreateDefault(ctx context.Context, rule *domain.ComparisonRule) (bool, error)
	Update(ctx context.Context, rule *domain.ComparisonRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository defines the contract for document group persistence.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.DocumentGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentGroup, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DocumentGroup, error)
	Update(ctx context.Context, group *domain.DocumentGroup) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UploadedDocumentRepository defines the contract for uploaded document metadata.
type UploadedDocumentRepository interface {
	Create(ctx context.Context, doc *domain.UploadedDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadedDocument, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.UploadedDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository defines the contract for analysis session persistence.
// Every update is a single-row atomic statement.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.AnalysisSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.AnalysisSession, int, error)
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	// Finalize writes a terminal status, results, error message and completed_at.
	// It only applies to sessions still in processing.
	Finalize(ctx context.Context, session *domain.AnalysisSession) error
	ListRemoteSetHistory(ctx context.Context, userID uuid.UUID) ([]domain.RemoteSetHistoryItem, error)
	// FailStale fails every processing session started before cutoff and
	// returns how many were updated.
	FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error)
}
