package service

import (
	"context"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// SourceRequest scopes one document resolution.
type SourceRequest struct {
	UserID      uuid.UUID
	RemoteSetID string
	GroupID     uuid.UUID
	// Group is the already ownership-checked group in uploaded mode.
	Group       *domain.DocumentGroup
	DocumentIDs []string
}

// DocumentSet is what a DocumentSource hands to the dispatcher. Remote sets
// carry References; uploaded groups carry encoded Documents.
type DocumentSet struct {
	Mode        domain.AnalysisMode
	DocumentIDs []string
	References  []port.DocumentReference
	Documents   []port.EncodedDocument
}

// DocumentSource acquires the documents of one analysis mode.
type DocumentSource interface {
	Mode() domain.AnalysisMode
	// Summarize derives a display label. It never fails.
	Summarize(ctx context.Context, req *SourceRequest) string
	ResolveDocuments(ctx context.Context, req *SourceRequest) (*DocumentSet, error)
}
