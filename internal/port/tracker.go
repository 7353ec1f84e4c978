package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"doccompare/internal/domain"
)

// DocumentProvider is the external system that owns remote document sets.
type DocumentProvider interface {
	ListDocuments(ctx context.Context, setID string) ([]domain.RemoteDocument, error)
	GetSetDetails(ctx context.Context, setID string) (*domain.RemoteSetDetails, error)
}

// DocumentReference points the engine at a remote document it fetches itself.
type DocumentReference struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	FileURL      string `json:"file_url"`
	DocumentType string `json:"document_type,omitempty"`
}

// EncodedDocument carries an uploaded document inline as base64 content.
type EncodedDocument struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	DocumentType string `json:"document_type,omitempty"`
	MimeType     string `json:"mime_type"`
	Content      string `json:"content"`
}

// RulePayload is the rule material attached to an engine request.
type RulePayload struct {
	Name                   string   `json:"name"`
	ComparisonInstructions string   `json:"comparison_instructions"`
	ExtractionFields       []string `json:"extraction_fields"`
	CriticalChecks         []string `json:"critical_checks"`
}

// AnalyzeRequest is the single outbound call made to the analysis engine for a session.
// Exactly one of References or Documents is populated, depending on Mode.
type AnalyzeRequest struct {
	Mode        domain.AnalysisMode `json:"analysis_mode"`
	RemoteSetID string              `json:"quotation_id,omitempty"`
	GroupID     string              `json:"group_id,omitempty"`
	DocumentIDs []string            `json:"document_ids"`
	References  []DocumentReference `json:"document_references,omitempty"`
	Documents   []EncodedDocument   `json:"documents,omitempty"`
	RuleID      string              `json:"rule_id,omitempty"`
	Rule        RulePayload         `json:"rule"`
	UserID      uuid.UUID           `json:"user_id"`
}

// AnalysisEngine is the external AI comparison engine. Analyze returns the
// raw response body of a successful call.
type AnalysisEngine interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (json.RawMessage, error)
}

// SetDetailsCache caches provider set metadata. A miss returns (nil, nil).
type SetDetailsCache interface {
	Get(ctx context.Context, setID string) (*domain.RemoteSetDetails, error)
	Set(ctx context.Context, details *domain.RemoteSetDetails, ttl time.Duration) error
}
