package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Owned is implemented by every entity that belongs to a single user.
type Owned interface {
	OwnerID() uuid.UUID
}

// ComparisonRule is a named bundle of extraction fields, comparison
// instructions and critical checks that parameterizes one analysis.
type ComparisonRule struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	UserID                 uuid.UUID  `db:"user_id" json:"user_id"`
	Name                   string     `db:"name" json:"name"`
	Description            string     `db:"description" json:"description"`
	ExtractionFields       StringList `db:"extraction_fields" json:"extraction_fields"`
	ComparisonInstructions string     `db:"comparison_instructions" json:"comparison_instructions"`
	CriticalChecks         StringList `db:"critical_checks" json:"critical_checks"`
	IsDefault              bool       `db:"is_default" json:"is_default"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *ComparisonRule) OwnerID() uuid.UUID { return r.UserID }

// Clone returns a deep copy so callers can never mutate a shared rule.
func (r *ComparisonRule) Clone() *ComparisonRule {
	c := *r
	c.ExtractionFields = append(StringList(nil), r.ExtractionFields...)
	c.CriticalChecks = append(StringList(nil), r.CriticalChecks...)
	return &c
}

// DocumentGroup is a user-owned folder of uploaded documents.
type DocumentGroup struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (g *DocumentGroup) OwnerID() uuid.UUID { return g.UserID }

// UploadedDocument stores metadata about a file a user uploaded into a group.
type UploadedDocument struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	GroupID      uuid.UUID `db:"group_id" json:"group_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	OriginalName string    `db:"original_name" json:"original_name"`
	FileURL      string    `db:"file_url" json:"file_url"`
	StorageKey   string    `db:"storage_key" json:"-"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	DocumentType string    `db:"document_type" json:"document_type,omitempty"`
	Description  string    `db:"description" json:"description,omitempty"`
	Checksum     string    `db:"checksum" json:"checksum,omitempty"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
}

func (d *UploadedDocument) OwnerID() uuid.UUID { return d.UserID }

// RemoteDocument is a document owned by the external provider, listed by set id.
type RemoteDocument struct {
	ID           string    `json:"id"`
	SetID        string    `json:"quotation_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	FileURL      string    `json:"file_url"`
	Description  string    `json:"description,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// RemoteSetDetails is provider metadata used to label a remote set.
type RemoteSetDetails struct {
	SetID       string `json:"quotation_id"`
	Company     string `json:"company"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// SetReference scopes a session to exactly one of a remote set or an uploaded group.
type SetReference struct {
	RemoteSetID *string
	GroupID     *uuid.UUID
}

// Validate enforces that exactly one side of the reference is set.
func (r SetReference) Validate() error {
	hasRemote := r.RemoteSetID != nil && *r.RemoteSetID != ""
	hasGroup := r.GroupID != nil && *r.GroupID != uuid.Nil
	if hasRemote == hasGroup {
		return ValidationError("exactly one of remote set id or group id is required")
	}
	return nil
}

// Mode returns the analysis mode implied by the reference.
func (r SetReference) Mode() AnalysisMode {
	if r.GroupID != nil {
		return AnalysisModeUploaded
	}
	return AnalysisModeRemote
}

// AnalysisSession is the durable record of one analysis request.
type AnalysisSession struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	UserID       uuid.UUID        `db:"user_id" json:"user_id"`
	RuleID       *uuid.UUID       `db:"rule_id" json:"rule_id"`
	Mode         AnalysisMode     `db:"analysis_mode" json:"analysis_mode"`
	RemoteSetID  *string          `db:"remote_set_id" json:"remote_set_id,omitempty"`
	GroupID      *uuid.UUID       `db:"group_id" json:"group_id,omitempty"`
	Summary      string           `db:"summary" json:"summary"`
	DocumentIDs  StringList       `db:"document_ids" json:"document_ids"`
	Status       SessionStatus    `db:"status" json:"status"`
	Results      *AnalysisResults `db:"results" json:"results,omitempty"`
	ErrorMessage *string          `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	StartedAt    *time.Time       `db:"started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

func (s *AnalysisSession) OwnerID() uuid.UUID { return s.UserID }

func (s *AnalysisSession) transition(next SessionStatus) error {
	if !s.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, next)
	}
	s.Status = next
	return nil
}

// Begin moves a pending session into processing.
func (s *AnalysisSession) Begin() error {
	return s.transition(SessionStatusProcessing)
}

// Complete attaches results and closes the session successfully.
func (s *AnalysisSession) Complete(results *AnalysisResults, at time.Time) error {
	if results == nil {
		return ValidationError("completed session requires results")
	}
	if err := s.transition(SessionStatusCompleted); err != nil {
		return err
	}
	s.Results = results
	s.ErrorMessage = nil
	s.CompletedAt = &at
	return nil
}

// Fail records msg and closes the session as failed.
func (s *AnalysisSession) Fail(msg string, at time.Time) error {
	if err := s.transition(SessionStatusFailed); err != nil {
		return err
	}
	if msg == "" {
		msg = "unknown analysis error"
	}
	s.ErrorMessage = &msg
	s.Results = nil
	s.CompletedAt = &at
	return nil
}

// DocumentFeedback is the engine's feedback for one document.
type DocumentFeedback struct {
	DocumentID    string `json:"document_id"`
	DocumentName  string `json:"document_name"`
	DocumentType  string `json:"document_type"`
	AIFeedback    string `json:"ai_feedback"`
	SequenceOrder int    `json:"sequence_order"`
}

// CriticalCheckResult is the engine's verdict on one critical check.
type CriticalCheckResult struct {
	CheckName string              `json:"check_name"`
	Status    CriticalCheckStatus `json:"status"`
	Details   string              `json:"details"`
	Issue     string              `json:"issue"`
}

// AnalysisResults is the normalized engine response persisted on a completed session.
type AnalysisResults struct {
	Success              bool                  `json:"success"`
	FullFeedback         string                `json:"full_feedback,omitempty"`
	Results              []DocumentFeedback    `json:"results"`
	ExtractedData        map[string]any        `json:"extracted_data,omitempty"`
	CriticalCheckResults []CriticalCheckResult `json:"critical_checks_results"`
	CriticalChecksList   []string              `json:"critical_checks_list,omitempty"`
}

// RemoteSetHistoryItem summarizes the latest analysis of one remote set.
type RemoteSetHistoryItem struct {
	RemoteSetID  string    `db:"remote_set_id" json:"remote_set_id"`
	Summary      string    `db:"summary" json:"summary"`
	LastAnalyzed time.Time `db:"last_analyzed" json:"last_analyzed"`
}
