package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/metrics"
	"doccompare/internal/port"
)

// AnalyzeInput is the DTO for one analysis request.
type AnalyzeInput struct {
	UserID      uuid.UUID
	Mode        domain.AnalysisMode
	RemoteSetID string
	GroupID     uuid.UUID
	DocumentIDs []string
	RuleSource  domain.RuleSource
}

// AnalyzeOutput is the result of a completed analysis.
type AnalyzeOutput struct {
	SessionID uuid.UUID
	Summary   string
	Results   *domain.AnalysisResults
}

// AnalysisError is returned for failures after a session was created, so the
// caller can point the user at the failed session.
type AnalysisError struct {
	SessionID uuid.UUID
	Err       error
}

func (e *AnalysisError) Error() string { return e.Err.Error() }

func (e *AnalysisError) Unwrap() error { return e.Err }

// AnalysisService runs document comparisons end to end.
type AnalysisService interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error)
}

type analysisService struct {
	resolver   *RuleResolver
	guard      *OwnershipGuard
	groupRepo  port.GroupRepository
	sources    map[domain.AnalysisMode]DocumentSource
	dispatcher *Dispatcher
	sessions   *SessionManager
	metrics    *metrics.Metrics
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	resolver *RuleResolver,
	guard *OwnershipGuard,
	groupRepo port.GroupRepository,
	sources []DocumentSource,
	dispatcher *Dispatcher,
	sessions *SessionManager,
	m *metrics.Metrics,
) AnalysisService {
	byMode := make(map[domain.AnalysisMode]DocumentSource, len(sources))
	for _, src := range sources {
		byMode[src.Mode()] = src
	}
	return &analysisService{
		resolver:   resolver,
		guard:      guard,
		groupRepo:  groupRepo,
		sources:    byMode,
		dispatcher: dispatcher,
		sessions:   sessions,
		metrics:    m,
	}
}

// Analyze validates the request, resolves the rule, opens a session and runs
// the analysis. Once the session exists every outcome leaves it completed or
// failed, and failures come back as *AnalysisError.
func (s *analysisService) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	ref, err := validateAnalyzeInput(input)
	if err != nil {
		return nil, err
	}
	src, ok := s.sources[input.Mode]
	if !ok {
		return nil, domain.ValidationError(fmt.Sprintf("analysis mode %q is not available", input.Mode))
	}

	req := &SourceRequest{
		UserID:      input.UserID,
		RemoteSetID: input.RemoteSetID,
		GroupID:     input.GroupID,
		DocumentIDs: input.DocumentIDs,
	}
	if input.Mode == domain.AnalysisModeUploaded {
		group, err := s.groupRepo.GetByID(ctx, input.GroupID)
		if err != nil {
			return nil, fmt.Errorf("analysisService.Analyze: %w", err)
		}
		if err := s.guard.Require(group, input.UserID, domain.ErrGroupNotFound); err != nil {
			return nil, err
		}
		req.Group = group
	}

	rule, err := s.resolver.Resolve(ctx, input.UserID, input.RuleSource)
	if err != nil {
		return nil, err
	}

	summary := src.Summarize(ctx, req)

	var ruleID *uuid.UUID
	if rule.ID != uuid.Nil {
		id := rule.ID
		ruleID = &id
	}
	session, err := s.sessions.Create(ctx, &CreateSessionInput{
		UserID:      input.UserID,
		RuleID:      ruleID,
		Ref:         ref,
		DocumentIDs: input.DocumentIDs,
		Summary:     summary,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.run(ctx, session, src, req, rule)
	if err != nil {
		s.metrics.ObserveSession(session.Mode, domain.SessionStatusFailed, time.Since(start))
		return nil, &AnalysisError{SessionID: session.ID, Err: err}
	}
	s.metrics.ObserveSession(session.Mode, domain.SessionStatusCompleted, time.Since(start))

	return &AnalyzeOutput{SessionID: session.ID, Summary: summary, Results: results}, nil
}

// run executes everything that happens after the session exists. The deferred
// block fails the session on any error or panic before returning.
func (s *analysisService) run(
	ctx context.Context,
	session *domain.AnalysisSession,
	src DocumentSource,
	req *SourceRequest,
	rule *domain.ComparisonRule,
) (results *domain.AnalysisResults, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis aborted: %v", r)
		}
		if err == nil {
			return
		}
		results = nil
		if errors.Is(err, domain.ErrSessionClosed) {
			log.Printf("analysisService.run: session %s was closed before its results were recorded", session.ID)
			return
		}
		// The request context may already be canceled; the failure must still be recorded.
		if markErr := s.sessions.MarkFailed(context.WithoutCancel(ctx), session, err.Error()); markErr != nil {
			log.Printf("analysisService.run: session %s: marking failed: %v", session.ID, markErr)
		}
	}()

	s.sessions.MarkStarted(ctx, session)

	set, err := src.ResolveDocuments(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := s.dispatcher.Dispatch(ctx, req.UserID, req, rule, set)
	if err != nil {
		return nil, err
	}

	results, err = Aggregate(raw)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.MarkCompleted(ctx, session, results); err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			return nil, domain.ErrSessionClosed
		}
		return nil, err
	}
	log.Printf("analysisService.run: session %s completed (%d documents)", session.ID, len(session.DocumentIDs))
	return results, nil
}

func validateAnalyzeInput(input *AnalyzeInput) (domain.SetReference, error) {
	var ref domain.SetReference
	if input.UserID == uuid.Nil {
		return ref, domain.ErrUnauthorized
	}
	if !input.Mode.Valid() {
		return ref, domain.ValidationError("invalid mode: must be 'remote' or 'uploaded'")
	}
	if input.RuleSource == nil {
		return ref, domain.ValidationError("rule_id or rule_instructions is required")
	}
	if len(input.DocumentIDs) == 0 {
		return ref, domain.ValidationError("document_ids must not be empty")
	}
	seen := make(map[string]bool, len(input.DocumentIDs))
	for _, id := range input.DocumentIDs {
		if strings.TrimSpace(id) == "" {
			return ref, domain.ValidationError("document_ids must not contain blank ids")
		}
		if seen[id] {
			return ref, domain.ValidationError("document_ids must not contain duplicates: " + id)
		}
		seen[id] = true
	}

	switch input.Mode {
	case domain.AnalysisModeRemote:
		if strings.TrimSpace(input.RemoteSetID) == "" || input.GroupID != uuid.Nil {
			return ref, domain.ValidationError("remote mode requires quotation_id and no group_id")
		}
		setID := input.RemoteSetID
		ref.RemoteSetID = &setID
	case domain.AnalysisModeUploaded:
		if input.GroupID == uuid.Nil || input.RemoteSetID != "" {
			return ref, domain.ValidationError("uploaded mode requires group_id and no quotation_id")
		}
		for _, id := range input.DocumentIDs {
			if _, err := uuid.Parse(id); err != nil {
				return ref, domain.ValidationError("invalid document id: " + id)
			}
		}
		groupID := input.GroupID
		ref.GroupID = &groupID
	}
	return ref, ref.Validate()
}
