package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// Dispatcher builds and sends the single engine call for a session.
type Dispatcher struct {
	engine port.AnalysisEngine
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(engine port.AnalysisEngine) *Dispatcher {
	return &Dispatcher{engine: engine}
}

// BuildRequest shapes the engine payload for set and attaches the rule.
func (d *Dispatcher) BuildRequest(userID uuid.UUID, req *SourceRequest, rule *domain.ComparisonRule, set *DocumentSet) *port.AnalyzeRequest {
	out := &port.AnalyzeRequest{
		Mode:        set.Mode,
		DocumentIDs: set.DocumentIDs,
		Rule: port.RulePayload{
			Name:                   rule.Name,
			ComparisonInstructions: rule.ComparisonInstructions,
			ExtractionFields:       append([]string{}, rule.ExtractionFields...),
			CriticalChecks:         append([]string{}, rule.CriticalChecks...),
		},
		UserID: userID,
	}
	if rule.ID != uuid.Nil {
		out.RuleID = rule.ID.String()
	}
	switch set.Mode {
	case domain.AnalysisModeRemote:
		out.RemoteSetID = req.RemoteSetID
		out.References = set.References
	case domain.AnalysisModeUploaded:
		out.GroupID = req.GroupID.String()
		out.Documents = set.Documents
	}
	return out
}

// Dispatch sends one request and returns the raw engine response. It never retries.
func (d *Dispatcher) Dispatch(ctx context.Context, userID uuid.UUID, req *SourceRequest, rule *domain.ComparisonRule, set *DocumentSet) (json.RawMessage, error) {
	raw, err := d.engine.Analyze(ctx, d.BuildRequest(userID, req, rule, set))
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) || errors.Is(err, domain.ErrAnalysisFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}
	return raw, nil
}
