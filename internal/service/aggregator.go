package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"doccompare/internal/domain"
)

// Aggregate interprets the engine response as AnalysisResults without
// reordering or rewriting it. A body with "success": false is an analysis
// failure; anything that is not a JSON object of the expected shape is malformed.
func Aggregate(raw json.RawMessage) (*domain.AnalysisResults, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: engine response is not a JSON object", domain.ErrMalformedUpstreamResponse)
	}

	var envelope struct {
		domain.AnalysisResults
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedUpstreamResponse, err)
	}
	if envelope.Success != nil && !*envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = "engine reported failure"
		}
		return nil, fmt.Errorf("%s: %w", msg, domain.ErrAnalysisFailed)
	}

	results := envelope.AnalysisResults
	results.Success = true
	if results.Results == nil {
		results.Results = []domain.DocumentFeedback{}
	}
	if results.CriticalCheckResults == nil {
		results.CriticalCheckResults = []domain.CriticalCheckResult{}
	}
	return &results, nil
}
