package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccompare/internal/domain"
	"doccompare/internal/service"
)

func TestAggregate_PreservesEngineOrder(t *testing.T) {
	raw := json.RawMessage(`{
		"success": true,
		"full_feedback": "summary",
		"results": [
			{"document_id": "b", "sequence_order": 2},
			{"document_id": "a", "sequence_order": 1}
		],
		"extracted_data": {"gross_weight": {"a": "10kg", "b": "12kg"}},
		"critical_checks_results": [
			{"check_name": "weights", "status": "FAIL", "issue": "mismatch"},
			{"check_name": "names", "status": "WARNING"}
		],
		"critical_checks_list": ["weights", "names"]
	}`)

	res, err := service.Aggregate(raw)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "summary", res.FullFeedback)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "b", res.Results[0].DocumentID)
	assert.Equal(t, domain.CheckStatusFail, res.CriticalCheckResults[0].Status)
	assert.Equal(t, domain.CheckStatusWarning, res.CriticalCheckResults[1].Status)
	assert.Contains(t, res.ExtractedData, "gross_weight")
}

func TestAggregate_NormalizesMissingLists(t *testing.T) {
	res, err := service.Aggregate(json.RawMessage(`{"success": true}`))

	require.NoError(t, err)
	assert.NotNil(t, res.Results)
	assert.NotNil(t, res.CriticalCheckResults)
}

func TestAggregate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", ``, domain.ErrMalformedUpstreamResponse},
		{"array", `[1,2]`, domain.ErrMalformedUpstreamResponse},
		{"wrong shape", `{"results": "nope"}`, domain.ErrMalformedUpstreamResponse},
		{"unsuccessful", `{"success": false, "error": "bad scans"}`, domain.ErrAnalysisFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Aggregate(json.RawMessage(tt.raw))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
