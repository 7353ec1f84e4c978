package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/port"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func TestDispatcher_BuildRequest_Uploaded(t *testing.T) {
	d := service.NewDispatcher(new(mocks.MockAnalysisEngine))
	userID := uuid.New()
	groupID := uuid.New()
	rule := ownedRule(userID)
	set := &service.DocumentSet{
		Mode:        domain.AnalysisModeUploaded,
		DocumentIDs: []string{"1"},
		Documents:   []port.EncodedDocument{{ID: "1", Content: "eA=="}},
	}

	req := d.BuildRequest(userID, &service.SourceRequest{GroupID: groupID}, rule, set)

	assert.Equal(t, groupID.String(), req.GroupID)
	assert.Empty(t, req.RemoteSetID)
	assert.Len(t, req.Documents, 1)
	assert.Nil(t, req.References)
	assert.Equal(t, rule.ID.String(), req.RuleID)
	assert.Equal(t, []string{"gross_weight"}, req.Rule.ExtractionFields)
}

func TestDispatcher_BuildRequest_InlineRuleHasNoID(t *testing.T) {
	d := service.NewDispatcher(new(mocks.MockAnalysisEngine))
	rule := &domain.ComparisonRule{Name: domain.CustomRuleName, ComparisonInstructions: "x"}
	set := &service.DocumentSet{Mode: domain.AnalysisModeRemote, DocumentIDs: []string{"D1"}}

	req := d.BuildRequest(uuid.New(), &service.SourceRequest{RemoteSetID: "QT-1"}, rule, set)

	assert.Empty(t, req.RuleID)
	assert.Equal(t, "QT-1", req.RemoteSetID)
	assert.NotNil(t, req.Rule.CriticalChecks)
}

func TestDispatcher_Dispatch_WrapsUnknownErrors(t *testing.T) {
	engine := new(mocks.MockAnalysisEngine)
	engine.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("weird"))
	d := service.NewDispatcher(engine)
	set := &service.DocumentSet{Mode: domain.AnalysisModeRemote}

	_, err := d.Dispatch(context.Background(), uuid.New(), &service.SourceRequest{}, &domain.ComparisonRule{}, set)

	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
	engine.AssertNumberOfCalls(t, "Analyze", 1)
}

func TestDispatcher_Dispatch_KeepsUpstreamCategory(t *testing.T) {
	engine := new(mocks.MockAnalysisEngine)
	engine.On("Analyze", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstreamUnavailable)
	d := service.NewDispatcher(engine)
	set := &service.DocumentSet{Mode: domain.AnalysisModeRemote}

	_, err := d.Dispatch(context.Background(), uuid.New(), &service.SourceRequest{}, &domain.ComparisonRule{}, set)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, domain.ErrAnalysisFailed)
}
