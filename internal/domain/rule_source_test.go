package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccompare/internal/domain"
)

func TestNewRuleSource_InlineWinsOverID(t *testing.T) {
	ruleID := uuid.New()
	inline := &domain.InlineRule{ComparisonInstructions: "compare weights"}

	src, err := domain.NewRuleSource(&ruleID, inline)
	require.NoError(t, err)
	assert.IsType(t, domain.InlineRule{}, src)
	assert.Equal(t, "compare weights", src.(domain.InlineRule).ComparisonInstructions)
}

func TestNewRuleSource_StoredWhenNoInline(t *testing.T) {
	ruleID := uuid.New()

	src, err := domain.NewRuleSource(&ruleID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StoredRule{ID: ruleID}, src)
}

func TestNewRuleSource_BlankInlineFallsBackToID(t *testing.T) {
	ruleID := uuid.New()
	inline := &domain.InlineRule{ComparisonInstructions: "   "}

	src, err := domain.NewRuleSource(&ruleID, inline)
	require.NoError(t, err)
	assert.Equal(t, domain.StoredRule{ID: ruleID}, src)
}

func TestNewRuleSource_InlineOnly(t *testing.T) {
	src, err := domain.NewRuleSource(nil, &domain.InlineRule{ComparisonInstructions: "x"})
	require.NoError(t, err)
	assert.IsType(t, domain.InlineRule{}, src)
}

func TestNewRuleSource_Neither(t *testing.T) {
	_, err := domain.NewRuleSource(nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	nilID := uuid.Nil
	_, err = domain.NewRuleSource(&nilID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
