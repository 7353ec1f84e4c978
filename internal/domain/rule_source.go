package domain

import (
	"strings"

	"github.com/google/uuid"
)

// RuleSource tells the resolver where a rule comes from: a stored rule by id
// or an inline bundle supplied with the request.
type RuleSource interface {
	isRuleSource()
}

// StoredRule references a persisted ComparisonRule.
type StoredRule struct {
	ID uuid.UUID
}

// InlineRule is an ad-hoc rule supplied by the caller; it is never persisted.
type InlineRule struct {
	ComparisonInstructions string   `json:"comparison_instructions"`
	ExtractionFields       []string `json:"extraction_fields"`
	CriticalChecks         []string `json:"critical_checks"`
}

func (StoredRule) isRuleSource() {}
func (InlineRule) isRuleSource() {}

// NewRuleSource picks the rule source for a request. Inline instructions win
// over a rule id when both are present.
func NewRuleSource(ruleID *uuid.UUID, inline *InlineRule) (RuleSource, error) {
	if inline != nil && strings.TrimSpace(inline.ComparisonInstructions) != "" {
		return *inline, nil
	}
	if ruleID != nil && *ruleID != uuid.Nil {
		return StoredRule{ID: *ruleID}, nil
	}
	return nil, ValidationError("rule_id or rule_instructions is required")
}
