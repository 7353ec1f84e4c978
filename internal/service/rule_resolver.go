package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// RuleResolver turns a RuleSource into a concrete rule for one analysis.
type RuleResolver struct {
	rules port.RuleRepository
	guard *OwnershipGuard
}

// NewRuleResolver creates a RuleResolver.
func NewRuleResolver(rules port.RuleRepository, guard *OwnershipGuard) *RuleResolver {
	return &RuleResolver{rules: rules, guard: guard}
}

// Resolve returns a private copy of the rule. Inline rules are never stored
// and carry uuid.Nil as their id.
func (r *RuleResolver) Resolve(ctx context.Context, userID uuid.UUID, src domain.RuleSource) (*domain.ComparisonRule, error) {
	switch s := src.(type) {
	case domain.InlineRule:
		return &domain.ComparisonRule{
			ID:                     uuid.Nil,
			UserID:                 userID,
			Name:                   domain.CustomRuleName,
			ComparisonInstructions: s.ComparisonInstructions,
			ExtractionFields:       append(domain.StringList{}, s.ExtractionFields...),
			CriticalChecks:         append(domain.StringList{}, s.CriticalChecks...),
		}, nil

	case domain.StoredRule:
		rule, err := r.rules.GetByID(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("ruleResolver.Resolve: %w", err)
		}
		if err := r.guard.Require(rule, userID, domain.ErrRuleNotFound); err != nil {
			return nil, err
		}
		return rule.Clone(), nil

	case nil:
		return nil, domain.ValidationError("rule_id or rule_instructions is required")
	}
	return nil, domain.ValidationError(fmt.Sprintf("unsupported rule source %T", src))
}
