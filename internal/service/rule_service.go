package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// CreateRuleInput is the DTO for creating a comparison rule.
type CreateRuleInput struct {
	UserID                 uuid.UUID
	Name                   string
	Description            string
	ExtractionFields       []string
	ComparisonInstructions string
	CriticalChecks         []string
}

// UpdateRuleInput is the DTO for a partial rule update. Nil fields are left unchanged.
type UpdateRuleInput struct {
	UserID                 uuid.UUID
	RuleID                 uuid.UUID
	Name                   *string
	Description            *string
	ExtractionFields       []string
	ComparisonInstructions *string
	CriticalChecks         []string
}

// RuleService defines the comparison rule management contract.
type RuleService interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.ComparisonRule, error)
	GetByID(ctx context.Context, userID, ruleID uuid.UUID) (*domain.ComparisonRule, error)
	Create(ctx context.Context, input *CreateRuleInput) (*domain.ComparisonRule, error)
	Update(ctx context.Context, input *UpdateRuleInput) (*domain.ComparisonRule, error)
	Delete(ctx context.Context, userID, ruleID uuid.UUID) error
}

type ruleService struct {
	repo  port.RuleRepository
	guard *OwnershipGuard
}

// NewRuleService creates a new RuleService implementation.
func NewRuleService(repo port.RuleRepository, guard *OwnershipGuard) RuleService {
	return &ruleService{repo: repo, guard: guard}
}

// List returns the user's rules, default first. A user without a default
// rule gets one provisioned on first listing.
func (s *ruleService) List(ctx context.Context, userID uuid.UUID) ([]domain.ComparisonRule, error) {
	rules, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ruleService.List: %w", err)
	}
	if !hasDefault(rules) {
		def := DefaultRule(userID)
		created, err := s.repo.CreateDefault(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("ruleService.List: provisioning default rule: %w", err)
		}
		if created {
			log.Printf("ruleService.List: provisioned default rule %s for user %s", def.ID, userID)
		}
		// Re-read so a default provisioned concurrently is returned in order.
		if rules, err = s.repo.ListByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("ruleService.List: %w", err)
		}
	}
	if rules == nil {
		rules = []domain.ComparisonRule{}
	}
	return rules, nil
}

// DefaultRule builds the general purpose rule every user starts with.
func DefaultRule(userID uuid.UUID) *domain.ComparisonRule {
	return &domain.ComparisonRule{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "Standard Document Comparison",
		Description: "Cross-checks shipment documents for consistent parties, quantities and values.",
		ExtractionFields: domain.StringList{
			"document_number", "document_date", "shipper", "consignee",
			"description_of_goods", "quantity", "gross_weight", "net_weight", "total_value",
		},
		ComparisonInstructions: "Compare the documents with each other. Report every field whose value differs between documents, " +
			"naming the documents involved and both values. Treat formatting differences in dates, units and currency as matches.",
		CriticalChecks: domain.StringList{
			"Shipper and consignee match on all documents",
			"Quantities match on all documents",
			"Gross and net weights match on all documents",
			"Total value matches on all documents",
		},
		IsDefault: true,
	}
}

func hasDefault(rules []domain.ComparisonRule) bool {
	for i := range rules {
		if rules[i].IsDefault {
			return true
		}
	}
	return false
}

func (s *ruleService) GetByID(ctx context.Context, userID, ruleID uuid.UUID) (*domain.ComparisonRule, error) {
	rule, err := s.repo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(rule, userID, domain.ErrRuleNotFound); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *ruleService) Create(ctx context.Context, input *CreateRuleInput) (*domain.ComparisonRule, error) {
	name := strings.TrimSpace(input.Name)
	instructions := strings.TrimSpace(input.ComparisonInstructions)
	if name == "" || instructions == "" {
		return nil, domain.ValidationError("name and comparison_instructions are required")
	}

	rule := &domain.ComparisonRule{
		ID:                     uuid.New(),
		UserID:                 input.UserID,
		Name:                   name,
		Description:            strings.TrimSpace(input.Description),
		ExtractionFields:       cleanList(input.ExtractionFields),
		ComparisonInstructions: instructions,
		CriticalChecks:         cleanList(input.CriticalChecks),
		IsDefault:              false,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("ruleService.Create: %w", err)
	}
	return rule, nil
}

func (s *ruleService) Update(ctx context.Context, input *UpdateRuleInput) (*domain.ComparisonRule, error) {
	rule, err := s.GetByID(ctx, input.UserID, input.RuleID)
	if err != nil {
		return nil, err
	}
	if rule.IsDefault {
		return nil, domain.ErrDefaultRuleImmutable
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ValidationError("name must not be empty")
		}
		rule.Name = name
	}
	if input.Description != nil {
		rule.Description = strings.TrimSpace(*input.Description)
	}
	if input.ComparisonInstructions != nil {
		instructions := strings.TrimSpace(*input.ComparisonInstructions)
		if instructions == "" {
			return nil, domain.ValidationError("comparison_instructions must not be empty")
		}
		rule.ComparisonInstructions = instructions
	}
	if input.ExtractionFields != nil {
		rule.ExtractionFields = cleanList(input.ExtractionFields)
	}
	if input.CriticalChecks != nil {
		rule.CriticalChecks = cleanList(input.CriticalChecks)
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("ruleService.Update: %w", err)
	}
	return rule, nil
}

func (s *ruleService) Delete(ctx context.Context, userID, ruleID uuid.UUID) error {
	rule, err := s.GetByID(ctx, userID, ruleID)
	if err != nil {
		return err
	}
	if rule.IsDefault {
		return domain.ErrDefaultRuleImmutable
	}
	if err := s.repo.Delete(ctx, ruleID); err != nil {
		return fmt.Errorf("ruleService.Delete: %w", err)
	}
	return nil
}

// cleanList trims entries and drops blanks, keeping order.
func cleanList(in []string) domain.StringList {
	out := make(domain.StringList, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
