package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

type ruleRepo struct {
	db *sqlx.DB
}

// NewRuleRepo creates a new PostgreSQL-backed RuleRepository.
func NewRuleRepo(db *sqlx.DB) port.RuleRepository {
	return &ruleRepo{db: db}
}

func (r *ruleRepo) Create(ctx context.Context, rule *domain.ComparisonRule) error {
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `INSERT INTO comparison_rules (id, user_id, name, description, extraction_fields,
			comparison_instructions, critical_checks, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.UserID, rule.Name, rule.Description, rule.ExtractionFields,
		rule.ComparisonInstructions, rule.CriticalChecks, rule.IsDefault, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ruleRepo.Create: %w", err)
	}
	return nil
}

func (r *ruleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComparisonRule, error) {
	var rule domain.ComparisonRule
	err := r.db.GetContext(ctx, &rule, "SELECT * FROM comparison_rules WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("ruleRepo.GetByID: %w", err)
	}
	return &rule, nil
}

func (r *ruleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ComparisonRule, error) {
	var rules []domain.ComparisonRule
	err := r.db.SelectContext(ctx, &rules,
		`SELECT * FROM comparison_rules WHERE user_id = $1
		 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.ListByUser: %w", err)
	}
	return rules, nil
}

func (r *ruleRepo) CreateDefault(ctx context.Context, rule *domain.ComparisonRule) (bool, error) {
	now := time.Now().UTC()
	rule.IsDefault = true
	rule.CreatedAt = now
	rule.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comparison_rules (id, user_id, name, description, extraction_fields,
			comparison_instructions, critical_checks, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9)
		 ON CONFLICT (user_id) WHERE is_default DO NOTHING`,
		rule.ID, rule.UserID, rule.Name, rule.Description, rule.ExtractionFields,
		rule.ComparisonInstructions, rule.CriticalChecks, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("ruleRepo.CreateDefault: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

func (r *ruleRepo) Update(ctx context.Context, rule *domain.ComparisonRule) error {
	rule.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE comparison_rules SET name = $1, description = $2, extraction_fields = $3,
			comparison_instructions = $4, critical_checks = $5, updated_at = $6
		 WHERE id = $7 AND is_default = FALSE`,
		rule.Name, rule.Description, rule.ExtractionFields,
		rule.ComparisonInstructions, rule.CriticalChecks, rule.UpdatedAt, rule.ID)
	if err != nil {
		return fmt.Errorf("ruleRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *ruleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM comparison_rules WHERE id = $1 AND is_default = FALSE", id)
	if err != nil {
		return fmt.Errorf("ruleRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}
