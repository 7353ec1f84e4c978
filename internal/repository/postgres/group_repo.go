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

type groupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo creates a new PostgreSQL-backed GroupRepository.
func NewGroupRepo(db *sqlx.DB) port.GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, g *domain.DocumentGroup) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	query := `INSERT INTO document_groups (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.UserID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentGroup, error) {
	var g domain.DocumentGroup
	err := r.db.GetContext(ctx, &g, "SELECT * FROM document_groups WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}
	return &g, nil
}

func (r *groupRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DocumentGroup, error) {
	var groups []domain.DocumentGroup
	err := r.db.SelectContext(ctx, &groups,
		"SELECT * FROM document_groups WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.ListByUser: %w", err)
	}
	return groups, nil
}

func (r *groupRepo) Update(ctx context.Context, g *domain.DocumentGroup) error {
	g.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE document_groups SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		g.Name, g.Description, g.UpdatedAt, g.ID)
	if err != nil {
		return fmt.Errorf("groupRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// Delete removes the group; uploaded document rows go with it via ON DELETE CASCADE.
func (r *groupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM document_groups WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("groupRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}
