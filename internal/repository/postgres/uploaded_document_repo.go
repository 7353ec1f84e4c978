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

type uploadedDocumentRepo struct {
	db *sqlx.DB
}

// NewUploadedDocumentRepo creates a new PostgreSQL-backed UploadedDocumentRepository.
func NewUploadedDocumentRepo(db *sqlx.DB) port.UploadedDocumentRepository {
	return &uploadedDocumentRepo{db: db}
}

func (r *uploadedDocumentRepo) Create(ctx context.Context, d *domain.UploadedDocument) error {
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}

	query := `INSERT INTO uploaded_documents (id, user_id, group_id, file_name, original_name, file_url,
			storage_key, file_size, mime_type, document_type, description, checksum, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.UserID, d.GroupID, d.FileName, d.OriginalName, d.FileURL,
		d.StorageKey, d.FileSize, d.MimeType, d.DocumentType, d.Description, d.Checksum, d.UploadedAt)
	if err != nil {
		return fmt.Errorf("uploadedDocumentRepo.Create: %w", err)
	}
	return nil
}

func (r *uploadedDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadedDocument, error) {
	var d domain.UploadedDocument
	err := r.db.GetContext(ctx, &d, "SELECT * FROM uploaded_documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("uploadedDocumentRepo.GetByID: %w", err)
	}
	return &d, nil
}

func (r *uploadedDocumentRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.UploadedDocument, error) {
	var docs []domain.UploadedDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM uploaded_documents WHERE group_id = $1 ORDER BY uploaded_at", groupID)
	if err != nil {
		return nil, fmt.Errorf("uploadedDocumentRepo.ListByGroup: %w", err)
	}
	return docs, nil
}

func (r *uploadedDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM uploaded_documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("uploadedDocumentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
