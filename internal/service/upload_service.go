package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/export"
	"doccompare/internal/port"
)

// UploadDocumentInput is the DTO for uploading a file into a document group.
type UploadDocumentInput struct {
	UserID       uuid.UUID
	GroupID      uuid.UUID
	DocumentType string
	Description  string
	File         multipart.File
	Header       *multipart.FileHeader
}

// UploadService defines the uploaded document management contract.
type UploadService interface {
	Upload(ctx context.Context, input *UploadDocumentInput) (*domain.UploadedDocument, error)
	ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]domain.UploadedDocument, error)
	Delete(ctx context.Context, userID, documentID uuid.UUID) error
}

type uploadService struct {
	groups        GroupService
	docRepo       port.UploadedDocumentRepository
	storage       port.ObjectStorage
	bucket        string
	presignExpiry int64
	maxBytes      int64
	guard         *OwnershipGuard
	now           func() time.Time
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	groups GroupService,
	docRepo port.UploadedDocumentRepository,
	storage port.ObjectStorage,
	bucket string,
	presignExpiry int64,
	maxBytes int64,
	guard *OwnershipGuard,
) UploadService {
	return &uploadService{
		groups:        groups,
		docRepo:       docRepo,
		storage:       storage,
		bucket:        bucket,
		presignExpiry: presignExpiry,
		maxBytes:      maxBytes,
		guard:         guard,
		now:           time.Now,
	}
}

func (s *uploadService) Upload(ctx context.Context, input *UploadDocumentInput) (*domain.UploadedDocument, error) {
	if input.File == nil || input.Header == nil {
		return nil, domain.ValidationError("file is required")
	}
	if _, err := s.groups.GetByID(ctx, input.UserID, input.GroupID); err != nil {
		return nil, err
	}

	if input.Header.Size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	mimeType := uploadMimeType(input.Header)
	if !domain.AllowedUploadTypes[mimeType] {
		return nil, domain.ErrUnsupportedFileType
	}

	// Read one byte past the limit so a lying Content-Length is still caught.
	content, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	sum := sha256.Sum256(content)

	fileName := storedFileName(input.UserID, s.now(), input.Header.Filename)
	key := fmt.Sprintf("uploads/%s/groups/%s/%s", input.UserID, input.GroupID, fileName)

	log.Printf("uploadService.Upload: uploading %s (%s, %d bytes) to group %s for user %s",
		input.Header.Filename, mimeType, len(content), input.GroupID, input.UserID)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(content),
		ContentType: mimeType,
		Size:        int64(len(content)),
	}); err != nil {
		log.Printf("uploadService.Upload: storage upload failed for %s: %v", key, err)
		return nil, domain.ErrUploadFailed
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignExpiry)
	if err != nil {
		log.Printf("uploadService.Upload: presigning %s: %v", key, err)
		url = ""
	}

	doc := &domain.UploadedDocument{
		ID:           uuid.New(),
		UserID:       input.UserID,
		GroupID:      input.GroupID,
		FileName:     fileName,
		OriginalName: input.Header.Filename,
		FileURL:      url,
		StorageKey:   key,
		FileSize:     int64(len(content)),
		MimeType:     mimeType,
		DocumentType: documentTypeOrDefault(strings.TrimSpace(input.DocumentType)),
		Description:  strings.TrimSpace(input.Description),
		Checksum:     hex.EncodeToString(sum[:]),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), s.bucket, key); delErr != nil {
			log.Printf("uploadService.Upload: removing orphaned blob %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("uploadService.Upload: %w", err)
	}
	return doc, nil
}

func (s *uploadService) ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]domain.UploadedDocument, error) {
	if _, err := s.groups.GetByID(ctx, userID, groupID); err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("uploadService.ListByGroup: %w", err)
	}
	if docs == nil {
		docs = []domain.UploadedDocument{}
	}
	return docs, nil
}

func (s *uploadService) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.guard.Require(doc, userID, domain.ErrDocumentNotFound); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, s.bucket, doc.StorageKey); err != nil {
		log.Printf("uploadService.Delete: failed to delete blob %s: %v", doc.StorageKey, err)
	}
	if err := s.docRepo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("uploadService.Delete: %w", err)
	}
	return nil
}

// storedFileName builds "<user>-<unix ms>-<sanitized stem><ext>". The extension
// is kept so the engine MIME type can be derived from the stored name.
func storedFileName(userID uuid.UUID, at time.Time, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	stem := export.SanitizeFilename(strings.TrimSuffix(original, filepath.Ext(original)))
	if stem == "" {
		stem = "document"
	}
	return fmt.Sprintf("%s-%d-%s%s", userID, at.UnixMilli(), stem, ext)
}

// uploadMimeType prefers the declared part Content-Type and falls back to the
// file extension.
func uploadMimeType(h *multipart.FileHeader) string {
	if declared := h.Header.Get("Content-Type"); declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(h.Filename))); mt != "" {
		if base, _, err := mime.ParseMediaType(mt); err == nil {
			return base
		}
	}
	return "application/octet-stream"
}
