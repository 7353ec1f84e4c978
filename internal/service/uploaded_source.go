package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"doccompare/internal/domain"
	"doccompare/internal/metrics"
	"doccompare/internal/port"
)

// DownloadError reports the uploaded document whose bytes could not be fetched.
type DownloadError struct {
	FileName string
	Err      error
}

func (e *DownloadError) Error() string { return "Failed to download file: " + e.FileName }

func (e *DownloadError) Unwrap() []error { return []error{domain.ErrStorage, e.Err} }

type uploadedGroupSource struct {
	docs        port.UploadedDocumentRepository
	storage     port.ObjectStorage
	bucket      string
	concurrency int
	metrics     *metrics.Metrics
}

// NewUploadedGroupSource creates the DocumentSource for user-uploaded groups.
// concurrency bounds parallel downloads; 1 downloads strictly one at a time.
func NewUploadedGroupSource(
	docs port.UploadedDocumentRepository,
	storage port.ObjectStorage,
	bucket string,
	concurrency int,
	m *metrics.Metrics,
) DocumentSource {
	if concurrency < 1 {
		concurrency = 1
	}
	return &uploadedGroupSource{
		docs:        docs,
		storage:     storage,
		bucket:      bucket,
		concurrency: concurrency,
		metrics:     m,
	}
}

func (s *uploadedGroupSource) Mode() domain.AnalysisMode { return domain.AnalysisModeUploaded }

func (s *uploadedGroupSource) Summarize(_ context.Context, req *SourceRequest) string {
	if req.Group == nil {
		return "Group: " + req.GroupID.String()
	}
	summary := "Group: " + req.Group.Name
	if req.Group.Description != "" {
		summary += " - " + req.Group.Description
	}
	return summary
}

// ResolveDocuments loads every requested document or none. Documents are
// returned in request order.
func (s *uploadedGroupSource) ResolveDocuments(ctx context.Context, req *SourceRequest) (*DocumentSet, error) {
	all, err := s.docs.ListByGroup(ctx, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("uploadedGroupSource.ResolveDocuments: %w: %w", domain.ErrPersistence, err)
	}

	byID := make(map[uuid.UUID]*domain.UploadedDocument, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	selected := make([]*domain.UploadedDocument, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.ErrDocumentsMissing
		}
		d, ok := byID[id]
		if !ok {
			return nil, domain.ErrDocumentsMissing
		}
		selected = append(selected, d)
	}

	encoded := make([]port.EncodedDocument, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, d := range selected {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			data, err := s.storage.Download(gctx, s.bucket, d.StorageKey)
			s.metrics.ObserveDownload(err)
			if err != nil {
				return &DownloadError{FileName: d.FileName, Err: err}
			}
			encoded[i] = port.EncodedDocument{
				ID:           d.ID.String(),
				FileName:     d.FileName,
				DocumentType: documentTypeOrDefault(d.DocumentType),
				MimeType:     MimeTypeFor(d.FileName),
				Content:      base64.StdEncoding.EncodeToString(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("uploadedGroupSource.ResolveDocuments: %w", err)
	}

	return &DocumentSet{
		Mode:        domain.AnalysisModeUploaded,
		DocumentIDs: append([]string(nil), req.DocumentIDs...),
		Documents:   encoded,
	}, nil
}

// MimeTypeFor derives the MIME type sent to the engine from a file extension.
func MimeTypeFor(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if mt, ok := domain.DocumentMimeTypes[ext]; ok {
		return mt
	}
	return domain.DefaultDocumentMimeType
}

func documentTypeOrDefault(t string) string {
	if t == "" {
		return "other"
	}
	return t
}
