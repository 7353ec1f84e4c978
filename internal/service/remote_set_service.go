package service

import (
	"context"
	"strings"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// RemoteSetService lists provider documents for a remote set.
type RemoteSetService interface {
	ListDocuments(ctx context.Context, setID string) ([]domain.RemoteDocument, error)
}

type remoteSetService struct {
	provider port.DocumentProvider
}

// NewRemoteSetService creates a new RemoteSetService implementation.
func NewRemoteSetService(provider port.DocumentProvider) RemoteSetService {
	return &remoteSetService{provider: provider}
}

func (s *remoteSetService) ListDocuments(ctx context.Context, setID string) ([]domain.RemoteDocument, error) {
	setID = strings.TrimSpace(setID)
	if setID == "" {
		return nil, domain.ValidationError("quotation_id is required")
	}
	docs, err := s.provider.ListDocuments(ctx, setID)
	if err != nil {
		return nil, asUpstreamError(err)
	}
	if docs == nil {
		docs = []domain.RemoteDocument{}
	}
	return docs, nil
}
