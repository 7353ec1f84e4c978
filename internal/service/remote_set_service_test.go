package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doccompare/internal/domain"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func TestRemoteSetService_ListDocuments(t *testing.T) {
	provider := new(mocks.MockDocumentProvider)
	provider.On("ListDocuments", mock.Anything, "QT-1").Return([]domain.RemoteDocument{{ID: "D1"}}, nil)
	svc := service.NewRemoteSetService(provider)

	docs, err := svc.ListDocuments(context.Background(), " QT-1 ")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = svc.ListDocuments(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemoteSetService_ListDocuments_Upstream(t *testing.T) {
	provider := new(mocks.MockDocumentProvider)
	provider.On("ListDocuments", mock.Anything, "QT-1").Return(nil, errors.New("timeout"))

	_, err := service.NewRemoteSetService(provider).ListDocuments(context.Background(), "QT-1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
