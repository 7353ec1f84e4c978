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

// CreateGroupInput is the DTO for creating a document group.
type CreateGroupInput struct {
	UserID      uuid.UUID
	Name        string
	Description string
}

// UpdateGroupInput is the DTO for a partial group update.
type UpdateGroupInput struct {
	UserID      uuid.UUID
	GroupID     uuid.UUID
	Name        *string
	Description *string
}

// GroupService defines the document group management contract.
type GroupService interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.DocumentGroup, error)
	GetByID(ctx context.Context, userID, groupID uuid.UUID) (*domain.DocumentGroup, error)
	Create(ctx context.Context, input *CreateGroupInput) (*domain.DocumentGroup, error)
	Update(ctx context.Context, input *UpdateGroupInput) (*domain.DocumentGroup, error)
	Delete(ctx context.Context, userID, groupID uuid.UUID) error
}

type groupService struct {
	repo    port.GroupRepository
	docRepo port.UploadedDocumentRepository
	storage port.ObjectStorage
	bucket  string
	guard   *OwnershipGuard
}

// NewGroupService creates a new GroupService implementation.
func NewGroupService(
	repo port.GroupRepository,
	docRepo port.UploadedDocumentRepository,
	storage port.ObjectStorage,
	bucket string,
	guard *OwnershipGuard,
) GroupService {
	return &groupService{repo: repo, docRepo: docRepo, storage: storage, bucket: bucket, guard: guard}
}

func (s *groupService) List(ctx context.Context, userID uuid.UUID) ([]domain.DocumentGroup, error) {
	groups, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("groupService.List: %w", err)
	}
	if groups == nil {
		groups = []domain.DocumentGroup{}
	}
	return groups, nil
}

func (s *groupService) GetByID(ctx context.Context, userID, groupID uuid.UUID) (*domain.DocumentGroup, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(group, userID, domain.ErrGroupNotFound); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) Create(ctx context.Context, input *CreateGroupInput) (*domain.DocumentGroup, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ValidationError("group name is required")
	}
	group := &domain.DocumentGroup{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("groupService.Create: %w", err)
	}
	return group, nil
}

func (s *groupService) Update(ctx context.Context, input *UpdateGroupInput) (*domain.DocumentGroup, error) {
	group, err := s.GetByID(ctx, input.UserID, input.GroupID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ValidationError("group name must not be empty")
		}
		group.Name = name
	}
	if input.Description != nil {
		group.Description = strings.TrimSpace(*input.Description)
	}
	if err := s.repo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("groupService.Update: %w", err)
	}
	return group, nil
}

// Delete removes the group and its document rows. Blob removal is best effort.
func (s *groupService) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID, groupID); err != nil {
		return err
	}

	docs, err := s.docRepo.ListByGroup(ctx, groupID)
	if err != nil {
		log.Printf("groupService.Delete: listing documents of group %s: %v", groupID, err)
	}
	for i := range docs {
		if err := s.storage.Delete(ctx, s.bucket, docs[i].StorageKey); err != nil {
			log.Printf("groupService.Delete: removing blob %s: %v", docs[i].StorageKey, err)
		}
	}

	if err := s.repo.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("groupService.Delete: %w", err)
	}
	return nil
}
