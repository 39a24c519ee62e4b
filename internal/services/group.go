package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/repository"
)

const msgGroupNotEmpty = "Group still contains flashcards"

type GroupService struct {
	groups GroupStore
	logger *zap.Logger
}

func NewGroupService(groups GroupStore, logger *zap.Logger) *GroupService {
	return &GroupService{groups: groups, logger: logger.Named("groups")}
}

func (s *GroupService) Create(ctx context.Context, userID uuid.UUID, req models.CreateGroupRequest) (*models.FlashcardGroup, error) {
	if err := ValidateCreateGroup(&req); err != nil {
		return nil, err
	}

	g := &models.FlashcardGroup{UserID: userID, Name: req.Name}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return g, nil
}

func (s *GroupService) Get(ctx context.Context, userID, groupID uuid.UUID) (*models.FlashcardGroup, error) {
	g, err := s.groups.GetByIDForUser(ctx, groupID, userID)
	if err != nil {
		return nil, mapGroupErr(err)
	}
	return g, nil
}

func (s *GroupService) List(ctx context.Context, userID uuid.UUID, q models.GroupsListQuery) (*models.GroupsList, error) {
	if err := ValidateGroupsListQuery(&q); err != nil {
		return nil, err
	}

	groups, total, err := s.groups.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return &models.GroupsList{
		Data:       groups,
		Pagination: models.Pagination{Page: q.Page, Limit: q.Limit, Total: total},
	}, nil
}

// Update renames the group and applies whichever generation metadata fields
// the request carries.
func (s *GroupService) Update(ctx context.Context, userID, groupID uuid.UUID, req models.UpdateGroupRequest) (*models.FlashcardGroup, error) {
	if err := ValidateUpdateGroup(&req); err != nil {
		return nil, err
	}

	patch := models.GroupPatch{
		Name:               &req.Name,
		LastUsedPrompt:     req.LastUsedPrompt,
		LastUsedCardsCount: req.LastUsedCardsCount,
	}
	g, err := s.groups.Update(ctx, groupID, userID, patch)
	if err != nil {
		return nil, mapGroupErr(err)
	}
	return g, nil
}

func (s *GroupService) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	err := s.groups.Delete(ctx, groupID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return &ConflictError{Message: msgGroupNotEmpty}
	default:
		return mapGroupErr(err)
	}
}

func mapGroupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return groupNotFound()
	}
	return fmt.Errorf("group query failed: %w", err)
}
