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

type FlashcardService struct {
	groups GroupStore
	cards  FlashcardStore
	logger *zap.Logger
}

func NewFlashcardService(groups GroupStore, cards FlashcardStore, logger *zap.Logger) *FlashcardService {
	return &FlashcardService{groups: groups, cards: cards, logger: logger.Named("flashcards")}
}

// requireGroup is the ownership check run before any work on a group's cards.
func (s *FlashcardService) requireGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := s.groups.GetByIDForUser(ctx, groupID, userID); err != nil {
		return mapGroupErr(err)
	}
	return nil
}

// Create stores a manually written card, which is approved from the start.
func (s *FlashcardService) Create(ctx context.Context, userID uuid.UUID, req models.CreateFlashcardRequest) (*models.Flashcard, error) {
	if err := ValidateCreateFlashcard(&req); err != nil {
		return nil, err
	}
	groupID := uuid.MustParse(req.GroupID)

	if err := s.requireGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}

	card := &models.Flashcard{
		UserID:     userID,
		GroupID:    groupID,
		Front:      req.Front,
		Back:       req.Back,
		Source:     models.SourceManual,
		IsApproved: true,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		// The group can vanish between the check and the insert.
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, groupNotFound()
		}
		return nil, fmt.Errorf("failed to create flashcard: %w", err)
	}
	return card, nil
}

func (s *FlashcardService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Flashcard, error) {
	card, err := s.cards.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, mapFlashcardErr(err)
	}
	return card, nil
}

func (s *FlashcardService) List(ctx context.Context, userID uuid.UUID, q models.FlashcardsListQuery) (*models.FlashcardsList, error) {
	if err := ValidateFlashcardsListQuery(&q); err != nil {
		return nil, err
	}
	groupID := uuid.MustParse(q.GroupID)

	if err := s.requireGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}

	cards, total, err := s.cards.ListByGroup(ctx, userID, groupID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcards: %w", err)
	}
	return &models.FlashcardsList{
		Data:       cards,
		Pagination: models.Pagination{Page: q.Page, Limit: q.Limit, Total: total},
	}, nil
}

func (s *FlashcardService) Update(ctx context.Context, userID, id uuid.UUID, req models.UpdateFlashcardRequest) (*models.Flashcard, error) {
	if err := ValidateUpdateFlashcard(&req); err != nil {
		return nil, err
	}

	card, err := s.cards.Update(ctx, id, userID, req.Front, req.Back, *req.IsApproved)
	if err != nil {
		return nil, mapFlashcardErr(err)
	}
	return card, nil
}

func (s *FlashcardService) ToggleApproval(ctx context.Context, userID, id uuid.UUID) (*models.Flashcard, error) {
	card, err := s.cards.ToggleApproval(ctx, id, userID)
	if err != nil {
		return nil, mapFlashcardErr(err)
	}
	return card, nil
}

func (s *FlashcardService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.cards.Delete(ctx, id, userID); err != nil {
		return mapFlashcardErr(err)
	}
	return nil
}

// DeleteAllInGroup empties a group the caller owns.
func (s *FlashcardService) DeleteAllInGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	if err := s.requireGroup(ctx, userID, groupID); err != nil {
		return err
	}

	n, err := s.cards.DeleteByGroup(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete flashcards: %w", err)
	}
	s.logger.Debug("emptied group", zap.Stringer("group_id", groupID), zap.Int64("deleted", n))
	return nil
}

func mapFlashcardErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return flashcardNotFound()
	}
	return fmt.Errorf("flashcard query failed: %w", err)
}
