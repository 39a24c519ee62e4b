package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

// GroupStore is implemented by repository.GroupRepo.
type GroupStore interface {
	Create(ctx context.Context, g *models.FlashcardGroup) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.FlashcardGroup, error)
	ListByUser(ctx context.Context, userID uuid.UUID, q models.GroupsListQuery) ([]models.FlashcardGroup, int, error)
	Update(ctx context.Context, id, userID uuid.UUID, patch models.GroupPatch) (*models.FlashcardGroup, error)
	UpdateGenerationMetadata(ctx context.Context, id, userID uuid.UUID, prompt string, cardsCount int) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// FlashcardStore is implemented by repository.FlashcardRepo.
type FlashcardStore interface {
	Create(ctx context.Context, c *models.Flashcard) error
	CreateBatch(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error)
	ListByGroup(ctx context.Context, userID, groupID uuid.UUID, q models.FlashcardsListQuery) ([]models.Flashcard, int, error)
	Update(ctx context.Context, id, userID uuid.UUID, front, back string, isApproved bool) (*models.Flashcard, error)
	ToggleApproval(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteByGroup(ctx context.Context, groupID, userID uuid.UUID) (int64, error)
}

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenStore is implemented by repository.RefreshTokenStore.
type TokenStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}
