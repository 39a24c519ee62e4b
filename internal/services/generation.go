package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/metrics"
	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/repository"
)

// GenerationOutcome separates the persisted batch from the best-effort group
// bookkeeping that follows it. A non-nil MetadataErr never fails the request.
type GenerationOutcome struct {
	Flashcards  []models.Flashcard
	MetadataErr error
}

type GenerationService struct {
	groups    GroupStore
	cards     FlashcardStore
	generator FlashcardGenerator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewGenerationService(groups GroupStore, cards FlashcardStore, generator FlashcardGenerator, m *metrics.Metrics, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		groups:    groups,
		cards:     cards,
		generator: generator,
		metrics:   m,
		logger:    logger.Named("generation"),
	}
}

// Generate runs validation, the ownership check, one language-model call and
// a single batch insert, in that order. Nothing is written unless every
// earlier step succeeded.
func (s *GenerationService) Generate(ctx context.Context, userID uuid.UUID, req models.GenerateFlashcardsRequest) (*GenerationOutcome, error) {
	provider := s.generator.Name()

	if err := ValidateGenerationRequest(&req); err != nil {
		s.metrics.RecordGeneration(provider, metrics.OutcomeValidation)
		return nil, err
	}
	groupID := uuid.MustParse(req.GroupID)
	count := int(req.CardsCount)

	if _, err := s.groups.GetByIDForUser(ctx, groupID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordGeneration(provider, metrics.OutcomeNotFound)
			return nil, groupNotFound()
		}
		s.metrics.RecordGeneration(provider, metrics.OutcomeStorage)
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	start := time.Now()
	proposals, err := s.generator.Generate(ctx, req.Prompt, count)
	s.metrics.ObserveGenerationCall(provider, time.Since(start))
	if err != nil {
		s.metrics.RecordGeneration(provider, upstreamOutcome(err))
		s.logger.Warn("language model call failed",
			zap.String("provider", provider),
			zap.Stringer("group_id", groupID),
			zap.Error(err))
		return nil, err
	}

	batch, err := buildBatch(proposals, count, userID, groupID)
	if err != nil {
		s.metrics.RecordGeneration(provider, metrics.OutcomeMalformed)
		return nil, &UpstreamError{Provider: provider, Kind: UpstreamMalformed, Err: err}
	}
	if len(proposals) > count {
		s.logger.Info("discarded surplus proposals",
			zap.Int("requested", count),
			zap.Int("received", len(proposals)))
	}

	saved, err := s.cards.CreateBatch(ctx, batch)
	if err != nil {
		// The group can vanish between the check and the insert.
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			s.metrics.RecordGeneration(provider, metrics.OutcomeNotFound)
			return nil, groupNotFound()
		}
		s.metrics.RecordGeneration(provider, metrics.OutcomeStorage)
		return nil, fmt.Errorf("failed to save flashcards: %w", err)
	}

	outcome := &GenerationOutcome{Flashcards: saved}
	if err := s.groups.UpdateGenerationMetadata(ctx, groupID, userID, req.Prompt, count); err != nil {
		outcome.MetadataErr = err
		s.logger.Warn("failed to update group generation metadata",
			zap.Stringer("group_id", groupID),
			zap.Error(err))
	}

	s.metrics.RecordGeneration(provider, metrics.OutcomeSuccess)
	return outcome, nil
}

// buildBatch keeps at most count proposals and clamps each side to the card
// length limit. A proposal with an empty side rejects the whole batch.
func buildBatch(proposals []models.FlashcardProposal, count int, userID, groupID uuid.UUID) ([]models.Flashcard, error) {
	if len(proposals) > count {
		proposals = proposals[:count]
	}

	batch := make([]models.Flashcard, 0, len(proposals))
	for i, p := range proposals {
		front := clampText(p.Front, models.MaxCardTextLength)
		back := clampText(p.Back, models.MaxCardTextLength)
		if front == "" || back == "" {
			return nil, fmt.Errorf("flashcard %d has an empty side", i)
		}
		batch = append(batch, models.Flashcard{
			UserID:     userID,
			GroupID:    groupID,
			Front:      front,
			Back:       back,
			Source:     models.SourceAI,
			IsApproved: false,
		})
	}
	return batch, nil
}

func clampText(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}

func upstreamOutcome(err error) string {
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return metrics.OutcomeUpstream
	}
	switch upErr.Kind {
	case UpstreamTimeout:
		return metrics.OutcomeTimeout
	case UpstreamMalformed:
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeUpstream
	}
}
