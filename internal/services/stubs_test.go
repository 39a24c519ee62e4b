package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/repository"
)

type stubGroupStore struct {
	groups map[uuid.UUID]models.FlashcardGroup

	deleteErr   error
	metadataErr error
	metaCalls   int
	lastPrompt  string
	lastCount   int
	lastPatch   models.GroupPatch
}

func newStubGroupStore(groups ...models.FlashcardGroup) *stubGroupStore {
	s := &stubGroupStore{groups: map[uuid.UUID]models.FlashcardGroup{}}
	for _, g := range groups {
		s.groups[g.ID] = g
	}
	return s
}

func (s *stubGroupStore) Create(ctx context.Context, g *models.FlashcardGroup) error {
	g.ID = uuid.New()
	g.CreationDate = time.Now()
	g.UpdatedDate = g.CreationDate
	s.groups[g.ID] = *g
	return nil
}

func (s *stubGroupStore) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.FlashcardGroup, error) {
	g, ok := s.groups[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (s *stubGroupStore) ListByUser(ctx context.Context, userID uuid.UUID, q models.GroupsListQuery) ([]models.FlashcardGroup, int, error) {
	out := []models.FlashcardGroup{}
	for _, g := range s.groups {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, len(out), nil
}

func (s *stubGroupStore) Update(ctx context.Context, id, userID uuid.UUID, patch models.GroupPatch) (*models.FlashcardGroup, error) {
	g, ok := s.groups[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	s.lastPatch = patch
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.LastUsedPrompt != nil {
		g.LastUsedPrompt = patch.LastUsedPrompt
	}
	if patch.LastUsedCardsCount != nil {
		g.LastUsedCardsCount = patch.LastUsedCardsCount
	}
	s.groups[id] = g
	return &g, nil
}

func (s *stubGroupStore) UpdateGenerationMetadata(ctx context.Context, id, userID uuid.UUID, prompt string, cardsCount int) error {
	s.metaCalls++
	if s.metadataErr != nil {
		return s.metadataErr
	}
	s.lastPrompt = prompt
	s.lastCount = cardsCount
	_, err := s.Update(ctx, id, userID, models.GroupPatch{LastUsedPrompt: &prompt, LastUsedCardsCount: &cardsCount})
	return err
}

func (s *stubGroupStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	g, ok := s.groups[id]
	if !ok || g.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.groups, id)
	return nil
}

type stubFlashcardStore struct {
	cards map[uuid.UUID]models.Flashcard

	batchErr   error
	batchCalls int
	listQuery  models.FlashcardsListQuery
}

func newStubFlashcardStore() *stubFlashcardStore {
	return &stubFlashcardStore{cards: map[uuid.UUID]models.Flashcard{}}
}

func (s *stubFlashcardStore) Create(ctx context.Context, c *models.Flashcard) error {
	c.ID = uuid.New()
	c.CreationDate = time.Now()
	c.UpdatedDate = c.CreationDate
	s.cards[c.ID] = *c
	return nil
}

func (s *stubFlashcardStore) CreateBatch(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, error) {
	s.batchCalls++
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	saved := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		if err := s.Create(ctx, &c); err != nil {
			return nil, err
		}
		saved = append(saved, c)
	}
	return saved, nil
}

func (s *stubFlashcardStore) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *stubFlashcardStore) ListByGroup(ctx context.Context, userID, groupID uuid.UUID, q models.FlashcardsListQuery) ([]models.Flashcard, int, error) {
	s.listQuery = q
	out := []models.Flashcard{}
	for _, c := range s.cards {
		if c.UserID == userID && c.GroupID == groupID && (q.Source == "" || c.Source == q.Source) {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (s *stubFlashcardStore) Update(ctx context.Context, id, userID uuid.UUID, front, back string, isApproved bool) (*models.Flashcard, error) {
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c.Front, c.Back, c.IsApproved = front, back, isApproved
	c.UpdatedDate = time.Now()
	s.cards[id] = c
	return &c, nil
}

func (s *stubFlashcardStore) ToggleApproval(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c.IsApproved = !c.IsApproved
	s.cards[id] = c
	return &c, nil
}

func (s *stubFlashcardStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s *stubFlashcardStore) DeleteByGroup(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	var n int64
	for id, c := range s.cards {
		if c.GroupID == groupID && c.UserID == userID {
			delete(s.cards, id)
			n++
		}
	}
	return n, nil
}

type stubGenerator struct {
	proposals []models.FlashcardProposal
	err       error
	calls     int
	lastCount int
}

func (g *stubGenerator) Name() string { return "Stub" }

func (g *stubGenerator) Generate(ctx context.Context, prompt string, count int) ([]models.FlashcardProposal, error) {
	g.calls++
	g.lastCount = count
	if g.err != nil {
		return nil, g.err
	}
	return g.proposals, nil
}
