package handlers_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/repository"
)

// memStore keeps groups, flashcards, users and refresh tokens in memory with
// the same error contract as the Postgres and Redis repositories.
type memStore struct {
	mu     sync.Mutex
	groups map[uuid.UUID]models.FlashcardGroup
	cards  map[uuid.UUID]models.Flashcard
	users  map[uuid.UUID]models.User
	tokens map[string]uuid.UUID
	clock  time.Time
}

func newMemStore() *memStore {
	return &memStore{
		groups: make(map[uuid.UUID]models.FlashcardGroup),
		cards:  make(map[uuid.UUID]models.Flashcard),
		users:  make(map[uuid.UUID]models.User),
		tokens: make(map[string]uuid.UUID),
		clock:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memGroups struct{ *memStore }

func (s memGroups) Create(ctx context.Context, g *models.FlashcardGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.New()
	g.CreationDate = s.tick()
	g.UpdatedDate = g.CreationDate
	s.groups[g.ID] = *g
	return nil
}

func (s memGroups) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.FlashcardGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (s memGroups) ListByUser(ctx context.Context, userID uuid.UUID, q models.GroupsListQuery) ([]models.FlashcardGroup, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FlashcardGroup
	for _, g := range s.groups {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedDate.After(out[j].UpdatedDate) })
	return out, len(out), nil
}

func (s memGroups) Update(ctx context.Context, id, userID uuid.UUID, patch models.GroupPatch) (*models.FlashcardGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.LastUsedPrompt != nil {
		g.LastUsedPrompt = patch.LastUsedPrompt
	}
	if patch.LastUsedCardsCount != nil {
		g.LastUsedCardsCount = patch.LastUsedCardsCount
	}
	g.UpdatedDate = s.tick()
	s.groups[id] = g
	return &g, nil
}

func (s memGroups) UpdateGenerationMetadata(ctx context.Context, id, userID uuid.UUID, prompt string, cardsCount int) error {
	_, err := s.Update(ctx, id, userID, models.GroupPatch{LastUsedPrompt: &prompt, LastUsedCardsCount: &cardsCount})
	return err
}

func (s memGroups) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok || g.UserID != userID {
		return repository.ErrNotFound
	}
	for _, c := range s.cards {
		if c.GroupID == id {
			return repository.ErrForeignKeyViolation
		}
	}
	delete(s.groups, id)
	return nil
}

type memCards struct{ *memStore }

func (s memCards) insert(c *models.Flashcard) error {
	if _, ok := s.groups[c.GroupID]; !ok {
		return repository.ErrForeignKeyViolation
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreationDate = s.tick()
	c.UpdatedDate = c.CreationDate
	s.cards[c.ID] = *c
	return nil
}

func (s memCards) Create(ctx context.Context, c *models.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(c)
}

func (s memCards) CreateBatch(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Flashcard, len(cards))
	for i := range cards {
		c := cards[i]
		if err := s.insert(&c); err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (s memCards) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s memCards) ListByGroup(ctx context.Context, userID, groupID uuid.UUID, q models.FlashcardsListQuery) ([]models.Flashcard, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Flashcard
	for _, c := range s.cards {
		if c.UserID != userID || c.GroupID != groupID {
			continue
		}
		if q.Source != "" && c.Source != q.Source {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationDate.Before(out[j].CreationDate) })
	return out, len(out), nil
}

func (s memCards) Update(ctx context.Context, id, userID uuid.UUID, front, back string, isApproved bool) (*models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c.Front, c.Back, c.IsApproved = front, back, isApproved
	c.UpdatedDate = s.tick()
	s.cards[id] = c
	return &c, nil
}

func (s memCards) ToggleApproval(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c.IsApproved = !c.IsApproved
	c.UpdatedDate = s.tick()
	s.cards[id] = c
	return &c, nil
}

func (s memCards) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s memCards) DeleteByGroup(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.cards {
		if c.GroupID == groupID && c.UserID == userID {
			delete(s.cards, id)
			n++
		}
	}
	return n, nil
}

type memUsers struct{ *memStore }

func (s memUsers) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrUniqueViolation
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = s.tick()
	s.users[user.ID] = *user
	return nil
}

func (s memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type memTokens struct{ *memStore }

func (s memTokens) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s memTokens) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func (s memTokens) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
