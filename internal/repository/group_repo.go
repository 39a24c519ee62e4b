package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

const groupColumns = `id, user_id, name, creation_date, updated_date, last_used_prompt, last_used_cards_count`

type GroupRepo struct {
	db DBTX
}

func NewGroupRepo(db DBTX) *GroupRepo {
	return &GroupRepo{db: db}
}

func scanGroup(row interface{ Scan(dest ...any) error }, g *models.FlashcardGroup) error {
	return row.Scan(&g.ID, &g.UserID, &g.Name, &g.CreationDate, &g.UpdatedDate, &g.LastUsedPrompt, &g.LastUsedCardsCount)
}

func (r *GroupRepo) Create(ctx context.Context, g *models.FlashcardGroup) error {
	g.ID = uuid.New()

	query := `INSERT INTO flashcards_group (id, user_id, name)
		VALUES ($1, $2, $3) RETURNING creation_date, updated_date`

	err := r.db.QueryRow(ctx, query, g.ID, g.UserID, g.Name).Scan(&g.CreationDate, &g.UpdatedDate)
	return translateError(err)
}

// GetByIDForUser returns the group only when userID owns it. A foreign group
// and a missing group both yield ErrNotFound.
func (r *GroupRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.FlashcardGroup, error) {
	g := &models.FlashcardGroup{}
	query := `SELECT ` + groupColumns + ` FROM flashcards_group WHERE id = $1 AND user_id = $2`

	if err := scanGroup(r.db.QueryRow(ctx, query, id, userID), g); err != nil {
		return nil, translateError(err)
	}
	return g, nil
}

func (r *GroupRepo) ListByUser(ctx context.Context, userID uuid.UUID, q models.GroupsListQuery) ([]models.FlashcardGroup, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM flashcards_group WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := "updated_date"
	if q.Sort == "name" {
		sortColumn = "name"
	}

	query := fmt.Sprintf(`SELECT %s FROM flashcards_group WHERE user_id = $1
		ORDER BY %s %s, id ASC LIMIT $2 OFFSET $3`,
		groupColumns, sortColumn, orderDirection(q.Order))

	rows, err := r.db.Query(ctx, query, userID, q.Limit, pageOffset(q.Page, q.Limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	groups := []models.FlashcardGroup{}
	for rows.Next() {
		var g models.FlashcardGroup
		if err := scanGroup(rows, &g); err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// Update applies the non-nil fields of patch and refreshes updated_date.
func (r *GroupRepo) Update(ctx context.Context, id, userID uuid.UUID, patch models.GroupPatch) (*models.FlashcardGroup, error) {
	sets := []string{"updated_date = NOW()"}
	args := []interface{}{id, userID}
	argIdx := 3

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *patch.Name)
		argIdx++
	}
	if patch.LastUsedPrompt != nil {
		sets = append(sets, fmt.Sprintf("last_used_prompt = $%d", argIdx))
		args = append(args, *patch.LastUsedPrompt)
		argIdx++
	}
	if patch.LastUsedCardsCount != nil {
		sets = append(sets, fmt.Sprintf("last_used_cards_count = $%d", argIdx))
		args = append(args, *patch.LastUsedCardsCount)
	}

	query := fmt.Sprintf(`UPDATE flashcards_group SET %s WHERE id = $1 AND user_id = $2 RETURNING %s`,
		strings.Join(sets, ", "), groupColumns)

	g := &models.FlashcardGroup{}
	if err := scanGroup(r.db.QueryRow(ctx, query, args...), g); err != nil {
		return nil, translateError(err)
	}
	return g, nil
}

// Delete removes an empty group. Groups that still hold flashcards are
// rejected by the foreign key with ErrForeignKeyViolation.
func (r *GroupRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM flashcards_group WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGenerationMetadata records the prompt and card count last used to
// generate flashcards into the group.
func (r *GroupRepo) UpdateGenerationMetadata(ctx context.Context, id, userID uuid.UUID, prompt string, cardsCount int) error {
	_, err := r.Update(ctx, id, userID, models.GroupPatch{
		LastUsedPrompt:     &prompt,
		LastUsedCardsCount: &cardsCount,
	})
	return err
}
