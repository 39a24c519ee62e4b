package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

const flashcardColumns = `id, user_id, group_id, front, back, source, is_approved, creation_date, updated_date`

type FlashcardRepo struct {
	db DBTX
}

func NewFlashcardRepo(db DBTX) *FlashcardRepo {
	return &FlashcardRepo{db: db}
}

func scanFlashcard(row interface{ Scan(dest ...any) error }, c *models.Flashcard) error {
	return row.Scan(&c.ID, &c.UserID, &c.GroupID, &c.Front, &c.Back, &c.Source, &c.IsApproved, &c.CreationDate, &c.UpdatedDate)
}

func (r *FlashcardRepo) Create(ctx context.Context, c *models.Flashcard) error {
	c.ID = uuid.New()

	query := `INSERT INTO flashcard (id, user_id, group_id, front, back, source, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING creation_date, updated_date`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.UserID, c.GroupID, c.Front, c.Back, c.Source, c.IsApproved,
	).Scan(&c.CreationDate, &c.UpdatedDate)
	return translateError(err)
}

// CreateBatch inserts all cards in a single statement, so either every card
// is stored or none is. Cards without an id get one. Cards are returned in
// input order.
func (r *FlashcardRepo) CreateBatch(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, error) {
	if len(cards) == 0 {
		return []models.Flashcard{}, nil
	}

	const perRow = 7
	placeholders := make([]string, 0, len(cards))
	args := make([]interface{}, 0, len(cards)*perRow)
	for i := range cards {
		if cards[i].ID == uuid.Nil {
			cards[i].ID = uuid.New()
		}
		base := i * perRow
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args,
			cards[i].ID, cards[i].UserID, cards[i].GroupID, cards[i].Front, cards[i].Back, cards[i].Source, cards[i].IsApproved)
	}

	query := fmt.Sprintf(`INSERT INTO flashcard (id, user_id, group_id, front, back, source, is_approved)
		VALUES %s RETURNING %s`, strings.Join(placeholders, ", "), flashcardColumns)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Flashcard, len(cards))
	for rows.Next() {
		var c models.Flashcard
		if err := scanFlashcard(rows, &c); err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	saved := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		stored, ok := byID[c.ID]
		if !ok {
			return nil, fmt.Errorf("flashcard %s missing from insert result", c.ID)
		}
		saved = append(saved, stored)
	}
	return saved, nil
}

func (r *FlashcardRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT ` + flashcardColumns + ` FROM flashcard WHERE id = $1 AND user_id = $2`

	if err := scanFlashcard(r.db.QueryRow(ctx, query, id, userID), c); err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

// ListByGroup returns one page of the group's flashcards and the total number
// of cards matching the filters.
func (r *FlashcardRepo) ListByGroup(ctx context.Context, userID, groupID uuid.UUID, q models.FlashcardsListQuery) ([]models.Flashcard, int, error) {
	where := "WHERE user_id = $1 AND group_id = $2"
	args := []interface{}{userID, groupID}
	argIdx := 3

	if q.Source != "" {
		where += fmt.Sprintf(" AND source = $%d", argIdx)
		args = append(args, q.Source)
		argIdx++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM flashcard "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := "updated_date"
	if q.Sort == "creation_date" {
		sortColumn = "creation_date"
	}

	query := fmt.Sprintf("SELECT %s FROM flashcard %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		flashcardColumns, where, sortColumn, orderDirection(q.Order), argIdx, argIdx+1)
	args = append(args, q.Limit, pageOffset(q.Page, q.Limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		var c models.Flashcard
		if err := scanFlashcard(rows, &c); err != nil {
			return nil, 0, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *FlashcardRepo) Update(ctx context.Context, id, userID uuid.UUID, front, back string, isApproved bool) (*models.Flashcard, error) {
	query := `UPDATE flashcard SET front = $3, back = $4, is_approved = $5, updated_date = NOW()
		WHERE id = $1 AND user_id = $2 RETURNING ` + flashcardColumns

	c := &models.Flashcard{}
	if err := scanFlashcard(r.db.QueryRow(ctx, query, id, userID, front, back, isApproved), c); err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (r *FlashcardRepo) ToggleApproval(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	query := `UPDATE flashcard SET is_approved = NOT is_approved, updated_date = NOW()
		WHERE id = $1 AND user_id = $2 RETURNING ` + flashcardColumns

	c := &models.Flashcard{}
	if err := scanFlashcard(r.db.QueryRow(ctx, query, id, userID), c); err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (r *FlashcardRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM flashcard WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByGroup removes every flashcard of the group and reports how many
// rows went away.
func (r *FlashcardRepo) DeleteByGroup(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM flashcard WHERE group_id = $1 AND user_id = $2", groupID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
