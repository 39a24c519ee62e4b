package models

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardGroup struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	CreationDate       time.Time `json:"creation_date"`
	UpdatedDate        time.Time `json:"updated_date"`
	LastUsedPrompt     *string   `json:"last_used_prompt"`
	LastUsedCardsCount *int      `json:"last_used_cards_count"`
}

// GroupPatch lists the optional group columns of an update. Nil fields are
// left untouched.
type GroupPatch struct {
	Name               *string
	LastUsedPrompt     *string
	LastUsedCardsCount *int
}

func (p GroupPatch) IsEmpty() bool {
	return p.Name == nil && p.LastUsedPrompt == nil && p.LastUsedCardsCount == nil
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateGroupRequest struct {
	Name               string  `json:"name" validate:"required,min=1,max=100"`
	LastUsedPrompt     *string `json:"last_used_prompt" validate:"omitempty,min=50,max=5000"`
	LastUsedCardsCount *int    `json:"last_used_cards_count" validate:"omitempty,min=0,max=50"`
}

type GroupsListQuery struct {
	Page  int    `json:"page" validate:"min=1,max=1000000"`
	Limit int    `json:"limit" validate:"min=1,max=100"`
	Sort  string `json:"sort" validate:"oneof=updated_date name"`
	Order string `json:"order" validate:"oneof=asc desc"`
}

type GroupsList struct {
	Data       []FlashcardGroup `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
