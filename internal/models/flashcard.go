package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceManual = "manual"
	SourceAI     = "ai"

	MaxCardTextLength = 100
)

type Flashcard struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	GroupID      uuid.UUID `json:"group_id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"` // "manual" | "ai"
	IsApproved   bool      `json:"is_approved"`
	CreationDate time.Time `json:"creation_date"`
	UpdatedDate  time.Time `json:"updated_date"`
}

// FlashcardProposal is one front/back pair returned by a language model.
type FlashcardProposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type CreateFlashcardRequest struct {
	Front   string `json:"front" validate:"required,min=1,max=100"`
	Back    string `json:"back" validate:"required,min=1,max=100"`
	GroupID string `json:"group_id" validate:"required,uuid"`
}

type UpdateFlashcardRequest struct {
	Front      string `json:"front" validate:"required,min=1,max=100"`
	Back       string `json:"back" validate:"required,min=1,max=100"`
	IsApproved *bool  `json:"is_approved" validate:"required"`
}

type GenerateFlashcardsRequest struct {
	GroupID    string  `json:"group_id" validate:"required,uuid"`
	Prompt     string  `json:"prompt" validate:"required,min=50,max=5000"`
	CardsCount float64 `json:"cards_count" validate:"required,whole,min=1,max=50"`
}

type GenerateFlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

type FlashcardsListQuery struct {
	GroupID string `json:"group_id" validate:"required,uuid"`
	Page    int    `json:"page" validate:"min=1,max=1000000"`
	Limit   int    `json:"limit" validate:"min=1,max=100"`
	Sort    string `json:"sort" validate:"oneof=updated_date creation_date"`
	Order   string `json:"order" validate:"oneof=asc desc"`
	Source  string `json:"source" validate:"omitempty,oneof=manual ai"`
}

type FlashcardsList struct {
	Data       []Flashcard `json:"data"`
	Pagination Pagination  `json:"pagination"`
}
