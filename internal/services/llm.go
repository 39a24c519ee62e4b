package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

// FlashcardGenerator turns a prompt into front/back proposals with a single
// upstream call. Implementations never retry.
type FlashcardGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string, count int) ([]models.FlashcardProposal, error)
}

func flashcardSystemInstruction(count int) string {
	return fmt.Sprintf(`You are a flashcard generation assistant. Generate at most %d flashcards based on the given text.
Each flashcard must have "front" and "back" properties, with text not exceeding %d characters per side.
Format the response as a raw JSON object with a "flashcards" array containing the generated flashcards. Do not wrap the JSON in markdown code fences.`,
		count, models.MaxCardTextLength)
}

// parseFlashcardPayload extracts the "flashcards" array from the model's JSON
// text. Anything other than an object holding an array of {front, back}
// objects is rejected as a whole.
func parseFlashcardPayload(text string) ([]models.FlashcardProposal, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}

	raw, ok := envelope["flashcards"]
	if !ok {
		return nil, errors.New(`missing "flashcards" field`)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New(`"flashcards" is not an array`)
	}

	var cards []models.FlashcardProposal
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf(`invalid "flashcards" item: %w`, err)
	}
	return cards, nil
}

// classifyCallError maps a failed transport call to an UpstreamError,
// separating the client-side deadline from other failures.
func classifyCallError(ctx context.Context, provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &UpstreamError{Provider: provider, Kind: UpstreamTimeout, Err: err}
	}
	return &UpstreamError{Provider: provider, Kind: UpstreamTransport, Err: err}
}
