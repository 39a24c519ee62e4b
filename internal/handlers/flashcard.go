package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/middleware"
	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/services"
)

type FlashcardHandler struct {
	responder
	cards      *services.FlashcardService
	generation *services.GenerationService
}

func NewFlashcardHandler(cards *services.FlashcardService, generation *services.GenerationService, logger *zap.Logger) *FlashcardHandler {
	return &FlashcardHandler{responder: responder{logger: logger}, cards: cards, generation: generation}
}

func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var fields []models.FieldError
	query := models.FlashcardsListQuery{
		GroupID: strings.TrimSpace(q.Get("group_id")),
		Page:    queryInt(q, "page", 1, &fields),
		Limit:   queryInt(q, "limit", 20, &fields),
		Sort:    strings.TrimSpace(q.Get("sort")),
		Order:   strings.ToLower(strings.TrimSpace(q.Get("order"))),
		Source:  strings.TrimSpace(q.Get("source")),
	}
	if len(fields) > 0 {
		h.handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	list, err := h.cards.List(r.Context(), middleware.GetUserID(r.Context()), query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	card, err := h.cards.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// Generate asks the language model for a batch of cards and stores it. The
// call blocks until the model answers or the client timeout fires.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	outcome, err := h.generation.Generate(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.GenerateFlashcardsResponse{Flashcards: outcome.Flashcards})
}

func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	card, err := h.cards.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.UpdateFlashcardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	card, err := h.cards.Update(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) ToggleApproval(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	card, err := h.cards.ToggleApproval(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.cards.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
