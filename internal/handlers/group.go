package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/middleware"
	"github.com/GrzegKrol/10x-cards/internal/models"
	"github.com/GrzegKrol/10x-cards/internal/services"
)

type GroupHandler struct {
	responder
	groups *services.GroupService
	cards  *services.FlashcardService
}

func NewGroupHandler(groups *services.GroupService, cards *services.FlashcardService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{responder: responder{logger: logger}, groups: groups, cards: cards}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var fields []models.FieldError
	query := models.GroupsListQuery{
		Page:  queryInt(q, "page", 1, &fields),
		Limit: queryInt(q, "limit", 20, &fields),
		Sort:  strings.TrimSpace(q.Get("sort")),
		Order: strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}
	if len(fields) > 0 {
		h.handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	list, err := h.groups.List(r.Context(), middleware.GetUserID(r.Context()), query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	group, err := h.groups.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	group, err := h.groups.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.UpdateGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	group, err := h.groups.Update(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// Delete removes an empty group; 409 while it still holds flashcards.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.groups.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) DeleteFlashcards(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.cards.DeleteAllInGroup(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
