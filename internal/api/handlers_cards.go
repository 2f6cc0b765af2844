package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/respond"
	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/services"
)

// CardHandler is a thin HTTP transport over CardService.
type CardHandler struct {
	svc *services.CardService
	log zerolog.Logger
}

func NewCardHandler(svc *services.CardService, log zerolog.Logger) *CardHandler {
	return &CardHandler{svc: svc, log: log}
}

// ListCards GET /api/v1/cards
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := services.ListParams{
		Order:      q.Get("order"),
		Cursor:     q.Get("cursor"),
		From:       q.Get("from"),
		To:         q.Get("to"),
		Visibility: q.Get("visibility"),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.WriteValidationError(w, "'limit' must be an integer")
			return
		}
		params.Limit = &n
	}

	page, err := h.svc.List(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list cards")
		return
	}
	respond.WriteJSON(w, http.StatusOK, page)
}

// GetCard GET /api/v1/cards/{id}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}
	card, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load card")
		return
	}
	respond.WriteJSON(w, http.StatusOK, card)
}

// CreateCard POST /api/v1/cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string   `json:"title"`
		Text       *string  `json:"text"`
		Date       string   `json:"date"`
		Images     []string `json:"images"`
		Visibility string   `json:"visibility"`
		Tags       []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteValidationError(w, "Invalid JSON")
		return
	}

	card, err := h.svc.Create(r.Context(), services.CreateParams{
		Title:      req.Title,
		Text:       req.Text,
		Date:       req.Date,
		Images:     req.Images,
		Visibility: req.Visibility,
		Tags:       req.Tags,
	})
	if err != nil {
		h.writeServiceError(w, err, "Failed to create card")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, card)
}

// UpdateCard PATCH /api/v1/cards/{id}
//
// Patch semantics distinguish an absent field from an explicit null, so the
// body is decoded twice: once into raw messages to record key presence, then
// field by field.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respond.WriteValidationError(w, "Invalid JSON")
		return
	}

	var params services.PatchParams
	bad := func(field string) {
		respond.WriteValidationError(w, "Invalid value for '"+field+"'")
	}

	if msg, present := raw["title"]; present {
		if err := json.Unmarshal(msg, &params.Title); err != nil || params.Title == nil {
			bad("title")
			return
		}
	}
	if msg, present := raw["text"]; present {
		// Explicit null clears the text.
		if err := json.Unmarshal(msg, &params.Text); err != nil {
			bad("text")
			return
		}
		if params.Text == nil {
			empty := ""
			params.Text = &empty
		}
	}
	if msg, present := raw["date"]; present {
		if err := json.Unmarshal(msg, &params.Date); err != nil || params.Date == nil {
			bad("date")
			return
		}
	}
	if msg, present := raw["images"]; present {
		params.ImagesSet = true
		if err := json.Unmarshal(msg, &params.Images); err != nil {
			bad("images")
			return
		}
	}
	if msg, present := raw["visibility"]; present {
		if err := json.Unmarshal(msg, &params.Visibility); err != nil || params.Visibility == nil {
			bad("visibility")
			return
		}
	}
	if msg, present := raw["tags"]; present {
		params.TagsSet = true
		if err := json.Unmarshal(msg, &params.Tags); err != nil {
			bad("tags")
			return
		}
	}

	card, err := h.svc.Patch(r.Context(), id, params)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update card")
		return
	}
	respond.WriteJSON(w, http.StatusOK, card)
}

// DeleteCard DELETE /api/v1/cards/{id}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cardID extracts and validates the {id} path variable. A malformed id gets
// its own error code so clients can tell it apart from a missing card.
func (h *CardHandler) cardID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidID, "Invalid card id format")
		return "", false
	}
	return id, true
}

func (h *CardHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrInvalidCursor):
		respond.WriteInvalidCursor(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteValidationError(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "Card not found")
	default:
		h.log.Error().Err(err).Msg(fallback)
		respond.WriteInternalError(w, fallback)
	}
}
