package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
)

// CharacterHandler serves read-only character lookups.
type CharacterHandler struct {
	registry *character.Registry
}

func NewCharacterHandler(registry *character.Registry) *CharacterHandler {
	return &CharacterHandler{registry: registry}
}

// Get returns one character by id.
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		errors.RespondWithError(w, errors.NewInvalidInput("invalid character id %q", chi.URLParam(r, "id")))
		return
	}

	c, ok := h.registry.Get(ids.CharacterId(raw))
	if !ok {
		errors.RespondWithError(w, errors.ErrCharacterMiss)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
