package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/species"
)

// SpeciesHandler serves read-only species lookups.
type SpeciesHandler struct {
	registry *species.Registry
}

func NewSpeciesHandler(registry *species.Registry) *SpeciesHandler {
	return &SpeciesHandler{registry: registry}
}

// Get returns one species by id.
func (h *SpeciesHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		errors.RespondWithError(w, errors.NewInvalidInput("invalid species id %q", chi.URLParam(r, "id")))
		return
	}

	sp, ok := h.registry.Get(ids.SpeciesId(raw))
	if !ok {
		errors.RespondWithError(w, errors.ErrSpeciesNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sp)
}

// List returns every registered species.
func (h *SpeciesHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.registry.GetAll())
}
