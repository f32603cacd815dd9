package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
)

// RegionHandler serves read-only region lookups.
type RegionHandler struct {
	world *region.World
}

func NewRegionHandler(world *region.World) *RegionHandler {
	return &RegionHandler{world: world}
}

// Get returns one region by id.
func (h *RegionHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		errors.RespondWithError(w, errors.NewInvalidInput("invalid region id %q", chi.URLParam(r, "id")))
		return
	}

	reg, ok := h.world.Get(ids.RegionId(raw))
	if !ok {
		errors.RespondWithError(w, errors.ErrRegionNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reg)
}

// List returns every region in the world.
func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.world.All())
}
