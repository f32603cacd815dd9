package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/logging"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/snapshot"
	"github.com/meerski/arakh/internal/species"
)

// SnapshotHandler lists and triggers world checkpoints on demand, on top
// of whatever cadence the engine's own Hooks.Checkpoint runs.
type SnapshotHandler struct {
	world      *region.World
	speciesReg *species.Registry
	charReg    *character.Registry
	treeReg    *character.FamilyTreeRegistry
	cardReg    *legacy.CardRegistry
	repo       snapshot.Repository
}

func NewSnapshotHandler(
	world *region.World,
	speciesReg *species.Registry,
	charReg *character.Registry,
	treeReg *character.FamilyTreeRegistry,
	cardReg *legacy.CardRegistry,
	repo snapshot.Repository,
) *SnapshotHandler {
	return &SnapshotHandler{
		world: world, speciesReg: speciesReg, charReg: charReg,
		treeReg: treeReg, cardReg: cardReg, repo: repo,
	}
}

// List returns the metadata of every checkpoint in the repository, newest
// first.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.repo.List(r.Context())
	if err != nil {
		logging.LogError(r.Context(), err, "list snapshots", nil)
		errors.RespondWithError(w, errors.NewInternalError("failed to list snapshots"))
		return
	}
	for i, j := 0, len(infos)-1; i < j; i, j = i+1, j-1 {
		infos[i], infos[j] = infos[j], infos[i]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(infos)
}

type createSnapshotRequest struct {
	Label string `json:"label"`
}

type createSnapshotResponse struct {
	Key string `json:"key"`
}

// Create serializes the current world state and saves it immediately,
// independent of the engine's own checkpoint cadence. Useful for
// operator-triggered checkpoints before a risky change.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSnapshotRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errors.RespondWithError(w, errors.NewInvalidInput("invalid request body: %v", err))
			return
		}
	}

	doc := snapshot.Serialize(h.world.Name, h.world, h.speciesReg, h.charReg, h.treeReg, h.cardReg, time.Now())

	key, err := h.repo.Save(r.Context(), doc, req.Label)
	if err != nil {
		logging.LogError(r.Context(), err, "save snapshot", nil)
		errors.RespondWithError(w, errors.ErrSnapshotIO)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createSnapshotResponse{Key: key})
}
