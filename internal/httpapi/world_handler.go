package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/region"
)

// WorldHandler reports the running engine's clock and high-level state.
type WorldHandler struct {
	world *region.World
	eng   *engine.Engine
}

func NewWorldHandler(world *region.World, eng *engine.Engine) *WorldHandler {
	return &WorldHandler{world: world, eng: eng}
}

type worldStatusResponse struct {
	Name  string `json:"name"`
	Tick  uint64 `json:"tick"`
	Hour  int    `json:"hour"`
	Season string `json:"season"`
	Era   int    `json:"era"`
	State string `json:"state"`
}

// Status returns the world's current clock and engine run state.
func (h *WorldHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := worldStatusResponse{
		Name:   h.world.Name,
		Tick:   h.world.Clock.Tick,
		Hour:   h.world.Clock.Hour,
		Season: h.world.Clock.Season,
		Era:    h.world.Clock.Era,
		State:  string(h.eng.State()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
