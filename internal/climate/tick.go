package climate

import (
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
)

// WorldUpdater is the subset of region.World the climate tick needs.
type WorldUpdater interface {
	All() []region.Region
	Update(id ids.RegionId, fn func(r *region.Region)) (region.Region, error)
}

// Tick applies one climate step to every region in the world: the weather
// update (temperature/humidity/tidal effects) followed by pollution
// diffusion against the pre-tick snapshot of neighbor pollution levels, so
// diffusion within a tick is order-independent.
func Tick(w WorldUpdater, tick uint64, season string) error {
	regions := w.All()
	pollutionByID := make(map[ids.RegionId]float64, len(regions))
	byID := make(map[ids.RegionId]region.Region, len(regions))
	for _, r := range regions {
		pollutionByID[r.ID] = r.Climate.Pollution
		byID[r.ID] = r
	}

	for _, r := range regions {
		celestial := Compute(tick, r.Coords.Latitude)
		neighbors := make([]NeighborPollution, 0, len(r.Connections))
		for _, nID := range r.Connections {
			neighbors = append(neighbors, NeighborPollution{Pollution: pollutionByID[nID]})
		}
		newPollution := DiffusePollutionGraph(r, neighbors)

		if _, err := w.Update(r.ID, func(rr *region.Region) {
			UpdateWeather(rr, season, celestial)
			rr.Climate.Pollution = newPollution
		}); err != nil {
			return err
		}
	}
	return nil
}
