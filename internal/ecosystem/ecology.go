package ecosystem

import (
	"math"

	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

const predationPressureFactor = 1.0

// TickPopulations implements spec.md §4.14 step 3, ecology.tick: population
// dynamics driven by the food web and each region's carrying capacity.
// Every species present in a region grows logistically toward a share of
// that region's capacity proportional to its own population, then loses
// population to predation pressure from every predator sharing the region,
// scaled by the food web's per-edge efficiency.
func TickPopulations(w *region.World, speciesReg *species.Registry, fw *FoodWeb) error {
	for _, r := range w.All() {
		capacity := fw.CarryingCapacity(r.ID)
		if capacity <= 0 {
			capacity = RegionCarryingCapacity(r)
		}
		if capacity <= 0 {
			continue
		}

		totalRegionPop := 0
		for _, pop := range r.Populations {
			totalRegionPop += pop.Count
		}

		for speciesID, pop := range r.Populations {
			sp, ok := speciesReg.Get(speciesID)
			if !ok {
				continue
			}

			density := float64(totalRegionPop) / float64(capacity)
			growth := sp.ReproductionRate * float64(pop.Count) * (1 - density)

			predationLoss := 0.0
			for _, edge := range fw.PredatorsOf(speciesID) {
				predatorPop, ok := r.Populations[edge.PredatorID]
				if !ok {
					continue
				}
				predationLoss += float64(predatorPop.Count) * edge.Efficiency * predationPressureFactor
			}

			change := int(math.Round(growth - predationLoss))
			if change == 0 {
				continue
			}

			newCount := pop.Count + change
			if newCount < 0 {
				newCount = 0
				change = -pop.Count
			}

			if _, err := w.Update(r.ID, func(rr *region.Region) {
				p := rr.Populations[speciesID]
				p.SpeciesID = speciesID
				p.Count = newCount
				rr.Populations[speciesID] = p
			}); err != nil {
				return err
			}
			if change != 0 {
				if err := speciesReg.UpdatePopulation(speciesID, change); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
