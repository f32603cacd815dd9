package ecosystem

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

const (
	minSelectedRegions = 3
	selectFractionLow  = 0.2
	selectFractionHigh = 0.4

	flagshipBaseline = 150
	defaultBaseline  = 75
)

func sizeFactor(size float64) float64 {
	f := 1 - size/150
	return math.Max(0.2, f)
}

// selectRegions picks a seeded-random 20%-40% slice (minimum 3, or all of
// them if fewer than 3 are available) of the candidate regions.
func selectRegions(rng *rand.Rand, candidates []region.Region) []region.Region {
	if len(candidates) == 0 {
		return nil
	}
	shuffled := append([]region.Region(nil), candidates...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	fraction := selectFractionLow + rng.Float64()*(selectFractionHigh-selectFractionLow)
	n := int(float64(len(shuffled))*fraction + 0.5)
	if n < minSelectedRegions {
		n = minSelectedRegions
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// InitialPopulation returns the starting population count for a species in
// one of its selected regions.
func InitialPopulation(sp species.Species) int {
	baseline := defaultBaseline
	if sp.Tier == species.TierFlagship {
		baseline = flagshipBaseline
	}
	n := int(float64(baseline)*sizeFactor(sp.Size) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// World is the subset of region.World operations the initializer needs.
// Declared as an interface so tests can exercise it without constructing a
// full world.
type World interface {
	All() []region.Region
	Update(id ids.RegionId, fn func(r *region.Region)) (region.Region, error)
}

// Initialize performs world-boot ecosystem seeding per spec.md §4.5: for
// every species it selects suitable regions and seeds an initial
// population, then builds the food web and per-region carrying capacities.
func Initialize(rng *rand.Rand, w World, speciesReg *species.Registry, charReg *character.Registry, treeReg *character.FamilyTreeRegistry, fw *FoodWeb, tick uint64) error {
	allRegions := w.All()
	allSpecies := speciesReg.GetAll()

	for _, sp := range allSpecies {
		var candidates []region.Region
		for _, r := range allRegions {
			if !sp.HasHabitat(r.Layer) {
				continue
			}
			if !region.IsBiomeSuitable(sp, r) {
				continue
			}
			candidates = append(candidates, r)
		}
		selected := selectRegions(rng, candidates)
		if len(selected) == 0 {
			continue
		}
		pop := InitialPopulation(sp)
		for _, r := range selected {
			members := make([]ids.CharacterId, 0, pop)
			for i := 0; i < pop; i++ {
				charID := charReg.Create(rng, sp, character.CreateSpec{
					SpeciesID:      sp.ID,
					RegionID:       r.ID,
					Tick:           tick,
					IsGenesisElder: true,
				})
				treeID := treeReg.Create(sp.ID, charID, nil)
				if _, err := charReg.Update(charID, func(c *character.Character) { c.FamilyTreeID = treeID }); err != nil {
					return err
				}
				members = append(members, charID)
			}
			if _, err := w.Update(r.ID, func(rr *region.Region) {
				rr.Populations[sp.ID] = region.Population{SpeciesID: sp.ID, Count: pop, Members: members}
			}); err != nil {
				return err
			}
			if err := speciesReg.UpdatePopulation(sp.ID, pop); err != nil {
				return err
			}
		}
	}

	fw.SetEdges(BuildFoodWeb(allSpecies))
	for _, r := range w.All() {
		fw.SetCarryingCapacity(r.ID, RegionCarryingCapacity(r))
	}
	return nil
}

// SeedResourceQuantities jitters a region's resource quantities with Perlin
// noise scaled by biome, so regions sharing a biome aren't seeded
// identically. p should be built from a seed that is stable across a world
// boot for reproducible tests; callers typically derive it from WORLD_SEED.
func SeedResourceQuantities(p *perlin.Perlin, r *region.Region) {
	scale := biomeMultiplierFor(r.Biome)
	for i := range r.Resources {
		n := p.Noise2D(r.Coords.Latitude+float64(i), r.Coords.Longitude+float64(i))
		jitter := 1 + n*0.25*scale
		if jitter < 0.1 {
			jitter = 0.1
		}
		r.Resources[i].MaxQuantity *= jitter
		r.Resources[i].Quantity = r.Resources[i].MaxQuantity
	}
}
