// Package ecosystem holds the food-web edges and per-region carrying
// capacities that drive population dynamics, plus the world-boot
// initializer that seeds both from the registered species and regions.
package ecosystem

import (
	"math"
	"sort"
	"sync"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// Edge is a directed, weighted predator->prey relation at the species
// level. Efficiency is always in (0, 0.2].
type Edge struct {
	PredatorID ids.SpeciesId
	PreyID     ids.SpeciesId
	Efficiency float64
}

// FoodWeb is the registry of predator/prey edges and per-region carrying
// capacities. Owned exclusively by the engine; readers get copies.
type FoodWeb struct {
	mu               sync.RWMutex
	edges            []Edge
	carryingCapacity map[ids.RegionId]int
}

// NewFoodWeb returns an empty food web.
func NewFoodWeb() *FoodWeb {
	return &FoodWeb{carryingCapacity: make(map[ids.RegionId]int)}
}

// SetEdges replaces the stored edges wholesale (used by the initializer).
func (fw *FoodWeb) SetEdges(edges []Edge) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.edges = append([]Edge(nil), edges...)
}

// Edges returns a copy of every edge.
func (fw *FoodWeb) Edges() []Edge {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return append([]Edge(nil), fw.edges...)
}

// PreyOf returns the edges where predatorID is the predator.
func (fw *FoodWeb) PreyOf(predatorID ids.SpeciesId) []Edge {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	var out []Edge
	for _, e := range fw.edges {
		if e.PredatorID == predatorID {
			out = append(out, e)
		}
	}
	return out
}

// PredatorsOf returns the edges where preyID is the prey, used to check
// whether a species has any predator relation naming it as prey.
func (fw *FoodWeb) PredatorsOf(preyID ids.SpeciesId) []Edge {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	var out []Edge
	for _, e := range fw.edges {
		if e.PreyID == preyID {
			out = append(out, e)
		}
	}
	return out
}

// SetCarryingCapacity stores the carrying capacity for a region.
func (fw *FoodWeb) SetCarryingCapacity(regionID ids.RegionId, capacity int) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.carryingCapacity[regionID] = capacity
}

// CarryingCapacity returns the carrying capacity for a region (0 if unset).
func (fw *FoodWeb) CarryingCapacity(regionID ids.RegionId) int {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.carryingCapacity[regionID]
}

// biomeMultiplier scales raw resource totals into a region's carrying
// capacity. Stylized, not ecologically calibrated — richer biomes sustain
// proportionally more biomass per unit of resource.
var biomeMultiplier = map[region.Biome]float64{
	region.BiomeTropicalRainforest:    3.0,
	region.BiomeTemperateForest:       2.0,
	region.BiomeBorealForest:          1.5,
	region.BiomeSavanna:               1.8,
	region.BiomeGrassland:             1.6,
	region.BiomeWetland:               2.2,
	region.BiomeCoastal:               1.7,
	region.BiomeCoralReef:             2.5,
	region.BiomeKelpForest:            2.0,
	region.BiomeOpenOcean:             0.8,
	region.BiomeDeepOcean:             0.3,
	region.BiomeHydrothermalVent:      0.6,
	region.BiomeMountain:              0.9,
	region.BiomeTundra:                0.7,
	region.BiomeDesert:                0.4,
	region.BiomeCaveSystem:            0.5,
	region.BiomeUndergroundRiver:      0.6,
	region.BiomeSubterraneanEcosystem: 0.5,
}

func biomeMultiplierFor(b region.Biome) float64 {
	if m, ok := biomeMultiplier[b]; ok {
		return m
	}
	return 1.0
}

// RegionCarryingCapacity sums resource.maxQuantity and scales by the
// region's biome multiplier, per spec.md §4.5.
func RegionCarryingCapacity(r region.Region) int {
	var total float64
	for _, res := range r.Resources {
		total += res.MaxQuantity
	}
	return int(total * biomeMultiplierFor(r.Biome))
}

// maxPreyCount clamps the number of prey edges a predator retains.
func maxPreyCount(sp species.Species) int {
	if sp.Diet == species.DietCarnivore {
		return clampInt(int(sp.Size/10+3), 3, 12)
	}
	return clampInt(int(sp.Size/15+2), 2, 6)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func efficiencyFor(predator, prey species.Species) float64 {
	ratio := predator.Size / math.Max(1, prey.Size)
	if predator.Diet == species.DietCarnivore {
		return math.Min(0.2, 0.05+0.03*math.Min(3, ratio))
	}
	return 0.03 + 0.02*math.Min(2, ratio)
}

func habitatsOverlap(a, b []species.Layer) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// BuildFoodWeb constructs predator->prey edges for every predator-capable
// species (diet carnivore or omnivore) against every candidate prey
// species, per spec.md §4.5.
func BuildFoodWeb(all []species.Species) []Edge {
	var edges []Edge
	for _, predator := range all {
		if predator.Diet != species.DietCarnivore && predator.Diet != species.DietOmnivore {
			continue
		}
		type candidate struct {
			prey species.Species
			dist float64
		}
		var candidates []candidate
		idealPreySize := 0.4 * predator.Size
		for _, prey := range all {
			if prey.ID == predator.ID {
				continue
			}
			if !habitatsOverlap(predator.Habitat, prey.Habitat) {
				continue
			}
			if prey.Size > 1.2*predator.Size {
				continue
			}
			if prey.Size < 0.02*predator.Size {
				continue
			}
			if predator.Diet == species.DietOmnivore && prey.Diet == species.DietCarnivore {
				continue
			}
			candidates = append(candidates, candidate{prey: prey, dist: math.Abs(prey.Size - idealPreySize)})
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

		limit := maxPreyCount(predator)
		if limit > len(candidates) {
			limit = len(candidates)
		}
		for _, c := range candidates[:limit] {
			edges = append(edges, Edge{
				PredatorID: predator.ID,
				PreyID:     c.prey.ID,
				Efficiency: efficiencyFor(predator, c.prey),
			})
		}
	}
	return edges
}
