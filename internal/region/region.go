// Package region models the world clock and the hierarchy of regions: their
// biome, layer, climate state, resources, connections, and populations.
package region

import (
	"sync"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/species"
)

// Biome is a closed enumeration referenced by code throughout the engine.
type Biome string

const (
	BiomeTropicalRainforest    Biome = "tropical_rainforest"
	BiomeTemperateForest       Biome = "temperate_forest"
	BiomeBorealForest          Biome = "boreal_forest"
	BiomeSavanna               Biome = "savanna"
	BiomeGrassland             Biome = "grassland"
	BiomeDesert                Biome = "desert"
	BiomeTundra                Biome = "tundra"
	BiomeMountain              Biome = "mountain"
	BiomeWetland               Biome = "wetland"
	BiomeCoastal               Biome = "coastal"
	BiomeCoralReef             Biome = "coral_reef"
	BiomeOpenOcean             Biome = "open_ocean"
	BiomeDeepOcean             Biome = "deep_ocean"
	BiomeHydrothermalVent      Biome = "hydrothermal_vent"
	BiomeKelpForest            Biome = "kelp_forest"
	BiomeCaveSystem            Biome = "cave_system"
	BiomeUndergroundRiver      Biome = "underground_river"
	BiomeSubterraneanEcosystem Biome = "subterranean_ecosystem"
)

var aquaticBiomes = map[Biome]bool{
	BiomeCoralReef:        true,
	BiomeOpenOcean:        true,
	BiomeDeepOcean:        true,
	BiomeHydrothermalVent: true,
	BiomeKelpForest:       true,
	BiomeWetland:          true,
	BiomeCoastal:          true,
	BiomeUndergroundRiver: true,
}

// Climate is a region's current weather state. Owned and mutated by the
// climate engine (internal/climate); region only carries the data.
type Climate struct {
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
	Pollution     float64
}

// Resource is one harvestable quantity tracked in a region.
type Resource struct {
	Type        string
	Quantity    float64
	MaxQuantity float64
	RenewRate   float64
}

// Population is the species-level roster within a region: a count plus the
// character ids currently resident, so the ecosystem layer can aggregate
// without walking the whole character arena.
type Population struct {
	SpeciesID ids.SpeciesId
	Count     int
	Members   []ids.CharacterId
}

// Coordinates is a simple lat/lon pair; used by the climate engine for
// solar elevation and seasonal variance.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Region is one geographic cell.
type Region struct {
	ID              ids.RegionId
	Name            string
	Layer           species.Layer
	Biome           Biome
	Coords          Coordinates
	Elevation       float64
	Climate         Climate
	Resources       []Resource
	Connections     []ids.RegionId
	Populations     map[ids.SpeciesId]Population
	HiddenLocations []string
}

// Spec is the input to CreateRegion.
type Spec struct {
	Name      string
	Layer     species.Layer
	Biome     Biome
	Coords    Coordinates
	Elevation float64
	Resources []Resource
}

// Clock tracks game time. A tick advances it; hour/season/era derive from
// the tick count by the tick/year conversion the content layer uses
// (86.4 ticks per in-game year).
type Clock struct {
	Tick   uint64
	Hour   int
	Season string
	Era    int
}

const ticksPerYear = 86.4

var seasonOrder = []string{"spring", "summer", "autumn", "winter"}

// Advance steps the clock by one tick, rolling hour/season/era forward.
func (c *Clock) Advance() {
	c.Tick++
	yearsElapsed := float64(c.Tick) / ticksPerYear
	dayOfYear := (yearsElapsed - float64(int(yearsElapsed))) * 365.0
	c.Hour = int(dayOfYear*24) % 24
	seasonIdx := int(dayOfYear/91.25) % len(seasonOrder)
	if seasonIdx < 0 {
		seasonIdx = 0
	}
	c.Season = seasonOrder[seasonIdx]
	c.Era = int(yearsElapsed / 1000)
}

// World is the root simulation state: the clock plus the region arena. The
// world exclusively owns the region arena; nothing outside this package may
// hold a live reference into it.
type World struct {
	Name      string
	Clock     Clock
	StartedAt int64 // unix seconds, stamped by the caller at creation

	mu      sync.RWMutex
	arena   ids.Arena
	regions map[ids.RegionId]*Region
}

// CreateWorld produces a fresh root world state with a zeroed clock.
func CreateWorld(name string, startedAt int64) *World {
	return &World{
		Name:      name,
		StartedAt: startedAt,
		Clock:     Clock{Season: seasonOrder[0]},
		regions:   make(map[ids.RegionId]*Region),
	}
}

// CreateRegion inserts a new region into the world's region arena.
func (w *World) CreateRegion(spec Spec) ids.RegionId {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := ids.RegionId(w.arena.Next())
	w.regions[id] = &Region{
		ID:          id,
		Name:        spec.Name,
		Layer:       spec.Layer,
		Biome:       spec.Biome,
		Coords:      spec.Coords,
		Elevation:   spec.Elevation,
		Resources:   append([]Resource(nil), spec.Resources...),
		Populations: make(map[ids.SpeciesId]Population),
	}
	return id
}

// RestoreRegion reinserts a region exactly as recorded in a snapshot
// document, preserving its id. Used only during world boot-from-checkpoint.
func (w *World) RestoreRegion(r Region) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := cloneRegion(&r)
	w.regions[r.ID] = &cp
	w.arena.Bump(uint64(r.ID))
}

// Connect registers a bidirectional connection between two regions.
func (w *World) Connect(a, b ids.RegionId) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ra, ok := w.regions[a]
	if !ok {
		return errors.ErrRegionNotFound
	}
	rb, ok := w.regions[b]
	if !ok {
		return errors.ErrRegionNotFound
	}
	ra.Connections = append(ra.Connections, b)
	rb.Connections = append(rb.Connections, a)
	return nil
}

// Get returns a copy of the region, never a live pointer.
func (w *World) Get(id ids.RegionId) (Region, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.regions[id]
	if !ok {
		return Region{}, false
	}
	return cloneRegion(r), true
}

// All returns a copy of every region in the world, in no particular order.
func (w *World) All() []Region {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Region, 0, len(w.regions))
	for _, r := range w.regions {
		out = append(out, cloneRegion(r))
	}
	return out
}

// Update applies fn to the live region under lock and returns the
// post-update copy. fn must not retain r beyond the call.
func (w *World) Update(id ids.RegionId, fn func(r *Region)) (Region, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.regions[id]
	if !ok {
		return Region{}, errors.ErrRegionNotFound
	}
	fn(r)
	return cloneRegion(r), nil
}

func cloneRegion(r *Region) Region {
	cp := *r
	cp.Resources = append([]Resource(nil), r.Resources...)
	cp.Connections = append([]ids.RegionId(nil), r.Connections...)
	cp.HiddenLocations = append([]string(nil), r.HiddenLocations...)
	cp.Populations = make(map[ids.SpeciesId]Population, len(r.Populations))
	for k, v := range r.Populations {
		v.Members = append([]ids.CharacterId(nil), v.Members...)
		cp.Populations[k] = v
	}
	return cp
}

// IsBiomeSuitable reports whether sp can live in region per §4.3: aquatic
// species require one of the aquatic biomes; flying species are always
// suited to the surface layer; underground habitability additionally
// requires a small enough body size; otherwise the species' own habitat
// set must include the region's layer.
func IsBiomeSuitable(sp species.Species, r Region) bool {
	if sp.Aquatic {
		return aquaticBiomes[r.Biome]
	}
	if sp.CanFly && r.Layer == species.LayerSurface {
		return true
	}
	if r.Layer == species.LayerUnderground {
		return sp.Size < 30
	}
	return sp.HasHabitat(r.Layer)
}
