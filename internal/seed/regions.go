package seed

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// regionEntry is one static region registration. Resources name a base
// quantity; RegisterRegions jitters it with Perlin noise sampled at the
// region's coordinates so same-biome regions aren't identical.
type regionEntry struct {
	name        string
	layer       species.Layer
	biome       region.Biome
	coords      region.Coordinates
	elevation   float64
	connectsTo  []string
	resources   []region.Resource
}

var seedRegions = []regionEntry{
	{
		name: "Serengeti Plains", layer: species.LayerSurface, biome: region.BiomeSavanna,
		coords: region.Coordinates{Latitude: -2.3, Longitude: 34.8}, elevation: 1500,
		connectsTo: []string{"Congo Basin", "Great Rift Valley"},
		resources:  []region.Resource{{Type: "grass", Quantity: 800, MaxQuantity: 800, RenewRate: 4}},
	},
	{
		name: "Congo Basin", layer: species.LayerSurface, biome: region.BiomeTropicalRainforest,
		coords: region.Coordinates{Latitude: 0.2, Longitude: 22.1}, elevation: 400,
		resources: []region.Resource{{Type: "fruit", Quantity: 600, MaxQuantity: 600, RenewRate: 3}},
	},
	{
		name: "Great Rift Valley", layer: species.LayerSurface, biome: region.BiomeMountain,
		coords: region.Coordinates{Latitude: -1.0, Longitude: 36.0}, elevation: 2200,
		resources: []region.Resource{{Type: "minerals", Quantity: 300, MaxQuantity: 300, RenewRate: 0.5}},
	},
	{
		name: "Boreal Taiga", layer: species.LayerSurface, biome: region.BiomeBorealForest,
		coords: region.Coordinates{Latitude: 60.5, Longitude: 90.0}, elevation: 600,
		connectsTo: []string{"Siberian Tundra"},
		resources:  []region.Resource{{Type: "timber", Quantity: 900, MaxQuantity: 900, RenewRate: 2}},
	},
	{
		name: "Siberian Tundra", layer: species.LayerSurface, biome: region.BiomeTundra,
		coords: region.Coordinates{Latitude: 68.0, Longitude: 100.0}, elevation: 300,
		resources: []region.Resource{{Type: "lichen", Quantity: 400, MaxQuantity: 400, RenewRate: 1}},
	},
	{
		name: "Sahara Dunes", layer: species.LayerSurface, biome: region.BiomeDesert,
		coords: region.Coordinates{Latitude: 23.4, Longitude: 11.0}, elevation: 500,
		resources: []region.Resource{{Type: "scrub", Quantity: 150, MaxQuantity: 150, RenewRate: 0.5}},
	},
	{
		name: "Amazon Wetlands", layer: species.LayerSurface, biome: region.BiomeWetland,
		coords: region.Coordinates{Latitude: -3.5, Longitude: -62.0}, elevation: 100,
		resources: []region.Resource{{Type: "reeds", Quantity: 500, MaxQuantity: 500, RenewRate: 3}},
	},
	{
		name: "Coral Triangle", layer: species.LayerUnderwater, biome: region.BiomeCoralReef,
		coords: region.Coordinates{Latitude: -5.0, Longitude: 122.0}, elevation: -20,
		connectsTo: []string{"Open Pacific"},
		resources:  []region.Resource{{Type: "algae", Quantity: 700, MaxQuantity: 700, RenewRate: 4}},
	},
	{
		name: "Open Pacific", layer: species.LayerUnderwater, biome: region.BiomeOpenOcean,
		coords: region.Coordinates{Latitude: 10.0, Longitude: -150.0}, elevation: -200,
		connectsTo: []string{"Mariana Trench"},
		resources:  []region.Resource{{Type: "plankton", Quantity: 1000, MaxQuantity: 1000, RenewRate: 6}},
	},
	{
		name: "Mariana Trench", layer: species.LayerUnderwater, biome: region.BiomeHydrothermalVent,
		coords: region.Coordinates{Latitude: 11.3, Longitude: 142.2}, elevation: -10900,
		resources: []region.Resource{{Type: "chemosynthetic_bacteria", Quantity: 200, MaxQuantity: 200, RenewRate: 1}},
	},
	{
		name: "Carlsbad Caverns", layer: species.LayerUnderground, biome: region.BiomeCaveSystem,
		coords: region.Coordinates{Latitude: 32.1, Longitude: -104.4}, elevation: -300,
		connectsTo: []string{"Underground River"},
		resources:  []region.Resource{{Type: "guano", Quantity: 100, MaxQuantity: 100, RenewRate: 0.5}},
	},
	{
		name: "Underground River", layer: species.LayerUnderground, biome: region.BiomeUndergroundRiver,
		coords: region.Coordinates{Latitude: 32.0, Longitude: -104.5}, elevation: -400,
		resources: []region.Resource{{Type: "blind_fish", Quantity: 150, MaxQuantity: 150, RenewRate: 1}},
	},
}

// RegisterRegions registers the seed region roster into w, jittering each
// resource's quantity and the region's elevation with 2D Perlin noise
// sampled at its lat/lon so same-biome regions diverge instead of being
// uniformly flat. Connections are wired by name after every region in the
// roster has been created, since Connect needs both ids to already exist.
func RegisterRegions(w *region.World, noise *perlin.Perlin) ([]ids.RegionId, error) {
	byName := make(map[string]ids.RegionId, len(seedRegions))
	out := make([]ids.RegionId, 0, len(seedRegions))

	for _, entry := range seedRegions {
		jitter := noise.Noise2D(entry.coords.Latitude, entry.coords.Longitude)

		resources := make([]region.Resource, len(entry.resources))
		for i, res := range entry.resources {
			scaled := res.Quantity * (1 + 0.2*jitter)
			resources[i] = region.Resource{
				Type: res.Type, Quantity: scaled, MaxQuantity: res.MaxQuantity, RenewRate: res.RenewRate,
			}
		}

		id := w.CreateRegion(region.Spec{
			Name:      entry.name,
			Layer:     entry.layer,
			Biome:     entry.biome,
			Coords:    entry.coords,
			Elevation: entry.elevation + jitter*50,
			Resources: resources,
		})
		byName[entry.name] = id
		out = append(out, id)
	}

	for _, entry := range seedRegions {
		a := byName[entry.name]
		for _, target := range entry.connectsTo {
			b, ok := byName[target]
			if !ok {
				return nil, fmt.Errorf("seed: region %q connects to unknown region %q", entry.name, target)
			}
			if err := w.Connect(a, b); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// NewNoise returns a Perlin generator seeded from rng, used to jitter
// region resource quantities and elevation deterministically for a given
// world seed.
func NewNoise(rng *rand.Rand) *perlin.Perlin {
	return perlin.NewPerlin(2, 2, 3, rng.Int63())
}
