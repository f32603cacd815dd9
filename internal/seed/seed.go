package seed

import (
	"math/rand"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
	"github.com/meerski/arakh/internal/taxonomy"
)

// Result is what a completed Seed call produced, handed to the ecosystem
// initializer (C6) to place genesis characters.
type Result struct {
	SpeciesIDs []ids.SpeciesId
	RegionIDs  []ids.RegionId
}

// Seed loads the static taxonomy, species, and region content into the
// registries a fresh world boot needs before C6's ecosystem initializer
// can run. rng drives the Perlin jitter applied to region resources and
// elevation, so a world booted from the same WORLD_SEED always gets the
// same content.
func Seed(rng *rand.Rand, taxReg *taxonomy.Registry, speciesReg *species.Registry, w *region.World) (Result, error) {
	if err := RegisterTaxonomy(taxReg); err != nil {
		return Result{}, err
	}

	speciesIDs, err := RegisterSpecies(taxReg, speciesReg)
	if err != nil {
		return Result{}, err
	}

	noise := NewNoise(rng)
	regionIDs, err := RegisterRegions(w, noise)
	if err != nil {
		return Result{}, err
	}

	return Result{SpeciesIDs: speciesIDs, RegionIDs: regionIDs}, nil
}
