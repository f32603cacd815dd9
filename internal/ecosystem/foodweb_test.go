package ecosystem

import (
	"testing"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

func wolf() species.Species {
	return species.Species{ID: 1, Diet: species.DietCarnivore, Size: 50, Habitat: []species.Layer{species.LayerSurface}}
}

func deer() species.Species {
	return species.Species{ID: 2, Diet: species.DietHerbivore, Size: 40, Habitat: []species.Layer{species.LayerSurface}}
}

func ant() species.Species {
	return species.Species{ID: 3, Diet: species.DietDetritivore, Size: 1, Habitat: []species.Layer{species.LayerSurface}}
}

func whale() species.Species {
	return species.Species{ID: 4, Diet: species.DietFilterFeeder, Size: 90, Habitat: []species.Layer{species.LayerUnderwater}}
}

func TestBuildFoodWeb_NoEdgeViolatesSizeBounds(t *testing.T) {
	all := []species.Species{wolf(), deer(), ant(), whale()}
	edges := BuildFoodWeb(all)

	bySpecies := map[ids.SpeciesId]species.Species{}
	for _, sp := range all {
		bySpecies[sp.ID] = sp
	}

	for _, e := range edges {
		predator := bySpecies[e.PredatorID]
		prey := bySpecies[e.PreyID]
		if prey.Size > 1.2*predator.Size {
			t.Errorf("edge %v->%v: prey.size %v exceeds 1.2x predator.size %v", e.PredatorID, e.PreyID, prey.Size, predator.Size)
		}
		if prey.Size < 0.02*predator.Size {
			t.Errorf("edge %v->%v: prey.size %v below 0.02x predator.size %v", e.PredatorID, e.PreyID, prey.Size, predator.Size)
		}
		if e.Efficiency <= 0 || e.Efficiency > 0.2 {
			t.Errorf("edge %v->%v: efficiency %v out of (0, 0.2]", e.PredatorID, e.PreyID, e.Efficiency)
		}
	}
}

func TestBuildFoodWeb_NoFilterFeederOrHerbivoreHasPredatorEdgeAsPredator(t *testing.T) {
	all := []species.Species{wolf(), deer(), ant(), whale()}
	edges := BuildFoodWeb(all)
	for _, e := range edges {
		if e.PredatorID == whale().ID || e.PredatorID == deer().ID {
			t.Errorf("filter_feeder/herbivore species %v must not be a predator", e.PredatorID)
		}
	}
}

func TestRegionCarryingCapacity_ScalesByBiome(t *testing.T) {
	rich := region.Region{Biome: region.BiomeTropicalRainforest, Resources: []region.Resource{{MaxQuantity: 100}}}
	poor := region.Region{Biome: region.BiomeDesert, Resources: []region.Resource{{MaxQuantity: 100}}}

	if RegionCarryingCapacity(rich) <= RegionCarryingCapacity(poor) {
		t.Errorf("expected rainforest capacity > desert capacity, got %d vs %d", RegionCarryingCapacity(rich), RegionCarryingCapacity(poor))
	}
}
