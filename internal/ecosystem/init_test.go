package ecosystem

import (
	"math/rand"
	"testing"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

func TestInitialize_SeedsPopulationsAndFoodWeb(t *testing.T) {
	w := region.CreateWorld("Test", 0)
	for i := 0; i < 10; i++ {
		w.CreateRegion(region.Spec{Name: "grass", Layer: species.LayerSurface, Biome: region.BiomeGrassland, Resources: []region.Resource{{MaxQuantity: 50}}})
	}

	speciesReg := species.NewRegistry()
	wolfID, err := speciesReg.Register(species.Descriptor{
		Name: "wolf", Tier: species.TierNotable, Diet: species.DietCarnivore,
		Size: 50, Speed: 50, Strength: 50, Intelligence: 30,
		MaturityTicks: 100, GestationTicks: 50, ReproductionRate: 4,
		Habitat: []species.Layer{species.LayerSurface},
	})
	if err != nil {
		t.Fatalf("register wolf: %v", err)
	}
	deerID, err := speciesReg.Register(species.Descriptor{
		Name: "deer", Tier: species.TierNotable, Diet: species.DietHerbivore,
		Size: 35, Speed: 60, Strength: 20, Intelligence: 15,
		MaturityTicks: 100, GestationTicks: 50, ReproductionRate: 5,
		Habitat: []species.Layer{species.LayerSurface},
	})
	if err != nil {
		t.Fatalf("register deer: %v", err)
	}

	charReg := character.NewRegistry()
	treeReg := character.NewFamilyTreeRegistry()
	fw := NewFoodWeb()
	rng := rand.New(rand.NewSource(1))

	if err := Initialize(rng, w, speciesReg, charReg, treeReg, fw, 0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	wolfSp, _ := speciesReg.Get(wolfID)
	deerSp, _ := speciesReg.Get(deerID)
	if wolfSp.TotalPopulation == 0 {
		t.Error("expected wolf population to be seeded")
	}
	if deerSp.TotalPopulation == 0 {
		t.Error("expected deer population to be seeded")
	}

	edges := fw.Edges()
	foundWolfEatsDeer := false
	for _, e := range edges {
		if e.PredatorID == wolfID && e.PreyID == deerID {
			foundWolfEatsDeer = true
		}
	}
	if !foundWolfEatsDeer {
		t.Error("expected wolf->deer food web edge")
	}

	for _, r := range w.All() {
		if fw.CarryingCapacity(r.ID) <= 0 {
			t.Errorf("expected positive carrying capacity for region %v", r.ID)
		}
	}
}

func TestSelectRegions_RespectsMinimumOfThree(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	candidates := []region.Region{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	selected := selectRegions(rng, candidates)
	if len(selected) < 3 {
		t.Errorf("len(selected) = %d, want >= 3", len(selected))
	}
}

func TestInitialPopulation_FlagshipExceedsDefault(t *testing.T) {
	flagship := species.Species{Tier: species.TierFlagship, Size: 50}
	notable := species.Species{Tier: species.TierNotable, Size: 50}
	if InitialPopulation(flagship) <= InitialPopulation(notable) {
		t.Error("expected flagship baseline population to exceed notable baseline")
	}
}
