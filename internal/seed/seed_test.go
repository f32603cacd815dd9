package seed

import (
	"math/rand"
	"testing"

	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
	"github.com/meerski/arakh/internal/taxonomy"
)

func TestSeed_RegistersEverySpeciesAndRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	taxReg := taxonomy.NewRegistry()
	speciesReg := species.NewRegistry()
	w := region.CreateWorld("seed-test", 0)

	result, err := Seed(rng, taxReg, speciesReg, w)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if len(result.SpeciesIDs) != len(speciesList) {
		t.Errorf("expected %d species ids, got %d", len(speciesList), len(result.SpeciesIDs))
	}
	if len(result.RegionIDs) != len(seedRegions) {
		t.Errorf("expected %d region ids, got %d", len(seedRegions), len(result.RegionIDs))
	}

	all := speciesReg.GetAll()
	if len(all) != len(speciesList) {
		t.Errorf("expected %d species in registry, got %d", len(speciesList), len(all))
	}

	for _, sp := range all {
		if sp.Name == "" {
			t.Error("expected every seeded species to have a name")
		}
		if sp.Tier == species.TierGenerated {
			t.Errorf("species %q: TierGenerated must never be produced by seed data", sp.Name)
		}
		if len(sp.Habitat) == 0 {
			t.Errorf("species %q: expected a resolved habitat", sp.Name)
		}
	}
}

func TestSeed_TraitsLayerFromTaxonomyPath(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	taxReg := taxonomy.NewRegistry()
	speciesReg := species.NewRegistry()
	w := region.CreateWorld("seed-test", 0)

	if _, err := Seed(rng, taxReg, speciesReg, w); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	wolf, ok := speciesReg.GetByName("gray wolf")
	if !ok {
		t.Fatal("expected gray wolf to be registered")
	}
	if wolf.Diet != species.DietCarnivore {
		t.Errorf("expected gray wolf diet carnivore (from Carnivora order), got %s", wolf.Diet)
	}
	if wolf.SocialStructure != "pack" {
		t.Errorf("expected gray wolf social structure pack, got %s", wolf.SocialStructure)
	}

	perch, ok := speciesReg.GetByName("yellow perch")
	if !ok {
		t.Fatal("expected yellow perch to be registered")
	}
	if !perch.Aquatic {
		t.Error("expected yellow perch to be aquatic, inherited from class Actinopterygii")
	}
	if !perch.HasHabitat(species.LayerUnderwater) {
		t.Error("expected yellow perch habitat to include underwater")
	}
}

func TestRegisterRegions_ConnectionsAreBidirectional(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noise := NewNoise(rng)
	w := region.CreateWorld("seed-test", 0)

	ids, err := RegisterRegions(w, noise)
	if err != nil {
		t.Fatalf("RegisterRegions: %v", err)
	}
	if len(ids) != len(seedRegions) {
		t.Fatalf("expected %d regions, got %d", len(seedRegions), len(ids))
	}

	all := w.All()
	var serengeti, congo region.Region
	for _, r := range all {
		switch r.Name {
		case "Serengeti Plains":
			serengeti = r
		case "Congo Basin":
			congo = r
		}
	}

	foundForward := false
	for _, c := range serengeti.Connections {
		if c == congo.ID {
			foundForward = true
		}
	}
	if !foundForward {
		t.Error("expected Serengeti Plains to connect to Congo Basin")
	}

	foundBackward := false
	for _, c := range congo.Connections {
		if c == serengeti.ID {
			foundBackward = true
		}
	}
	if !foundBackward {
		t.Error("expected Congo Basin to connect back to Serengeti Plains (Connect is bidirectional)")
	}
}

func TestRegisterTaxonomy_RejectsUnknownParentIfCalledWithBadData(t *testing.T) {
	reg := taxonomy.NewRegistry()
	if err := reg.Register(taxonomy.RankOrder, "Orphan", "NoSuchClass", taxonomy.Traits{}); err == nil {
		t.Fatal("expected registering against an unknown parent to fail")
	}
}
