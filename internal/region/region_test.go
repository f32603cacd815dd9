package region

import (
	"testing"

	"github.com/meerski/arakh/internal/species"
)

func TestCreateRegion_ConnectIsBidirectional(t *testing.T) {
	w := CreateWorld("Test", 0)
	a := w.CreateRegion(Spec{Name: "A", Layer: species.LayerSurface, Biome: BiomeGrassland})
	b := w.CreateRegion(Spec{Name: "B", Layer: species.LayerSurface, Biome: BiomeGrassland})
	if err := w.Connect(a, b); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ra, _ := w.Get(a)
	rb, _ := w.Get(b)
	if len(ra.Connections) != 1 || ra.Connections[0] != b {
		t.Errorf("region A connections = %v, want [%v]", ra.Connections, b)
	}
	if len(rb.Connections) != 1 || rb.Connections[0] != a {
		t.Errorf("region B connections = %v, want [%v]", rb.Connections, a)
	}
}

func TestIsBiomeSuitable_Aquatic(t *testing.T) {
	shark := species.Species{Aquatic: true}
	coastal := Region{Layer: species.LayerUnderwater, Biome: BiomeCoastal}
	desert := Region{Layer: species.LayerSurface, Biome: BiomeDesert}

	if !IsBiomeSuitable(shark, coastal) {
		t.Error("aquatic species should be suited to coastal biome")
	}
	if IsBiomeSuitable(shark, desert) {
		t.Error("aquatic species should not be suited to desert biome")
	}
}

func TestIsBiomeSuitable_FlyingAlwaysSurface(t *testing.T) {
	bird := species.Species{CanFly: true, Habitat: []species.Layer{species.LayerSurface}}
	anyBiome := Region{Layer: species.LayerSurface, Biome: BiomeDesert}
	if !IsBiomeSuitable(bird, anyBiome) {
		t.Error("flying species should always be suited to the surface layer")
	}
}

func TestIsBiomeSuitable_UndergroundRequiresSmallSize(t *testing.T) {
	mole := species.Species{Size: 10, Habitat: []species.Layer{species.LayerUnderground}}
	bear := species.Species{Size: 80, Habitat: []species.Layer{species.LayerUnderground}}
	cave := Region{Layer: species.LayerUnderground, Biome: BiomeCaveSystem}

	if !IsBiomeSuitable(mole, cave) {
		t.Error("small species should be suited to underground layer")
	}
	if IsBiomeSuitable(bear, cave) {
		t.Error("large species should not be suited to underground layer")
	}
}

func TestIsBiomeSuitable_DefaultsToHabitatMembership(t *testing.T) {
	deer := species.Species{Habitat: []species.Layer{species.LayerSurface}}
	surface := Region{Layer: species.LayerSurface, Biome: BiomeGrassland}
	underwater := Region{Layer: species.LayerUnderwater, Biome: BiomeOpenOcean}

	if !IsBiomeSuitable(deer, surface) {
		t.Error("surface-habitat species should be suited to a surface region")
	}
	if IsBiomeSuitable(deer, underwater) {
		t.Error("surface-habitat species should not be suited to an underwater region")
	}
}

func TestClockAdvance_NeverGoesBackwards(t *testing.T) {
	c := Clock{}
	prevTick := c.Tick
	for i := 0; i < 1000; i++ {
		c.Advance()
		if c.Tick <= prevTick {
			t.Fatalf("tick did not advance monotonically at step %d", i)
		}
		prevTick = c.Tick
	}
}
