package seed

import (
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/species"
	"github.com/meerski/arakh/internal/taxonomy"
)

// speciesEntry is one static species registration: a taxonomy path to
// resolve traits from, plus the name/tier it is registered under and any
// species-specific numeric overrides not modeled by Traits' fixed fields.
type speciesEntry struct {
	path      taxonomy.Path
	name      string
	tier      species.Tier
	overrides map[string]float64
}

// speciesList is the seed content roster: a handful of flagship species
// (named, narratively significant) and a broader notable tier, spanning
// every class registered in taxonomy.go. Every entry lives on the surface or
// underwater layer with a carnivore, omnivore or herbivore diet; no seed
// species occupies the underground layer or has another diet.
var speciesList = []speciesEntry{
	{name: "gray wolf", tier: species.TierFlagship, path: taxonomy.Path{
		Class: "Mammalia", Order: "Carnivora", Family: "Canidae", Genus: "Canis", Species: "Canis lupus",
	}},
	{name: "coyote", tier: species.TierNotable, path: taxonomy.Path{
		Class: "Mammalia", Order: "Carnivora", Family: "Canidae", Genus: "Canis", Species: "Canis latrans",
	}},
	{name: "chimpanzee", tier: species.TierFlagship, path: taxonomy.Path{
		Class: "Mammalia", Order: "Primates", Family: "Hominidae", Genus: "Pan", Species: "Pan troglodytes",
	}},
	{name: "red deer", tier: species.TierNotable, path: taxonomy.Path{
		Class: "Mammalia", Order: "Artiodactyla", Family: "Cervidae", Genus: "Cervus", Species: "Cervus elaphus",
	}},
	{name: "African elephant", tier: species.TierFlagship, path: taxonomy.Path{
		Class: "Mammalia", Order: "Proboscidea", Family: "Elephantidae", Genus: "Loxodonta", Species: "Loxodonta africana",
	}},
	{name: "golden eagle", tier: species.TierFlagship, path: taxonomy.Path{
		Class: "Aves", Order: "Accipitriformes", Family: "Accipitridae", Genus: "Aquila", Species: "Aquila chrysaetos",
	}},
	{name: "komodo dragon", tier: species.TierNotable, path: taxonomy.Path{
		Class: "Reptilia", Order: "Squamata", Family: "Varanidae", Genus: "Varanus", Species: "Varanus komodoensis",
	}},
	{name: "yellow perch", tier: species.TierNotable, path: taxonomy.Path{
		Class: "Actinopterygii", Order: "Perciformes", Family: "Percidae", Genus: "Perca", Species: "Perca flavescens",
	}},
}

// descriptorFromTraits converts a resolved taxonomy.Traits (every field
// guaranteed non-nil by taxonomy.defaults) into a species.Descriptor.
func descriptorFromTraits(name string, tier species.Tier, t taxonomy.Traits, overrides map[string]float64) species.Descriptor {
	habitat := make([]species.Layer, 0, len(t.Habitat))
	for _, h := range t.Habitat {
		habitat = append(habitat, species.Layer(h))
	}

	perception := species.Perception{}
	if t.Perception != nil {
		if t.Perception.VisualRange != nil {
			perception.VisualRange = *t.Perception.VisualRange
		}
		if t.Perception.HearingRange != nil {
			perception.HearingRange = *t.Perception.HearingRange
		}
		if t.Perception.SmellRange != nil {
			perception.SmellRange = *t.Perception.SmellRange
		}
		if t.Perception.Echolocation != nil {
			perception.Echolocation = *t.Perception.Echolocation
		}
		if t.Perception.Electroreception != nil {
			perception.Electroreception = *t.Perception.Electroreception
		}
		if t.Perception.ThermalSensing != nil {
			perception.ThermalSensing = *t.Perception.ThermalSensing
		}
	}

	return species.Descriptor{
		Name:             name,
		Tier:             tier,
		Intelligence:     derefFloat(t.Intelligence),
		Size:             derefFloat(t.Size),
		Strength:         derefFloat(t.Strength),
		Speed:            derefFloat(t.Speed),
		LifespanTicks:    derefInt(t.LifespanTicks),
		MaturityTicks:    derefInt(t.MaturityTicks),
		GestationTicks:   derefInt(t.GestationTicks),
		ReproductionRate: derefFloat(t.ReproductionRate),
		Diet:             species.Diet(derefString(t.Diet)),
		SocialStructure:  derefString(t.SocialStructure),
		Nocturnal:        derefBool(t.Nocturnal),
		Aquatic:          derefBool(t.Aquatic),
		CanFly:           derefBool(t.CanFly),
		Habitat:          habitat,
		Perception:       perception,
		Overrides:        overrides,
	}
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// RegisterSpecies resolves every entry in the seed species roster against
// taxReg and registers the result into speciesReg, returning the minted
// ids in roster order.
func RegisterSpecies(taxReg *taxonomy.Registry, speciesReg *species.Registry) ([]ids.SpeciesId, error) {
	out := make([]ids.SpeciesId, 0, len(speciesList))
	for _, entry := range speciesList {
		traits, err := taxReg.ResolveTraits(entry.path)
		if err != nil {
			return nil, err
		}
		d := descriptorFromTraits(entry.name, entry.tier, traits, entry.overrides)
		id, err := speciesReg.Register(d)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
