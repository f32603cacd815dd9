// Package seed is the content-only population layer: static taxonomy,
// species, and region descriptors loaded into the registries C2-C4 own at
// world boot. Nothing here computes simulation behavior — it only
// registers data, per spec.md's C18 "content-only" scope.
package seed

import (
	"github.com/meerski/arakh/internal/taxonomy"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrBool(v bool) *bool        { return &v }
func ptrString(v string) *string  { return &v }

// taxonomyNode is one static rank registration. parentName is empty for
// class-rank nodes.
type taxonomyNode struct {
	rank       taxonomy.Rank
	name       string
	parentName string
	traits     taxonomy.Traits
}

// taxonomyTree is the seed taxonomy forest: four classes, each with one to
// four order branches down to species, covering the land, sea, and air habitats the
// rest of the seed data (species, regions) draws on.
var taxonomyTree = []taxonomyNode{
	{rank: taxonomy.RankClass, name: "Mammalia", traits: taxonomy.Traits{
		Intelligence: ptrFloat(35), Size: ptrFloat(30), LifespanTicks: ptrInt(20000),
		MaturityTicks: ptrInt(2000), GestationTicks: ptrInt(200), ReproductionRate: ptrFloat(0.3),
		Habitat: []string{"surface"},
	}},
	{rank: taxonomy.RankOrder, name: "Carnivora", parentName: "Mammalia", traits: taxonomy.Traits{
		Diet: ptrString("carnivore"), Strength: ptrFloat(50), Speed: ptrFloat(45),
	}},
	{rank: taxonomy.RankFamily, name: "Canidae", parentName: "Carnivora", traits: taxonomy.Traits{
		SocialStructure: ptrString("pack"), Speed: ptrFloat(55),
		Perception: &taxonomy.Perception{SmellRange: ptrFloat(60)},
	}},
	{rank: taxonomy.RankGenus, name: "Canis", parentName: "Canidae", traits: taxonomy.Traits{
		Intelligence: ptrFloat(55),
	}},
	{rank: taxonomy.RankOrder, name: "Primates", parentName: "Mammalia", traits: taxonomy.Traits{
		Diet: ptrString("omnivore"), Intelligence: ptrFloat(70), SocialStructure: ptrString("troop"),
	}},
	{rank: taxonomy.RankFamily, name: "Hominidae", parentName: "Primates", traits: taxonomy.Traits{
		Intelligence: ptrFloat(80),
	}},
	{rank: taxonomy.RankGenus, name: "Pan", parentName: "Hominidae", traits: taxonomy.Traits{}},
	{rank: taxonomy.RankOrder, name: "Artiodactyla", parentName: "Mammalia", traits: taxonomy.Traits{
		Diet: ptrString("herbivore"), SocialStructure: ptrString("herd"), Speed: ptrFloat(50),
	}},
	{rank: taxonomy.RankFamily, name: "Cervidae", parentName: "Artiodactyla", traits: taxonomy.Traits{
		Size: ptrFloat(45),
	}},
	{rank: taxonomy.RankGenus, name: "Cervus", parentName: "Cervidae", traits: taxonomy.Traits{}},
	{rank: taxonomy.RankOrder, name: "Proboscidea", parentName: "Mammalia", traits: taxonomy.Traits{
		Diet: ptrString("herbivore"), Size: ptrFloat(95), Strength: ptrFloat(90),
		SocialStructure: ptrString("herd"), LifespanTicks: ptrInt(60000),
	}},
	{rank: taxonomy.RankFamily, name: "Elephantidae", parentName: "Proboscidea", traits: taxonomy.Traits{}},
	{rank: taxonomy.RankGenus, name: "Loxodonta", parentName: "Elephantidae", traits: taxonomy.Traits{}},

	{rank: taxonomy.RankClass, name: "Aves", traits: taxonomy.Traits{
		CanFly: ptrBool(true), Size: ptrFloat(15), Speed: ptrFloat(60),
		LifespanTicks: ptrInt(9000), MaturityTicks: ptrInt(700), GestationTicks: ptrInt(30),
		Habitat: []string{"surface"},
		Perception: &taxonomy.Perception{VisualRange: ptrFloat(80)},
	}},
	{rank: taxonomy.RankOrder, name: "Accipitriformes", parentName: "Aves", traits: taxonomy.Traits{
		Diet: ptrString("carnivore"), SocialStructure: ptrString("solitary"), Strength: ptrFloat(40),
	}},
	{rank: taxonomy.RankFamily, name: "Accipitridae", parentName: "Accipitriformes", traits: taxonomy.Traits{}},
	{rank: taxonomy.RankGenus, name: "Aquila", parentName: "Accipitridae", traits: taxonomy.Traits{
		Intelligence: ptrFloat(45),
	}},

	{rank: taxonomy.RankClass, name: "Reptilia", traits: taxonomy.Traits{
		Intelligence: ptrFloat(15), Size: ptrFloat(25), LifespanTicks: ptrInt(15000),
		MaturityTicks: ptrInt(1500), GestationTicks: ptrInt(180), ReproductionRate: ptrFloat(0.5),
		Habitat: []string{"surface"},
	}},
	{rank: taxonomy.RankOrder, name: "Squamata", parentName: "Reptilia", traits: taxonomy.Traits{
		Diet: ptrString("carnivore"),
	}},
	{rank: taxonomy.RankFamily, name: "Varanidae", parentName: "Squamata", traits: taxonomy.Traits{
		Strength: ptrFloat(60), Size: ptrFloat(40),
	}},
	{rank: taxonomy.RankGenus, name: "Varanus", parentName: "Varanidae", traits: taxonomy.Traits{}},

	{rank: taxonomy.RankClass, name: "Actinopterygii", traits: taxonomy.Traits{
		Aquatic: ptrBool(true), Intelligence: ptrFloat(8), Size: ptrFloat(10),
		LifespanTicks: ptrInt(5000), MaturityTicks: ptrInt(400), GestationTicks: ptrInt(20),
		ReproductionRate: ptrFloat(2), Habitat: []string{"underwater"},
		SocialStructure: ptrString("school"),
	}},
	{rank: taxonomy.RankOrder, name: "Perciformes", parentName: "Actinopterygii", traits: taxonomy.Traits{
		Diet: ptrString("omnivore"),
	}},
	{rank: taxonomy.RankFamily, name: "Percidae", parentName: "Perciformes", traits: taxonomy.Traits{}},
	{rank: taxonomy.RankGenus, name: "Perca", parentName: "Percidae", traits: taxonomy.Traits{}},

	// Species-rank nodes carry the final per-species trait tweaks layered
	// on top of their genus; speciesList in species.go resolves each one.
	{rank: taxonomy.RankSpecies, name: "Canis lupus", parentName: "Canis", traits: taxonomy.Traits{
		Size: ptrFloat(45), SocialStructure: ptrString("pack"),
	}},
	{rank: taxonomy.RankSpecies, name: "Canis latrans", parentName: "Canis", traits: taxonomy.Traits{
		Size: ptrFloat(25), SocialStructure: ptrString("solitary"),
	}},
	{rank: taxonomy.RankSpecies, name: "Pan troglodytes", parentName: "Pan", traits: taxonomy.Traits{
		Size: ptrFloat(35), Strength: ptrFloat(45),
	}},
	{rank: taxonomy.RankSpecies, name: "Cervus elaphus", parentName: "Cervus", traits: taxonomy.Traits{
		Size: ptrFloat(40), Speed: ptrFloat(60),
	}},
	{rank: taxonomy.RankSpecies, name: "Loxodonta africana", parentName: "Loxodonta", traits: taxonomy.Traits{
		LifespanTicks: ptrInt(70000),
	}},
	{rank: taxonomy.RankSpecies, name: "Aquila chrysaetos", parentName: "Aquila", traits: taxonomy.Traits{
		Size: ptrFloat(20), Speed: ptrFloat(70),
	}},
	{rank: taxonomy.RankSpecies, name: "Varanus komodoensis", parentName: "Varanus", traits: taxonomy.Traits{
		Size: ptrFloat(55), Strength: ptrFloat(70),
	}},
	{rank: taxonomy.RankSpecies, name: "Perca flavescens", parentName: "Perca", traits: taxonomy.Traits{
		Size: ptrFloat(8),
	}},
}

// RegisterTaxonomy loads the seed taxonomy forest into reg. Nodes are
// listed parent-before-child, matching Register's contract that a
// parent must already exist.
func RegisterTaxonomy(reg *taxonomy.Registry) error {
	for _, n := range taxonomyTree {
		if err := reg.Register(n.rank, n.name, n.parentName, n.traits); err != nil {
			return err
		}
	}
	return nil
}
