package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// ErrUnsupportedVersion is returned when a document's version is newer
// than this build knows how to restore.
var ErrUnsupportedVersion = fmt.Errorf("snapshot: document version is newer than this build supports")

// Decode parses a snapshot document from its JSON encoding. It does not
// mutate any registry; call Restore to hydrate live state from the result.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if doc.Version > DocumentVersion {
		return Document{}, ErrUnsupportedVersion
	}
	return doc, nil
}

// Encode renders a document to its JSON encoding, pretty-printed so a
// checkpoint file is diffable by a human operator.
func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Restore hydrates a freshly constructed set of registries from a
// document. Every registry must be empty: Restore preserves the ids
// recorded in the document rather than minting new ones, so replaying it
// into a live world would corrupt existing entities.
func Restore(doc Document, w *region.World, speciesReg *species.Registry, charReg *character.Registry, treeReg *character.FamilyTreeRegistry, cardReg *legacy.CardRegistry) {
	w.Name = doc.World.Name
	w.StartedAt = doc.World.StartedAt
	w.Clock = region.Clock{
		Tick:   doc.World.Time.Tick,
		Hour:   doc.World.Time.Hour,
		Season: doc.World.Time.Season,
		Era:    doc.World.Era,
	}

	for _, rd := range doc.World.Regions {
		w.RestoreRegion(regionFromDoc(rd))
	}

	for _, sd := range doc.Species {
		speciesReg.Restore(speciesFromDoc(sd))
	}

	for _, td := range doc.FamilyTrees {
		treeReg.Restore(character.FamilyTree{
			ID: td.ID, SpeciesID: td.SpeciesID, OwnerID: td.OwnerID,
			RootCharacterID: td.RootCharacterID, Generations: td.Generations, IsExtinct: td.IsExtinct,
		}, td.Members)
	}

	for _, card := range doc.Cards {
		cardReg.Restore(legacy.Card{
			ID: card.ID, CharacterID: card.CharacterID, FamilyTreeID: card.FamilyTreeID,
			Fame: card.Fame, IssuedAtTick: card.IssuedAtTick, Narrative: card.Narrative,
		})
	}

	for _, cd := range doc.Characters {
		charReg.Restore(characterFromDoc(cd))
	}
}

func characterFromDoc(cd CharacterDoc) character.Character {
	genetics := make(map[character.Gene]float64, len(cd.Genetics))
	for k, v := range cd.Genetics {
		genetics[k] = v
	}
	return character.Character{
		ID: cd.ID, SpeciesID: cd.SpeciesID, RegionID: cd.RegionID, FamilyTreeID: cd.FamilyTreeID,
		ParentIDs: cd.ParentIDs, ChildIDs: cd.ChildIDs, Sex: cd.Sex, Age: cd.Age,
		BirthTick: cd.BirthTick, Generation: cd.Generation, Genetics: genetics,
		Health: cd.Health, Energy: cd.Energy, Inventory: cd.Inventory, Knowledge: cd.Knowledge,
		Relationships: cd.Relationships, Fame: cd.Fame, Role: cd.Role, Class: cd.Class,
		IsGenesisElder: cd.IsGenesisElder, GestationEndsAtTick: cd.GestationEndsAtTick,
		LastBreedingTick: cd.LastBreedingTick, IsAlive: cd.IsAlive,
	}
}

func regionFromDoc(rd RegionDoc) region.Region {
	r := region.Region{
		ID: rd.ID, Name: rd.Name, Layer: rd.Layer, Biome: rd.Biome, Coords: rd.Coords,
		Elevation: rd.Elevation, Climate: rd.Climate, Resources: rd.Resources,
		Connections: rd.Connections, HiddenLocations: rd.HiddenLocations,
	}
	r.Populations = make(map[ids.SpeciesId]region.Population, len(rd.Populations))
	for _, p := range rd.Populations {
		r.Populations[p.SpeciesID] = region.Population{SpeciesID: p.SpeciesID, Count: p.Count, Members: p.Members}
	}
	return r
}

func speciesFromDoc(sd SpeciesDoc) species.Species {
	return species.Species{
		ID: sd.ID, Name: sd.Name, Tier: sd.Tier, Status: sd.Status,
		Intelligence: sd.Intelligence, Size: sd.Size, Strength: sd.Strength, Speed: sd.Speed,
		LifespanTicks: sd.LifespanTicks, MaturityTicks: sd.MaturityTicks, GestationTicks: sd.GestationTicks,
		ReproductionRate: sd.ReproductionRate, Diet: sd.Diet, SocialStructure: sd.SocialStructure,
		Nocturnal: sd.Nocturnal, Aquatic: sd.Aquatic, CanFly: sd.CanFly, Habitat: sd.Habitat,
		TotalPopulation: sd.TotalPopulation,
	}
}
