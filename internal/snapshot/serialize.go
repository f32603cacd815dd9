package snapshot

import (
	"sort"
	"time"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// Serialize builds the versioned document of spec.md §4.16 from the
// engine's live registries. Per §5's concurrency model, each registry's
// own copy-out accessors already take the exclusive hold this needs — the
// caller is expected to invoke Serialize between ticks, while the engine
// worker is idle, exactly as the scheduler's checkpoint hook does.
func Serialize(worldName string, w *region.World, speciesReg *species.Registry, charReg *character.Registry, treeReg *character.FamilyTreeRegistry, cardReg *legacy.CardRegistry, createdAt time.Time) Document {
	regions := w.All()
	regionDocs := make([]RegionDoc, 0, len(regions))
	for _, r := range regions {
		regionDocs = append(regionDocs, regionDocFrom(r))
	}

	allSpecies := speciesReg.GetAll()
	speciesDocs := make([]SpeciesDoc, 0, len(allSpecies))
	for _, sp := range allSpecies {
		speciesDocs = append(speciesDocs, speciesDocFrom(sp))
	}

	trees := treeReg.All()
	treeDocs := make([]FamilyTreeDoc, 0, len(trees))
	for _, t := range trees {
		treeDocs = append(treeDocs, familyTreeDocFrom(t))
	}

	cards := cardReg.List()
	cardDocs := make([]CardDoc, 0, len(cards))
	for _, c := range cards {
		cardDocs = append(cardDocs, CardDoc{
			ID: c.ID, CharacterID: c.CharacterID, FamilyTreeID: c.FamilyTreeID,
			Fame: c.Fame, IssuedAtTick: c.IssuedAtTick, Narrative: c.Narrative,
		})
	}

	allCharacters := charReg.All()
	characterDocs := make([]CharacterDoc, 0, len(allCharacters))
	for _, c := range allCharacters {
		characterDocs = append(characterDocs, characterDocFrom(c))
	}

	hallOfFame := hallOfFameFrom(allCharacters)

	doc := Document{
		Version:   DocumentVersion,
		CreatedAt: createdAt,
		Tick:      w.Clock.Tick,
		World: WorldDoc{
			Name:      worldName,
			Time:      ClockDoc{Tick: w.Clock.Tick, Hour: w.Clock.Hour, Season: w.Clock.Season},
			Era:       w.Clock.Era,
			Regions:   regionDocs,
			StartedAt: w.StartedAt,
		},
		Species:     speciesDocs,
		Characters:  characterDocs,
		Cards:       cardDocs,
		FamilyTrees: treeDocs,
		HallOfFame:  hallOfFame,
		Metadata: Metadata{Counts: Counts{
			Regions:     len(regionDocs),
			Species:     len(speciesDocs),
			Characters:  len(characterDocs),
			FamilyTrees: len(treeDocs),
			Cards:       len(cardDocs),
		}},
	}
	return doc
}

func characterDocFrom(c character.Character) CharacterDoc {
	genetics := make(map[character.Gene]float64, len(c.Genetics))
	for k, v := range c.Genetics {
		genetics[k] = v
	}
	return CharacterDoc{
		ID: c.ID, SpeciesID: c.SpeciesID, RegionID: c.RegionID, FamilyTreeID: c.FamilyTreeID,
		ParentIDs: append([]ids.CharacterId(nil), c.ParentIDs...),
		ChildIDs:  append([]ids.CharacterId(nil), c.ChildIDs...),
		Sex:       c.Sex, Age: c.Age, BirthTick: c.BirthTick, Generation: c.Generation,
		Genetics: genetics, Health: c.Health, Energy: c.Energy,
		Inventory:     append([]string(nil), c.Inventory...),
		Knowledge:     append([]character.Knowledge(nil), c.Knowledge...),
		Relationships: append([]character.Relationship(nil), c.Relationships...),
		Fame:          c.Fame, Role: c.Role, Class: c.Class, IsGenesisElder: c.IsGenesisElder,
		GestationEndsAtTick: c.GestationEndsAtTick, LastBreedingTick: c.LastBreedingTick, IsAlive: c.IsAlive,
	}
}

func regionDocFrom(r region.Region) RegionDoc {
	pops := make([]PopulationDoc, 0, len(r.Populations))
	for _, p := range r.Populations {
		pops = append(pops, PopulationDoc{SpeciesID: p.SpeciesID, Count: p.Count, Members: p.Members})
	}
	sort.Slice(pops, func(i, j int) bool { return pops[i].SpeciesID < pops[j].SpeciesID })

	return RegionDoc{
		ID:              r.ID,
		Name:            r.Name,
		Layer:           r.Layer,
		Biome:           r.Biome,
		Coords:          r.Coords,
		Elevation:       r.Elevation,
		Climate:         r.Climate,
		Populations:     pops,
		Resources:       r.Resources,
		Connections:     r.Connections,
		HiddenLocations: r.HiddenLocations,
	}
}

func speciesDocFrom(sp species.Species) SpeciesDoc {
	return SpeciesDoc{
		ID: sp.ID, Name: sp.Name, Tier: sp.Tier, Status: sp.Status,
		Intelligence: sp.Intelligence, Size: sp.Size, Strength: sp.Strength, Speed: sp.Speed,
		LifespanTicks: sp.LifespanTicks, MaturityTicks: sp.MaturityTicks, GestationTicks: sp.GestationTicks,
		ReproductionRate: sp.ReproductionRate, Diet: sp.Diet, SocialStructure: sp.SocialStructure,
		Nocturnal: sp.Nocturnal, Aquatic: sp.Aquatic, CanFly: sp.CanFly, Habitat: sp.Habitat,
		TotalPopulation: sp.TotalPopulation,
	}
}

func familyTreeDocFrom(t character.FamilyTree) FamilyTreeDoc {
	members := make([]ids.CharacterId, 0, len(t.Members))
	for id := range t.Members {
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	return FamilyTreeDoc{
		ID: t.ID, SpeciesID: t.SpeciesID, OwnerID: t.OwnerID, RootCharacterID: t.RootCharacterID,
		Generations: t.Generations, Members: members, IsExtinct: t.IsExtinct,
	}
}

// hallOfFameFrom ranks every living main-class character by fame,
// descending. See DESIGN.md for why this, and not a dump of every living
// character, is the Open Question resolution for `hallOfFame[]`.
func hallOfFameFrom(all []character.Character) []HallOfFameEntry {
	var entries []HallOfFameEntry
	for _, c := range all {
		if !c.IsAlive || c.Class != character.ClassMain {
			continue
		}
		entries = append(entries, HallOfFameEntry{
			CharacterID: c.ID, FamilyTreeID: c.FamilyTreeID, SpeciesID: c.SpeciesID,
			Fame: c.Fame, Role: c.Role,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Fame > entries[j].Fame })
	return entries
}
