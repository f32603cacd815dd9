// Package snapshot serializes world state to the versioned document
// spec.md §4.16 defines and restores it, plus the filesystem/Postgres
// checkpoint repositories and retention sweep that make it durable.
// Grounded on the teacher's internal/repository (PostgresWorldRepository
// shape) for the durable store and internal/world/catchup.go for the
// "pause, snapshot, resume" framing of a world boundary.
package snapshot

import (
	"time"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// DocumentVersion is bumped whenever the document shape gains a field.
// Per spec.md §6, older versions remain readable: new fields are additive
// and zero-value tolerant.
const DocumentVersion = 1

// Document is the top-level snapshot shape of spec.md §4.16.
type Document struct {
	Version    int          `json:"version"`
	CreatedAt  time.Time    `json:"createdAt"`
	Tick       uint64       `json:"tick"`
	World       WorldDoc          `json:"world"`
	Species     []SpeciesDoc      `json:"species"`
	Characters  []CharacterDoc    `json:"characters"`
	Cards       []CardDoc         `json:"cards"`
	FamilyTrees []FamilyTreeDoc   `json:"familyTrees"`
	HallOfFame  []HallOfFameEntry `json:"hallOfFame"`
	Metadata    Metadata          `json:"metadata"`
}

// WorldDoc is the world-root subset of the document.
type WorldDoc struct {
	Name      string      `json:"name"`
	Time      ClockDoc    `json:"time"`
	Era       int         `json:"era"`
	Regions   []RegionDoc `json:"regions"`
	StartedAt int64       `json:"startedAt"`
}

// ClockDoc mirrors region.Clock.
type ClockDoc struct {
	Tick   uint64 `json:"tick"`
	Hour   int    `json:"hour"`
	Season string `json:"season"`
}

// RegionDoc is one region, per spec.md §4.16's exact field list.
type RegionDoc struct {
	ID              ids.RegionId         `json:"id"`
	Name            string               `json:"name"`
	Layer           species.Layer        `json:"layer"`
	Biome           region.Biome         `json:"biome"`
	Coords          region.Coordinates   `json:"coords"`
	Elevation       float64              `json:"elevation"`
	Climate         region.Climate       `json:"climate"`
	Populations     []PopulationDoc      `json:"populations"`
	Resources       []region.Resource    `json:"resources"`
	Connections     []ids.RegionId       `json:"connections"`
	HiddenLocations []string             `json:"hiddenLocations"`
}

// PopulationDoc flattens region.Population's map into a slice for stable
// JSON ordering.
type PopulationDoc struct {
	SpeciesID ids.SpeciesId     `json:"speciesId"`
	Count     int               `json:"count"`
	Members   []ids.CharacterId `json:"members"`
}

// SpeciesDoc is one resolved species.
type SpeciesDoc struct {
	ID               ids.SpeciesId         `json:"id"`
	Name             string                `json:"name"`
	Tier             species.Tier          `json:"tier"`
	Status           species.Status        `json:"status"`
	Intelligence     float64               `json:"intelligence"`
	Size             float64               `json:"size"`
	Strength         float64               `json:"strength"`
	Speed            float64               `json:"speed"`
	LifespanTicks    int                   `json:"lifespanTicks"`
	MaturityTicks    int                   `json:"maturityTicks"`
	GestationTicks   int                   `json:"gestationTicks"`
	ReproductionRate float64               `json:"reproductionRate"`
	Diet             species.Diet          `json:"diet"`
	SocialStructure  string                `json:"socialStructure"`
	Nocturnal        bool                  `json:"nocturnal"`
	Aquatic          bool                  `json:"aquatic"`
	CanFly           bool                  `json:"canFly"`
	Habitat          []species.Layer       `json:"habitat"`
	TotalPopulation  int                   `json:"totalPopulation"`
}

// CharacterDoc is one character, living or dead, at snapshot time.
type CharacterDoc struct {
	ID             ids.CharacterId        `json:"id"`
	SpeciesID      ids.SpeciesId          `json:"speciesId"`
	RegionID       ids.RegionId           `json:"regionId"`
	FamilyTreeID   ids.FamilyTreeId       `json:"familyTreeId"`
	ParentIDs      []ids.CharacterId      `json:"parentIds"`
	ChildIDs       []ids.CharacterId      `json:"childIds"`
	Sex            character.Sex          `json:"sex"`
	Age            uint64                 `json:"age"`
	BirthTick      uint64                 `json:"birthTick"`
	Generation     int                    `json:"generation"`
	Genetics       map[character.Gene]float64 `json:"genetics"`
	Health         float64                `json:"health"`
	Energy         float64                `json:"energy"`
	Inventory      []string               `json:"inventory"`
	Knowledge      []character.Knowledge  `json:"knowledge"`
	Relationships  []character.Relationship `json:"relationships"`
	Fame           float64                `json:"fame"`
	Role           string                 `json:"role"`
	Class          character.CharacterClass `json:"class"`
	IsGenesisElder bool                   `json:"isGenesisElder"`
	GestationEndsAtTick uint64            `json:"gestationEndsAtTick"`
	LastBreedingTick    uint64            `json:"lastBreedingTick"`
	IsAlive        bool                   `json:"isAlive"`
}

// CardDoc is one memorial card.
type CardDoc struct {
	ID           ids.CardId       `json:"id"`
	CharacterID  ids.CharacterId  `json:"characterId"`
	FamilyTreeID ids.FamilyTreeId `json:"familyTreeId"`
	Fame         float64          `json:"fame"`
	IssuedAtTick uint64           `json:"issuedAtTick"`
	Narrative    string           `json:"narrative"`
}

// FamilyTreeDoc is one lineage.
type FamilyTreeDoc struct {
	ID              ids.FamilyTreeId  `json:"id"`
	SpeciesID       ids.SpeciesId     `json:"speciesId"`
	OwnerID         *ids.OwnerId      `json:"ownerId,omitempty"`
	RootCharacterID ids.CharacterId   `json:"rootCharacterId"`
	Generations     int               `json:"generations"`
	Members         []ids.CharacterId `json:"members"`
	IsExtinct       bool              `json:"isExtinct"`
}

// HallOfFameEntry is one living main-class character ranked by fame at
// snapshot time. spec.md §4.16 names `hallOfFame[]` in the document shape
// without defining its contents; resolved here as the living counterpart
// to `cards[]` (which covers only the dead) — see DESIGN.md.
type HallOfFameEntry struct {
	CharacterID  ids.CharacterId  `json:"characterId"`
	FamilyTreeID ids.FamilyTreeId `json:"familyTreeId"`
	SpeciesID    ids.SpeciesId    `json:"speciesId"`
	Fame         float64          `json:"fame"`
	Role         string           `json:"role"`
}

// Metadata carries the summary counts the document's `metadata.counts`
// field names.
type Metadata struct {
	Counts Counts `json:"counts"`
}

// Counts is a cheap integrity check a reader can verify without walking
// every array.
type Counts struct {
	Regions     int `json:"regions"`
	Species     int `json:"species"`
	Characters  int `json:"characters"`
	FamilyTrees int `json:"familyTrees"`
	Cards       int `json:"cards"`
}
