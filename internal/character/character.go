// Package character models individual characters and the family trees that
// group them: genes, age, sex, health/energy, inventory, knowledge,
// relationships, class, gestation, and lifecycle.
package character

import (
	"math/rand"
	"sync"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/species"
)

// Gene names the 14 genes every character carries: 8 core genes plus 6
// appearance genes. Order is fixed so genetics seeding and blending always
// walk the same sequence.
type Gene string

const (
	GeneSize         Gene = "size"
	GeneSpeed        Gene = "speed"
	GeneStrength     Gene = "strength"
	GeneIntelligence Gene = "intelligence"
	GeneEndurance    Gene = "endurance"
	GeneAggression   Gene = "aggression"
	GeneCuriosity    Gene = "curiosity"
	GeneSociability  Gene = "sociability"

	GeneBodySizeVar    Gene = "body_size_var"
	GeneLimbLength     Gene = "limb_length"
	GeneCoatShade      Gene = "coat_shade"
	GeneMarkingPattern Gene = "marking_pattern"
	GeneEarSize        Gene = "ear_size"
	GeneTeethSize      Gene = "teeth_size"
)

// CoreGenes and AppearanceGenes fix the seeding/iteration order.
var CoreGenes = []Gene{GeneSize, GeneSpeed, GeneStrength, GeneIntelligence, GeneEndurance, GeneAggression, GeneCuriosity, GeneSociability}
var AppearanceGenes = []Gene{GeneBodySizeVar, GeneLimbLength, GeneCoatShade, GeneMarkingPattern, GeneEarSize, GeneTeethSize}
var AllGenes = append(append([]Gene{}, CoreGenes...), AppearanceGenes...)

// Sex is a closed tagged union.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// KnowledgeSource tags how a knowledge record was acquired.
type KnowledgeSource string

const (
	SourceExperience KnowledgeSource = "experience"
	SourceInherited  KnowledgeSource = "inherited"
	SourceTaught     KnowledgeSource = "taught"
	SourceRumor      KnowledgeSource = "rumor"
)

// Knowledge is one fact a character holds.
type Knowledge struct {
	Subject string
	Source  KnowledgeSource
}

// Relationship is a directed tie to another character.
type Relationship struct {
	TargetID ids.CharacterId
	Type     string
	Strength float64 // [-1, 1]
}

// CharacterClass distinguishes narrative-foreground characters (who
// generate memorial cards on death) from the rest.
type CharacterClass string

const (
	ClassMain    CharacterClass = "main"
	ClassRegular CharacterClass = "regular"
)

// Character is one individual in the simulation.
type Character struct {
	ID           ids.CharacterId
	SpeciesID    ids.SpeciesId
	RegionID     ids.RegionId
	FamilyTreeID ids.FamilyTreeId
	ParentIDs    []ids.CharacterId // 0 or 2
	ChildIDs     []ids.CharacterId
	Sex          Sex
	Age          uint64 // ticks
	BirthTick    uint64
	Generation   int
	Genetics     map[Gene]float64

	Health        float64 // [0,1]
	Energy        float64 // [0,1]
	Inventory     []string
	Knowledge     []Knowledge
	Relationships []Relationship
	Fame          float64
	Role          string
	Class         CharacterClass
	IsGenesisElder bool

	GestationEndsAtTick uint64 // 0 means not gestating
	LastBreedingTick    uint64
	IsAlive             bool
}

// clamp01To100 clamps a gene value into [0, 100].
func clamp01To100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SeedGenetics seeds the 14-gene vector per spec.md §3: core genes with a
// direct species analog (size, speed, strength, intelligence) are drawn
// from Gaussian(species trait, sigma); genes with no species analog
// (endurance, curiosity, sociability) and all appearance genes draw from
// Gaussian(50, 15); aggression draws from Gaussian(30, 15) regardless of
// species. Every value is clamped to [0, 100].
func SeedGenetics(rng *rand.Rand, sp species.Species) map[Gene]float64 {
	const coreSigma = 10.0
	const genericSigma = 15.0

	g := make(map[Gene]float64, len(AllGenes))
	g[GeneSize] = clamp01To100(rng.NormFloat64()*coreSigma + sp.Size)
	g[GeneSpeed] = clamp01To100(rng.NormFloat64()*coreSigma + sp.Speed)
	g[GeneStrength] = clamp01To100(rng.NormFloat64()*coreSigma + sp.Strength)
	g[GeneIntelligence] = clamp01To100(rng.NormFloat64()*coreSigma + sp.Intelligence)
	g[GeneEndurance] = clamp01To100(rng.NormFloat64()*genericSigma + 50)
	g[GeneAggression] = clamp01To100(rng.NormFloat64()*genericSigma + 30)
	g[GeneCuriosity] = clamp01To100(rng.NormFloat64()*genericSigma + 50)
	g[GeneSociability] = clamp01To100(rng.NormFloat64()*genericSigma + 50)
	for _, gene := range AppearanceGenes {
		g[gene] = clamp01To100(rng.NormFloat64()*genericSigma + 50)
	}
	return g
}

// CreateSpec is the input to Registry.Create.
type CreateSpec struct {
	SpeciesID      ids.SpeciesId
	RegionID       ids.RegionId
	FamilyTreeID   ids.FamilyTreeId
	Tick           uint64
	Sex            Sex // if empty, chosen uniformly at random
	IsGenesisElder bool
	ParentIDs      []ids.CharacterId
	Generation     int
}

// Registry owns the character arena exclusively: every cross-reference to
// a character elsewhere in the engine is by id, resolved through this
// registry.
type Registry struct {
	mu    sync.RWMutex
	arena ids.Arena
	byID  map[ids.CharacterId]*Character
}

// NewRegistry returns an empty character registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ids.CharacterId]*Character)}
}

// Create allocates a new character per spec.md §4.4.
func (r *Registry) Create(rng *rand.Rand, sp species.Species, spec CreateSpec) ids.CharacterId {
	r.mu.Lock()
	defer r.mu.Unlock()

	sex := spec.Sex
	if sex == "" {
		if rng.Intn(2) == 0 {
			sex = SexMale
		} else {
			sex = SexFemale
		}
	}

	class := ClassRegular
	if spec.IsGenesisElder {
		class = ClassMain
	}

	age := uint64(0)
	if spec.IsGenesisElder {
		age = uint64(sp.MaturityTicks)
	}

	id := ids.CharacterId(r.arena.Next())
	r.byID[id] = &Character{
		ID:             id,
		SpeciesID:      spec.SpeciesID,
		RegionID:       spec.RegionID,
		FamilyTreeID:   spec.FamilyTreeID,
		ParentIDs:      append([]ids.CharacterId(nil), spec.ParentIDs...),
		Sex:            sex,
		Age:            age,
		BirthTick:      spec.Tick,
		Generation:     spec.Generation,
		Genetics:       SeedGenetics(rng, sp),
		Health:         1,
		Energy:         0.5,
		Class:          class,
		IsGenesisElder: spec.IsGenesisElder,
		IsAlive:        true,
	}
	return id
}

// Get returns a copy of the character.
func (r *Registry) Get(id ids.CharacterId) (Character, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return Character{}, false
	}
	return cloneCharacter(c), true
}

// MustGet returns a copy of the character or a contract-violation error.
func (r *Registry) MustGet(id ids.CharacterId) (Character, error) {
	c, ok := r.Get(id)
	if !ok {
		return Character{}, errors.ErrCharacterMiss
	}
	return c, nil
}

// Update applies fn to the live character under lock and returns the
// post-update copy. fn must not retain c beyond the call.
func (r *Registry) Update(id ids.CharacterId, fn func(c *Character)) (Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Character{}, errors.ErrCharacterMiss
	}
	fn(c)
	return cloneCharacter(c), nil
}

// ListByRegion returns a copy of every character currently in regionID.
func (r *Registry) ListByRegion(regionID ids.RegionId) []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Character
	for _, c := range r.byID {
		if c.RegionID == regionID {
			out = append(out, cloneCharacter(c))
		}
	}
	return out
}

// ListByFamilyTree returns a copy of every character belonging to tree.
func (r *Registry) ListByFamilyTree(treeID ids.FamilyTreeId) []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Character
	for _, c := range r.byID {
		if c.FamilyTreeID == treeID {
			out = append(out, cloneCharacter(c))
		}
	}
	return out
}

// All returns a copy of every character in the arena.
func (r *Registry) All() []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Character, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, cloneCharacter(c))
	}
	return out
}

func cloneCharacter(c *Character) Character {
	cp := *c
	cp.ParentIDs = append([]ids.CharacterId(nil), c.ParentIDs...)
	cp.ChildIDs = append([]ids.CharacterId(nil), c.ChildIDs...)
	cp.Inventory = append([]string(nil), c.Inventory...)
	cp.Knowledge = append([]Knowledge(nil), c.Knowledge...)
	cp.Relationships = append([]Relationship(nil), c.Relationships...)
	cp.Genetics = make(map[Gene]float64, len(c.Genetics))
	for k, v := range c.Genetics {
		cp.Genetics[k] = v
	}
	return cp
}

// Restore reinserts a character exactly as recorded in a snapshot
// document, preserving its id. Used only during world boot-from-checkpoint.
func (r *Registry) Restore(c Character) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := cloneCharacter(&c)
	r.byID[c.ID] = &cp
	r.arena.Bump(uint64(c.ID))
}

// IsMature reports whether c has reached species maturityTicks.
func IsMature(c Character, sp species.Species) bool {
	return c.Age >= uint64(sp.MaturityTicks)
}

// IsGestating reports whether a female character is currently carrying.
func IsGestating(c Character, tick uint64) bool {
	return c.GestationEndsAtTick > tick
}

// shareParent reports whether a and b share any parent id (sibling test).
func shareParent(a, b Character) bool {
	for _, pa := range a.ParentIDs {
		for _, pb := range b.ParentIDs {
			if pa == pb {
				return true
			}
		}
	}
	return false
}

// IsSibling reports whether a and b are siblings (share a parent). A
// direct parent-child pair is not a sibling pair; see IsParentChild.
func IsSibling(a, b Character) bool {
	return shareParent(a, b)
}

// IsParentChild reports whether one of a, b is a registered parent of the
// other.
func IsParentChild(a, b Character) bool {
	for _, p := range a.ParentIDs {
		if p == b.ID {
			return true
		}
	}
	for _, p := range b.ParentIDs {
		if p == a.ID {
			return true
		}
	}
	return false
}
