package character

import (
	"sync"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
)

// FamilyTree groups characters under an owner and a founding generation.
type FamilyTree struct {
	ID              ids.FamilyTreeId
	SpeciesID       ids.SpeciesId
	OwnerID         *ids.OwnerId
	RootCharacterID ids.CharacterId
	Generations     int
	Members         map[ids.CharacterId]struct{}
	IsExtinct       bool
}

// FamilyTreeRegistry owns every family tree.
type FamilyTreeRegistry struct {
	mu    sync.RWMutex
	arena ids.Arena
	byID  map[ids.FamilyTreeId]*FamilyTree
}

// NewFamilyTreeRegistry returns an empty family tree registry.
func NewFamilyTreeRegistry() *FamilyTreeRegistry {
	return &FamilyTreeRegistry{byID: make(map[ids.FamilyTreeId]*FamilyTree)}
}

// Create starts a new family tree rooted at rootCharacterID.
func (r *FamilyTreeRegistry) Create(speciesID ids.SpeciesId, rootCharacterID ids.CharacterId, owner *ids.OwnerId) ids.FamilyTreeId {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ids.FamilyTreeId(r.arena.Next())
	r.byID[id] = &FamilyTree{
		ID:              id,
		SpeciesID:       speciesID,
		OwnerID:         owner,
		RootCharacterID: rootCharacterID,
		Generations:     1,
		Members:         map[ids.CharacterId]struct{}{rootCharacterID: {}},
	}
	return id
}

// Restore reinserts a family tree exactly as recorded in a snapshot
// document (members rebuilt from the given id slice), preserving its id.
// Used only during world boot-from-checkpoint.
func (r *FamilyTreeRegistry) Restore(t FamilyTree, members []ids.CharacterId) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := t
	cp.Members = make(map[ids.CharacterId]struct{}, len(members))
	for _, m := range members {
		cp.Members[m] = struct{}{}
	}
	r.byID[t.ID] = &cp
	r.arena.Bump(uint64(t.ID))
}

// All returns a copy of every family tree, unordered.
func (r *FamilyTreeRegistry) All() []FamilyTree {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FamilyTree, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, cloneTree(t))
	}
	return out
}

// Get returns a copy of the family tree.
func (r *FamilyTreeRegistry) Get(id ids.FamilyTreeId) (FamilyTree, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return FamilyTree{}, false
	}
	return cloneTree(t), true
}

// MustGet returns a copy of the family tree or a contract-violation error.
func (r *FamilyTreeRegistry) MustGet(id ids.FamilyTreeId) (FamilyTree, error) {
	t, ok := r.Get(id)
	if !ok {
		return FamilyTree{}, errors.ErrFamilyTreeMiss
	}
	return t, nil
}

// AddMember adds a character to the tree and raises Generations if needed.
func (r *FamilyTreeRegistry) AddMember(id ids.FamilyTreeId, characterID ids.CharacterId, generation int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return errors.ErrFamilyTreeMiss
	}
	t.Members[characterID] = struct{}{}
	if generation+1 > t.Generations {
		t.Generations = generation + 1
	}
	return nil
}

// RemoveMember drops a character from the tree (their physical state has
// been reclaimed after legacy transfer) and marks the tree extinct if no
// members remain.
func (r *FamilyTreeRegistry) RemoveMember(id ids.FamilyTreeId, characterID ids.CharacterId) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return errors.ErrFamilyTreeMiss
	}
	delete(t.Members, characterID)
	if len(t.Members) == 0 {
		t.IsExtinct = true
	}
	return nil
}

func cloneTree(t *FamilyTree) FamilyTree {
	cp := *t
	cp.Members = make(map[ids.CharacterId]struct{}, len(t.Members))
	for k := range t.Members {
		cp.Members[k] = struct{}{}
	}
	if t.OwnerID != nil {
		owner := *t.OwnerID
		cp.OwnerID = &owner
	}
	return cp
}
