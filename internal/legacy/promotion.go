package legacy

import (
	"sort"
	"sync"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
)

// Card is a memorial card issued on a main-class character's death.
type Card struct {
	ID           ids.CardId
	CharacterID  ids.CharacterId
	FamilyTreeID ids.FamilyTreeId
	Fame         float64
	IssuedAtTick uint64
	Narrative    string
}

// CardRegistry owns every memorial card ever issued.
type CardRegistry struct {
	mu    sync.RWMutex
	arena ids.Arena
	byID  map[ids.CardId]*Card
}

// NewCardRegistry returns an empty card registry.
func NewCardRegistry() *CardRegistry {
	return &CardRegistry{byID: make(map[ids.CardId]*Card)}
}

// Add stores card and returns its id.
func (r *CardRegistry) Add(card Card) ids.CardId {
	r.mu.Lock()
	defer r.mu.Unlock()
	card.ID = ids.CardId(r.arena.Next())
	stored := card
	r.byID[card.ID] = &stored
	return card.ID
}

// Restore reinserts a card exactly as recorded in a snapshot document,
// preserving its id. Used only during world boot-from-checkpoint.
func (r *CardRegistry) Restore(card Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := card
	r.byID[card.ID] = &stored
	r.arena.Bump(uint64(card.ID))
}

// Get returns a copy of the card.
func (r *CardRegistry) Get(id ids.CardId) (Card, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return Card{}, false
	}
	return *c, true
}

// List returns every issued card, unordered.
func (r *CardRegistry) List() []Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Card, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out
}

const mainClassSlots = 20

// deedsOf is the "deeds" secondary sort key from spec.md §4.13: the count
// of experience-sourced knowledge entries a character has accumulated.
func deedsOf(c character.Character) int {
	n := 0
	for _, k := range c.Knowledge {
		if k.Source == character.SourceExperience {
			n++
		}
	}
	return n
}

// Promotion is one character's class transition decided by a promotion
// pass.
type Promotion struct {
	CharacterID ids.CharacterId
	NewClass    character.CharacterClass
}

// MainCharacterManager tracks main-character deaths for memorial cards.
type MainCharacterManager struct {
	cards *CardRegistry
}

// NewMainCharacterManager returns a manager backed by cards.
func NewMainCharacterManager(cards *CardRegistry) *MainCharacterManager {
	return &MainCharacterManager{cards: cards}
}

// EvaluatePromotions implements spec.md §4.13's evaluatePromotions: genesis
// elders are always main; of the rest, the top mainClassSlots by fame
// (ties broken by deeds) are promoted to main and everyone else is
// demoted to regular.
func (m *MainCharacterManager) EvaluatePromotions(alive []character.Character) []Promotion {
	var elders, rest []character.Character
	for _, c := range alive {
		if c.IsGenesisElder {
			elders = append(elders, c)
		} else {
			rest = append(rest, c)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Fame != rest[j].Fame {
			return rest[i].Fame > rest[j].Fame
		}
		return deedsOf(rest[i]) > deedsOf(rest[j])
	})

	promotions := make([]Promotion, 0, len(alive))
	for _, c := range elders {
		promotions = append(promotions, Promotion{CharacterID: c.ID, NewClass: character.ClassMain})
	}
	for i, c := range rest {
		class := character.ClassRegular
		if i < mainClassSlots {
			class = character.ClassMain
		}
		promotions = append(promotions, Promotion{CharacterID: c.ID, NewClass: class})
	}
	return promotions
}

// RecordDeath issues a memorial card for dead if it held main class at
// death; regular deaths issue nothing and RecordDeath returns nil.
func (m *MainCharacterManager) RecordDeath(dead character.Character, tick uint64) *Card {
	if dead.Class != character.ClassMain {
		return nil
	}
	card := Card{
		CharacterID:  dead.ID,
		FamilyTreeID: dead.FamilyTreeID,
		Fame:         dead.Fame,
		IssuedAtTick: tick,
		Narrative:    "a figure of renown has passed",
	}
	id := m.cards.Add(card)
	card.ID = id
	return &card
}
