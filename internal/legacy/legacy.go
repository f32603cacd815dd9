// Package legacy handles character death: heir selection, inheritance
// transfer, main-character promotion, and memorial card issuance.
package legacy

import (
	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
)

// DeathResult is the outcome of processing one character's death.
type DeathResult struct {
	LegacyTransferred bool
	Heir              *ids.CharacterId
	Respawn           bool
}

// healthiestDescendant returns the living descendant with the highest
// health, breaking ties by fame. Returns false if none are alive.
func healthiestDescendant(descendants []character.Character) (character.Character, bool) {
	var best character.Character
	found := false
	for _, d := range descendants {
		if !d.IsAlive {
			continue
		}
		if !found {
			best = d
			found = true
			continue
		}
		if d.Health > best.Health || (d.Health == best.Health && d.Fame > best.Fame) {
			best = d
		}
	}
	return best, found
}

// ProcessCharacterDeath implements spec.md §4.13: pick the healthiest living
// descendant (tie-broken by fame) as heir and transfer legacy to them; if no
// descendant survives, signal that the line should respawn instead.
func ProcessCharacterDeath(dead character.Character, tree character.FamilyTree, descendants []character.Character) DeathResult {
	heir, ok := healthiestDescendant(descendants)
	if !ok {
		return DeathResult{Respawn: true}
	}
	id := heir.ID
	return DeathResult{LegacyTransferred: true, Heir: &id}
}

const legacyFameTransferFraction = 0.3
const relationshipInheritanceThreshold = 0.5
const relationshipInheritanceFraction = 0.5

// InheritLegacy implements spec.md §4.13's inheritLegacy: the child receives
// the parent's inventory, the parent's experience-sourced knowledge
// (relabeled inherited), a fraction of the parent's fame, and a faded copy
// of every sufficiently strong relationship the parent held.
func InheritLegacy(registry *character.Registry, parentID, childID ids.CharacterId) error {
	parent, err := registry.MustGet(parentID)
	if err != nil {
		return err
	}

	var inheritedKnowledge []character.Knowledge
	for _, k := range parent.Knowledge {
		if k.Source == character.SourceExperience {
			inheritedKnowledge = append(inheritedKnowledge, character.Knowledge{
				Subject: k.Subject,
				Source:  character.SourceInherited,
			})
		}
	}

	var inheritedRelationships []character.Relationship
	for _, rel := range parent.Relationships {
		if rel.Strength >= relationshipInheritanceThreshold || rel.Strength <= -relationshipInheritanceThreshold {
			inheritedRelationships = append(inheritedRelationships, character.Relationship{
				TargetID: rel.TargetID,
				Type:     rel.Type,
				Strength: rel.Strength * relationshipInheritanceFraction,
			})
		}
	}

	_, err = registry.Update(childID, func(c *character.Character) {
		c.Inventory = append(c.Inventory, parent.Inventory...)
		c.Knowledge = append(c.Knowledge, inheritedKnowledge...)
		c.Relationships = append(c.Relationships, inheritedRelationships...)
		c.Fame += legacyFameTransferFraction * parent.Fame
	})
	if err != nil {
		return err
	}

	_, err = registry.Update(parentID, func(c *character.Character) {
		c.Inventory = nil
	})
	return err
}
