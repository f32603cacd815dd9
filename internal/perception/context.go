// Package perception builds an agent's observable context each tick and
// processes the typed actions agents issue against it.
package perception

import (
	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ecosystem"
	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/intel"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// ActionContext is everything ProcessAction needs to evaluate one action:
// the actor, its region, the other characters and resources it can
// currently perceive, and the tick's ambient conditions.
type ActionContext struct {
	Actor          character.Character
	ActorSpecies   species.Species
	Region         region.Region
	Nearby         []character.Character
	Resources      []region.Resource
	Threats        []character.Character
	Tick           uint64
	TimeOfDay      int
	Season         string
	Weather        region.Climate
}

// effectiveLayer is the layer a species occupies within a region: aquatic
// species are always effectively underwater (a coastal region's surface
// and underwater populations share a region id but never a layer), flying
// and ground-dwelling species occupy whatever layer the region itself is.
func effectiveLayer(sp species.Species, r region.Region) species.Layer {
	if sp.Aquatic {
		return species.LayerUnderwater
	}
	return r.Layer
}

// Dependencies bundles the registries BuildActionContext and ProcessAction
// need. The engine owns all of these; perception never retains a live
// pointer beyond a single call.
type Dependencies struct {
	Characters  *character.Registry
	Species     *species.Registry
	World       *region.World
	FoodWeb     *ecosystem.FoodWeb
	FamilyTrees *character.FamilyTreeRegistry
	Intel       *intel.Registry
}

// BuildActionContext assembles the observable context for characterID at
// tick, applying the habitat-layer gate: a character only perceives others
// whose species occupies the same effective layer within the region, per
// spec.md §4.7 and the testable habitat-layer-gate property in §8.
func BuildActionContext(deps Dependencies, characterID ids.CharacterId, tick uint64, timeOfDay int, season string) (ActionContext, error) {
	actor, ok := deps.Characters.Get(characterID)
	if !ok {
		return ActionContext{}, errors.ErrCharacterMiss
	}
	if !actor.IsAlive {
		return ActionContext{}, errors.ErrNotAlive
	}
	actorSpecies, ok := deps.Species.Get(actor.SpeciesID)
	if !ok {
		return ActionContext{}, errors.ErrSpeciesNotFound
	}
	r, ok := deps.World.Get(actor.RegionID)
	if !ok {
		return ActionContext{}, errors.ErrRegionNotFound
	}

	actorLayer := effectiveLayer(actorSpecies, r)

	var nearby []character.Character
	var threats []character.Character
	for _, c := range deps.Characters.ListByRegion(actor.RegionID) {
		if c.ID == actor.ID || !c.IsAlive {
			continue
		}
		candidateSpecies, ok := deps.Species.Get(c.SpeciesID)
		if !ok {
			continue
		}
		if effectiveLayer(candidateSpecies, r) != actorLayer {
			continue
		}
		nearby = append(nearby, c)

		for _, edge := range deps.FoodWeb.PredatorsOf(actorSpecies.ID) {
			if edge.PredatorID == c.SpeciesID {
				threats = append(threats, c)
				break
			}
		}
	}

	return ActionContext{
		Actor:        actor,
		ActorSpecies: actorSpecies,
		Region:       r,
		Nearby:       nearby,
		Resources:    r.Resources,
		Threats:      threats,
		Tick:         tick,
		TimeOfDay:    timeOfDay,
		Season:       season,
		Weather:      r.Climate,
	}, nil
}
