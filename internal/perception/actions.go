package perception

import (
	"math/rand"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/genetics"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/intel"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// ActionType is a closed tagged union; ProcessAction dispatches on it
// rather than on a polymorphic method.
type ActionType string

const (
	ActionRest   ActionType = "rest"
	ActionForage ActionType = "forage"
	ActionDrink  ActionType = "drink"
	ActionHunt   ActionType = "hunt"
	ActionAttack ActionType = "attack"
	ActionBreed  ActionType = "breed"
	ActionMove   ActionType = "move"
)

// Action is one agent-issued command.
type Action struct {
	Type         ActionType
	TargetID     ids.CharacterId // attack, breed
	ResourceType string          // forage, drink
	ToRegionID   ids.RegionId    // move
}

// ActionResult is the structured outcome every action refusal or success
// produces. Refusals never abort a tick; they are reported here.
type ActionResult struct {
	Success   bool
	Code      string // empty on success; an error code (e.g. "not_mature") on refusal
	Narrative string
	MovedTo   ids.RegionId // set only on a successful move
	PreyKill  bool         // set on a successful hunt
	Offspring []ids.CharacterId
}

func refuse(code, narrative string) (ActionResult, error) {
	return ActionResult{Success: false, Code: code, Narrative: narrative}, nil
}

// checkPredatorEncounter rolls whether a resting character is ambushed by
// a nearby predator, with low per-tick probability pBase.
func checkPredatorEncounter(rng *rand.Rand, ctx ActionContext, pBase float64) bool {
	if len(ctx.Threats) == 0 {
		return false
	}
	return rng.Float64() < pBase
}

// ProcessAction evaluates action against ctx and applies its effects
// through deps. Effects apply immediately; the returned ActionResult
// becomes one entry in the tick's event list.
func ProcessAction(deps Dependencies, rng *rand.Rand, ctx ActionContext, action Action) (ActionResult, error) {
	if !ctx.Actor.IsAlive {
		return refuse("not_alive", "the actor is no longer alive")
	}

	switch action.Type {
	case ActionRest:
		return processRest(deps, rng, ctx)
	case ActionForage, ActionDrink:
		return processForage(deps, ctx, action)
	case ActionHunt:
		return processHunt(deps, rng, ctx)
	case ActionAttack:
		return processAttack(deps, rng, ctx, action)
	case ActionBreed:
		return processBreed(deps, rng, ctx, action)
	case ActionMove:
		return processMove(deps, ctx, action)
	default:
		return refuse("refused", "unknown action type")
	}
}

const (
	restHealthGain       = 0.05
	restEnergyGain       = 0.15
	predatorEncounterBase = 0.01
	predatorDamage        = 0.25
)

func processRest(deps Dependencies, rng *rand.Rand, ctx ActionContext) (ActionResult, error) {
	actor := ctx.Actor
	encountered := checkPredatorEncounter(rng, ctx, predatorEncounterBase)

	updated, err := deps.Characters.Update(actor.ID, func(c *character.Character) {
		c.Health = clamp01(c.Health + restHealthGain)
		c.Energy = clamp01(c.Energy + restEnergyGain)
		if encountered {
			c.Health = clamp01(c.Health - predatorDamage)
			if c.Health <= 0 {
				c.IsAlive = false
			}
		}
	})
	if err != nil {
		return ActionResult{}, err
	}
	if encountered {
		return ActionResult{Success: true, Narrative: "a predator encounter interrupted the rest"}, nil
	}
	_ = updated
	return ActionResult{Success: true, Narrative: "rested and recovered"}, nil
}

// maxForageFraction bounds a single forage/drink action to at most this
// fraction of the resource's current quantity, so one actor can never
// strip a patch in a single tick regardless of how little it renews.
const maxForageFraction = 0.25

func processForage(deps Dependencies, ctx ActionContext, action Action) (ActionResult, error) {
	found := -1
	for i, res := range ctx.Region.Resources {
		if res.Type == action.ResourceType && res.Quantity > 0 {
			found = i
			break
		}
	}
	if found == -1 {
		return refuse("resource_absent", "no such resource here")
	}

	var consumed float64
	_, err := deps.World.Update(ctx.Region.ID, func(r *region.Region) {
		if found >= len(r.Resources) {
			return
		}
		res := &r.Resources[found]
		take := res.Quantity * maxForageFraction
		if renewCap := res.RenewRate; renewCap > 0 && renewCap < take {
			take = renewCap
		}
		if take > res.Quantity {
			take = res.Quantity
		}
		res.Quantity -= take
		if res.Quantity < 0 {
			res.Quantity = 0
		}
		consumed = take
	})
	if err != nil {
		return ActionResult{}, err
	}

	if _, err := deps.Characters.Update(ctx.Actor.ID, func(c *character.Character) {
		c.Energy = clamp01(c.Energy + consumed)
	}); err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Success: true, Narrative: "consumed a resource"}, nil
}

func processHunt(deps Dependencies, rng *rand.Rand, ctx ActionContext) (ActionResult, error) {
	switch ctx.ActorSpecies.Diet {
	case species.DietHerbivore, species.DietFilterFeeder, species.DietDetritivore:
		return refuse("no_hunting_instinct", "this species has no hunting instinct")
	}

	preyEdges := deps.FoodWeb.PreyOf(ctx.ActorSpecies.ID)
	preySpeciesIDs := make(map[ids.SpeciesId]bool, len(preyEdges))
	for _, e := range preyEdges {
		preySpeciesIDs[e.PreyID] = true
	}

	var prey *character.Character
	for i := range ctx.Nearby {
		c := ctx.Nearby[i]
		if c.IsAlive && preySpeciesIDs[c.SpeciesID] {
			prey = &ctx.Nearby[i]
			break
		}
	}
	if prey == nil {
		return refuse("no_suitable_prey", "no suitable prey nearby")
	}

	preySpecies, ok := deps.Species.Get(prey.SpeciesID)
	if !ok {
		return refuse("no_suitable_prey", "prey species no longer registered")
	}

	successChance := huntSuccessChance(ctx.Actor, ctx.ActorSpecies, *prey, preySpecies)
	if rng.Float64() >= successChance {
		return ActionResult{Success: true, Narrative: "the hunt failed"}, nil
	}

	if _, err := deps.Characters.Update(prey.ID, func(c *character.Character) {
		c.Health = 0
		c.IsAlive = false
	}); err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Success: true, Narrative: "the hunt succeeded", PreyKill: true}, nil
}

func huntSuccessChance(actor character.Character, actorSp species.Species, prey character.Character, preySp species.Species) float64 {
	strength := actor.Genetics[character.GeneStrength]
	speed := actor.Genetics[character.GeneSpeed]
	preySpeed := prey.Genetics[character.GeneSpeed]

	base := 0.3 + (strength-preySp.Size)/200 + (speed-preySpeed)/200
	base *= prey.Health
	return clamp01(base)
}

const counterDamageThreshold = 1.5
const counterDamage = 0.3

func processAttack(deps Dependencies, rng *rand.Rand, ctx ActionContext, action Action) (ActionResult, error) {
	var target *character.Character
	for i := range ctx.Nearby {
		if ctx.Nearby[i].ID == action.TargetID {
			target = &ctx.Nearby[i]
			break
		}
	}
	if target == nil {
		return refuse("target_unreachable", "target is not nearby")
	}
	if !target.IsAlive {
		return refuse("not_alive", "target is already dead")
	}

	targetSpecies, ok := deps.Species.Get(target.SpeciesID)
	if !ok {
		return refuse("target_unreachable", "target species no longer registered")
	}
	sizeRatio := targetSpecies.Size / maxFloat(1, ctx.ActorSpecies.Size)

	strength := ctx.Actor.Genetics[character.GeneStrength]
	targetStrength := target.Genetics[character.GeneStrength]
	successChance := clamp01(0.4 + (strength-targetStrength)/150)
	success := rng.Float64() < successChance

	if success {
		if _, err := deps.Characters.Update(target.ID, func(c *character.Character) {
			c.Health = clamp01(c.Health - 0.4)
			if c.Health <= 0 {
				c.IsAlive = false
			}
		}); err != nil {
			return ActionResult{}, err
		}
		if sizeRatio <= counterDamageThreshold {
			return ActionResult{Success: true, Narrative: "attack landed cleanly"}, nil
		}
		return ActionResult{Success: true, Narrative: "attack landed against a larger foe"}, nil
	}

	if sizeRatio > counterDamageThreshold {
		if _, err := deps.Characters.Update(ctx.Actor.ID, func(c *character.Character) {
			c.Health = clamp01(c.Health - counterDamage)
			if c.Health <= 0 {
				c.IsAlive = false
			}
		}); err != nil {
			return ActionResult{}, err
		}
		return ActionResult{Success: true, Narrative: "the attack failed and drew a counterattack"}, nil
	}
	return ActionResult{Success: true, Narrative: "the attack failed"}, nil
}

// processBreed delegates compatibility and gene-blending to internal/genetics
// per spec.md §4.8, then registers one offspring per genetics.OffspringCount,
// each joining the mother's family tree.
func processBreed(deps Dependencies, rng *rand.Rand, ctx ActionContext, action Action) (ActionResult, error) {
	var partner *character.Character
	for i := range ctx.Nearby {
		if ctx.Nearby[i].ID == action.TargetID {
			partner = &ctx.Nearby[i]
			break
		}
	}
	if partner == nil {
		return refuse("target_unreachable", "partner is not nearby")
	}

	partnerSpecies, ok := deps.Species.Get(partner.SpeciesID)
	if !ok {
		return refuse("target_unreachable", "partner species no longer registered")
	}

	canBreed, reason := genetics.CanBreed(rng, ctx.Actor, *partner, ctx.ActorSpecies, partnerSpecies, ctx.Tick)
	if !canBreed {
		return refuse(reason, "breeding attempt was refused")
	}

	mother, father := ctx.Actor, *partner
	if mother.Sex != character.SexFemale {
		mother, father = father, mother
	}
	motherSpecies := ctx.ActorSpecies
	if mother.ID != ctx.Actor.ID {
		motherSpecies = partnerSpecies
	}

	gestationDone := ctx.Tick + uint64(motherSpecies.GestationTicks)
	if _, err := deps.Characters.Update(mother.ID, func(c *character.Character) {
		c.GestationEndsAtTick = gestationDone
		c.LastBreedingTick = ctx.Tick
	}); err != nil {
		return ActionResult{}, err
	}
	if _, err := deps.Characters.Update(father.ID, func(c *character.Character) {
		c.LastBreedingTick = ctx.Tick
	}); err != nil {
		return ActionResult{}, err
	}

	count := genetics.OffspringCount(rng, motherSpecies)
	generation := genetics.OffspringGeneration(mother, father)
	parentIDs := genetics.OffspringParentIDs(mother, father)

	offspring := make([]ids.CharacterId, 0, count)
	for i := 0; i < count; i++ {
		childID := deps.Characters.Create(rng, motherSpecies, character.CreateSpec{
			SpeciesID:  mother.SpeciesID,
			RegionID:   mother.RegionID,
			Tick:       ctx.Tick,
			Sex:        genetics.OffspringSex(rng),
			ParentIDs:  parentIDs,
			Generation: generation,
		})
		genes := genetics.CalculateOffspringGenetics(rng, mother, father)
		if _, err := deps.Characters.Update(childID, func(c *character.Character) {
			c.Genetics = genes
			c.FamilyTreeID = mother.FamilyTreeID
		}); err != nil {
			return ActionResult{}, err
		}
		if deps.FamilyTrees != nil {
			if err := deps.FamilyTrees.AddMember(mother.FamilyTreeID, childID, generation); err != nil {
				return ActionResult{}, err
			}
		}
		offspring = append(offspring, childID)
	}

	return ActionResult{Success: true, Narrative: "breeding succeeded", Offspring: offspring}, nil
}

func processMove(deps Dependencies, ctx ActionContext, action Action) (ActionResult, error) {
	reachable := false
	for _, n := range ctx.Region.Connections {
		if n == action.ToRegionID {
			reachable = true
			break
		}
	}
	if !reachable {
		return refuse("wrong_region", "destination is not adjacent")
	}

	if _, err := deps.Characters.Update(ctx.Actor.ID, func(c *character.Character) {
		c.RegionID = action.ToRegionID
	}); err != nil {
		return ActionResult{}, err
	}

	recordExploration(deps, ctx.Actor.FamilyTreeID, ctx.ActorSpecies.ID, action.ToRegionID, ctx.Tick)

	return ActionResult{Success: true, Narrative: "moved to a new region", MovedTo: action.ToRegionID}, nil
}

// recordExploration stores a first-hand intel observation of the region an
// actor just moved into, per spec.md §4.7 ("exploration records an intel
// observation (§4.9)"). Best-effort: a region or intel registry miss just
// means no observation is recorded, it never blocks the move itself.
func recordExploration(deps Dependencies, familyTreeID ids.FamilyTreeId, actorSpeciesID ids.SpeciesId, regionID ids.RegionId, tick uint64) {
	if deps.Intel == nil {
		return
	}
	r, ok := deps.World.Get(regionID)
	if !ok {
		return
	}

	obs := intel.Observation{}
	for _, res := range r.Resources {
		if res.Quantity > 0 {
			obs.Resources = append(obs.Resources, res.Type)
		}
	}
	for speciesID, pop := range r.Populations {
		obs.SpeciesPresent = append(obs.SpeciesPresent, speciesID)
		obs.PopEstimate += pop.Count
		if deps.FoodWeb == nil {
			continue
		}
		for _, edge := range deps.FoodWeb.PredatorsOf(actorSpeciesID) {
			if edge.PredatorID == speciesID {
				obs.Threats = append(obs.Threats, speciesID)
				break
			}
		}
	}

	deps.Intel.RecordExploration(familyTreeID, regionID, obs, tick)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
