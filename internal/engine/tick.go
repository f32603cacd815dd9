package engine

import (
	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/climate"
	"github.com/meerski/arakh/internal/ecosystem"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/perception"
)

// tick runs the fixed 10-step order of spec.md §4.14 once and returns the
// events it generated, in generation order.
func (e *Engine) tick() ([]Event, error) {
	var events []Event

	// 1. advance clock
	e.cfg.World.Clock.Advance()
	tick := e.cfg.World.Clock.Tick
	season := e.cfg.World.Clock.Season

	// 2. climate.tick
	if err := climate.Tick(e.cfg.World, tick, season); err != nil {
		return nil, err
	}

	// 3. ecology.tick
	if err := ecosystem.TickPopulations(e.cfg.World, e.cfg.Species, e.cfg.FoodWeb); err != nil {
		return nil, err
	}

	// 4. perception.broadcast: every owner-controlled family tree's root
	// character gets a fresh observable context pushed out. The session
	// layer supplies the transport; this only computes and hands off.
	deps := perception.Dependencies{
		Characters:  e.cfg.Characters,
		Species:     e.cfg.Species,
		World:       e.cfg.World,
		FoodWeb:     e.cfg.FoodWeb,
		FamilyTrees: e.cfg.FamilyTrees,
		Intel:       e.cfg.Intel,
	}
	if e.cfg.Hooks.PerceptionBroadcast != nil {
		e.broadcastPerception(deps, tick, season)
	}

	// 5. drain action inbox
	actionEvents, err := e.drainInbox(deps, tick)
	if err != nil {
		return nil, err
	}
	events = append(events, actionEvents...)

	// 6. periodic subtasks
	if e.cfg.Hooks.PoliticsTick != nil && tick%politicsCadenceTicks == 0 {
		e.cfg.Hooks.PoliticsTick(tick)
	}
	if e.cfg.Hooks.EvolutionTick != nil && tick%evolutionCadenceTicks == 0 {
		e.cfg.Hooks.EvolutionTick(tick)
	}
	events = append(events, e.tickEspionageAndTrust(tick)...)

	// 7. legacy.tick
	e.tickAging(tick)
	legacyEvents, err := e.tickLegacy(tick)
	if err != nil {
		return nil, err
	}
	events = append(events, legacyEvents...)

	// 8. class.evaluatePromotions
	if err := e.evaluatePromotions(tick); err != nil {
		return nil, err
	}

	// 9. event fanout
	if e.cfg.Hooks.Broadcast != nil {
		e.cfg.Hooks.Broadcast(events)
	}

	// 10. snapshot checkpoint
	if e.cfg.SnapshotEveryTicks > 0 && tick%e.cfg.SnapshotEveryTicks == 0 && e.cfg.Hooks.Checkpoint != nil {
		e.cfg.Hooks.Checkpoint(tick)
	}

	e.mu.Lock()
	e.tickCount = tick
	e.mu.Unlock()

	return events, nil
}

func (e *Engine) broadcastPerception(deps perception.Dependencies, tick uint64, season string) {
	timeOfDay := e.cfg.World.Clock.Hour
	for _, tree := range allFamilyTrees(e.cfg.FamilyTrees) {
		if tree.OwnerID == nil {
			continue
		}
		ctx, err := perception.BuildActionContext(deps, tree.RootCharacterID, tick, timeOfDay, season)
		if err != nil {
			continue
		}
		e.cfg.Hooks.PerceptionBroadcast(*tree.OwnerID, ctx)
	}
}

func (e *Engine) drainInbox(deps perception.Dependencies, tick uint64) ([]Event, error) {
	var events []Event
	for {
		select {
		case pending := <-e.inbox:
			ctx, err := perception.BuildActionContext(deps, pending.CharacterID, tick, e.cfg.World.Clock.Hour, e.cfg.World.Clock.Season)
			if err != nil {
				events = append(events, publicEvent(tick, "action_refused", map[string]interface{}{
					"characterId": pending.CharacterID,
					"reason":      err.Error(),
				}))
				continue
			}
			result, err := perception.ProcessAction(deps, e.cfg.RNG, ctx, pending.Action)
			if err != nil {
				events = append(events, publicEvent(tick, "action_refused", map[string]interface{}{
					"characterId": pending.CharacterID,
					"reason":      err.Error(),
				}))
				continue
			}
			events = append(events, familyEvent(tick, "action_result", ctx.Actor.FamilyTreeID, result))
		default:
			return events, nil
		}
	}
}

func (e *Engine) tickEspionageAndTrust(tick uint64) []Event {
	var events []Event
	if e.cfg.Espionage != nil {
		resolved := e.cfg.Espionage.TickMissions(e.cfg.RNG, tick, e.cfg.Intel, e.cfg.Heartland, e.cfg.MissionResolutionFn)
		for _, m := range resolved {
			events = append(events, publicEvent(tick, "mission_resolved", m))
		}
	}
	if e.cfg.Intel != nil {
		e.cfg.Intel.DecayAll(tick)
	}
	if e.cfg.Trust != nil {
		e.cfg.Trust.TickTrustDecay(tick)
	}
	return events
}

// tickAging advances every living character's Age by one tick. Genesis
// elders start pre-aged to their species' maturityTicks at creation
// (character.Registry.Create); everyone else starts at 0. Both §4.13's
// lifespan death and §4.5's maturityTicks gate depend on Age moving
// forward from there.
func (e *Engine) tickAging(tick uint64) {
	for _, c := range e.cfg.Characters.All() {
		if !c.IsAlive {
			continue
		}
		e.cfg.Characters.Update(c.ID, func(c *character.Character) {
			c.Age++
		})
	}
}

func (e *Engine) tickLegacy(tick uint64) ([]Event, error) {
	var events []Event
	for _, c := range e.cfg.Characters.All() {
		if !c.IsAlive {
			continue
		}
		sp, ok := e.cfg.Species.Get(c.SpeciesID)
		if !ok {
			continue
		}
		dead := c.Age >= uint64(sp.LifespanTicks) || c.Health <= 0
		if !dead {
			continue
		}

		if err := e.processDeath(c, tick); err != nil {
			return nil, err
		}
		events = append(events, familyEvent(tick, "character_died", c.FamilyTreeID, c.ID))
	}
	return events, nil
}

func (e *Engine) processDeath(dead character.Character, tick uint64) error {
	var descendants []character.Character
	for _, childID := range dead.ChildIDs {
		if child, ok := e.cfg.Characters.Get(childID); ok {
			descendants = append(descendants, child)
		}
	}

	tree, err := e.cfg.FamilyTrees.MustGet(dead.FamilyTreeID)
	if err != nil {
		return err
	}
	result := legacy.ProcessCharacterDeath(dead, tree, descendants)
	if result.LegacyTransferred && result.Heir != nil {
		if err := legacy.InheritLegacy(e.cfg.Characters, dead.ID, *result.Heir); err != nil {
			return err
		}
	}

	if _, err := e.cfg.Characters.Update(dead.ID, func(c *character.Character) {
		c.IsAlive = false
	}); err != nil {
		return err
	}

	if e.cfg.MainCharacters != nil {
		e.cfg.MainCharacters.RecordDeath(dead, tick)
	}

	if err := e.cfg.FamilyTrees.RemoveMember(dead.FamilyTreeID, dead.ID); err != nil {
		return err
	}
	updatedTree, err := e.cfg.FamilyTrees.MustGet(dead.FamilyTreeID)
	if err != nil {
		return err
	}
	if updatedTree.IsExtinct {
		if err := e.cfg.Species.UpdatePopulation(dead.SpeciesID, -1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) evaluatePromotions(tick uint64) error {
	if e.cfg.MainCharacters == nil {
		return nil
	}
	var alive []character.Character
	for _, c := range e.cfg.Characters.All() {
		if c.IsAlive {
			alive = append(alive, c)
		}
	}
	for _, p := range e.cfg.MainCharacters.EvaluatePromotions(alive) {
		if _, err := e.cfg.Characters.Update(p.CharacterID, func(c *character.Character) {
			c.Class = p.NewClass
		}); err != nil {
			return err
		}
	}
	return nil
}

func allFamilyTrees(reg *character.FamilyTreeRegistry) []character.FamilyTree {
	return reg.All()
}
