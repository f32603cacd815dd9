package espionage

import (
	"math/rand"
	"sync"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/intel"
)

// HeartlandTracker is the side-registry espionage's infiltrate resolution
// writes to: which families know which other families' heartland region.
type HeartlandTracker struct {
	mu    sync.RWMutex
	known map[ids.FamilyTreeId]map[ids.FamilyTreeId]bool
}

// NewHeartlandTracker returns an empty tracker.
func NewHeartlandTracker() *HeartlandTracker {
	return &HeartlandTracker{known: make(map[ids.FamilyTreeId]map[ids.FamilyTreeId]bool)}
}

// MarkKnown records that knowingFamily now knows targetFamily's heartland.
func (h *HeartlandTracker) MarkKnown(knowingFamily, targetFamily ids.FamilyTreeId) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.known[knowingFamily]
	if !ok {
		m = make(map[ids.FamilyTreeId]bool)
		h.known[knowingFamily] = m
	}
	m[targetFamily] = true
}

// IsKnown reports whether knowingFamily knows targetFamily's heartland.
func (h *HeartlandTracker) IsKnown(knowingFamily, targetFamily ids.FamilyTreeId) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.known[knowingFamily][targetFamily]
}

const riskRollCasualtyProbability = 0.15

// ResolutionInputs carries everything TickMissions needs per mission to
// apply its resolution effect, supplied by the engine since espionage has
// no direct view of region contents.
type ResolutionInputs struct {
	AgentFamilyID      ids.FamilyTreeId
	Observation        intel.Observation
	FalsifiedObservation intel.Observation
}

// TickMissions advances every active/detected mission whose duration has
// elapsed to Resolved, applying the spec.md §4.11 resolution effects for
// missions that were never detected, and rolling pack casualties.
func (r *Registry) TickMissions(rng *rand.Rand, tick uint64, intelReg *intel.Registry, heartland *HeartlandTracker, inputsFor func(Mission) ResolutionInputs) []Mission {
	r.mu.Lock()
	var toResolve []*Mission
	for _, m := range r.byID {
		if (m.State == StateActive || m.State == StateDetected) && tick >= m.StartTick+m.DurationTicks {
			toResolve = append(toResolve, m)
		}
	}
	r.mu.Unlock()

	var resolved []Mission
	for _, m := range toResolve {
		inputs := inputsFor(*m)

		r.mu.Lock()
		wasDetected := m.State == StateDetected
		if !wasDetected {
			m.State = StateUndetected
		}

		if len(m.SupportCharacterIDs) > 0 && rng.Float64() < riskRollCasualtyProbability {
			idx := rng.Intn(len(m.SupportCharacterIDs))
			casualty := m.SupportCharacterIDs[idx]
			m.CasualtyCharacterID = &casualty
		}

		t := tick
		m.ResolvedAtTick = &t
		m.State = StateResolved

		participants := append([]ids.CharacterId{m.AgentCharacterID}, m.SupportCharacterIDs...)
		for _, p := range participants {
			delete(r.onMission, p)
			r.cooldownUntil[p] = tick + cooldownTicks
		}
		result := cloneMission(m)
		r.mu.Unlock()

		if !wasDetected {
			r.applyResolutionEffect(result, inputs, intelReg, heartland, tick)
		}
		resolved = append(resolved, result)
	}
	return resolved
}

func (r *Registry) applyResolutionEffect(m Mission, inputs ResolutionInputs, intelReg *intel.Registry, heartland *HeartlandTracker, tick uint64) {
	switch m.Type {
	case MissionSpy:
		if intelReg != nil {
			intelReg.RecordExploration(inputs.AgentFamilyID, m.TargetRegionID, inputs.Observation, tick)
		}
	case MissionInfiltrate:
		if heartland != nil && m.TargetFamilyID != nil {
			heartland.MarkKnown(inputs.AgentFamilyID, *m.TargetFamilyID)
		}
	case MissionSpreadRumors:
		if intelReg != nil && m.TargetFamilyID != nil {
			intelReg.PlantMisinformation(*m.TargetFamilyID, m.TargetRegionID, inputs.FalsifiedObservation, tick)
		}
	}
}

// PruneOldMissions deletes resolved missions older than maxAgeTicks.
func (r *Registry) PruneOldMissions(tick uint64, maxAgeTicks uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.byID {
		if m.ResolvedAtTick != nil && tick > *m.ResolvedAtTick+maxAgeTicks {
			delete(r.byID, id)
		}
	}
}

// IdentificationLevel is how precisely a detector identified a spy.
type IdentificationLevel string

const (
	IdentifySizeClass     IdentificationLevel = "size_class"
	IdentifyTaxonomyClass IdentificationLevel = "taxonomy_class"
	IdentifySpecies       IdentificationLevel = "species"
	IdentifyFamily        IdentificationLevel = "family"
)

var identificationOrder = []IdentificationLevel{IdentifySizeClass, IdentifyTaxonomyClass, IdentifySpecies, IdentifyFamily}

// DetectionReport is the narrative identification result of a detection.
type DetectionReport struct {
	Level       IdentificationLevel
	Description string
}

// GenerateDetectionReport produces an identification level monotonic in the
// detector's observation skill ([0,1]) and a description derived from it.
func GenerateDetectionReport(detectorObservationSkill float64) DetectionReport {
	idx := int(detectorObservationSkill * float64(len(identificationOrder)))
	if idx >= len(identificationOrder) {
		idx = len(identificationOrder) - 1
	}
	if idx < 0 {
		idx = 0
	}
	level := identificationOrder[idx]

	descriptions := map[IdentificationLevel]string{
		IdentifySizeClass:     "a creature of roughly this size was seen",
		IdentifyTaxonomyClass: "a creature of this general kind was seen",
		IdentifySpecies:       "the species was positively identified",
		IdentifyFamily:        "the exact family line was identified",
	}
	return DetectionReport{Level: level, Description: descriptions[level]}
}
