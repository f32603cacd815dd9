// Package espionage runs mission state machines: spy, infiltrate, and
// spread_rumors missions that progress Proposed -> Active ->
// (Detected|Undetected) -> Resolved, with per-agent cooldowns and
// probabilistic sentinel detection.
package espionage

import (
	"math"
	"math/rand"
	"sync"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
)

// MissionType is a closed tagged union.
type MissionType string

const (
	MissionSpy           MissionType = "spy"
	MissionInfiltrate    MissionType = "infiltrate"
	MissionSpreadRumors  MissionType = "spread_rumors"
)

// MissionState is the mission's position in its state machine.
type MissionState string

const (
	StateProposed  MissionState = "proposed"
	StateActive    MissionState = "active"
	StateDetected  MissionState = "detected"
	StateUndetected MissionState = "undetected"
	StateResolved  MissionState = "resolved"
)

// baseDurationAtSpeed50 is baseDuration(type) from spec.md §4.11, defined at
// a reference agent speed of 50.
var baseDurationAtSpeed50 = map[MissionType]float64{
	MissionSpy:          5,
	MissionInfiltrate:   15,
	MissionSpreadRumors: 10,
}

const cooldownTicks = 30

// Mission is one espionage operation.
type Mission struct {
	ID                 ids.MissionId
	Type               MissionType
	AgentCharacterID   ids.CharacterId
	SupportCharacterIDs []ids.CharacterId
	TargetRegionID     ids.RegionId
	TargetFamilyID     *ids.FamilyTreeId
	StartTick          uint64
	DurationTicks      uint64
	State              MissionState
	DetectedAtTick     *uint64
	ResolvedAtTick     *uint64
	CasualtyCharacterID *ids.CharacterId
}

// StartSpec is the input to StartMission.
type StartSpec struct {
	Type                MissionType
	AgentCharacterID    ids.CharacterId
	AgentSpeed          float64
	SupportCharacterIDs []ids.CharacterId
	TargetRegionID      ids.RegionId
	TargetFamilyID      *ids.FamilyTreeId
	Tick                uint64
}

// Registry owns every mission plus the on-mission/cooldown state of the
// characters participating in them.
type Registry struct {
	mu            sync.Mutex
	arena         ids.Arena
	byID          map[ids.MissionId]*Mission
	onMission     map[ids.CharacterId]ids.MissionId
	cooldownUntil map[ids.CharacterId]uint64
}

// NewRegistry returns an empty mission registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:          make(map[ids.MissionId]*Mission),
		onMission:     make(map[ids.CharacterId]ids.MissionId),
		cooldownUntil: make(map[ids.CharacterId]uint64),
	}
}

func cloneMission(m *Mission) Mission {
	cp := *m
	cp.SupportCharacterIDs = append([]ids.CharacterId(nil), m.SupportCharacterIDs...)
	if m.TargetFamilyID != nil {
		v := *m.TargetFamilyID
		cp.TargetFamilyID = &v
	}
	if m.DetectedAtTick != nil {
		v := *m.DetectedAtTick
		cp.DetectedAtTick = &v
	}
	if m.ResolvedAtTick != nil {
		v := *m.ResolvedAtTick
		cp.ResolvedAtTick = &v
	}
	if m.CasualtyCharacterID != nil {
		v := *m.CasualtyCharacterID
		cp.CasualtyCharacterID = &v
	}
	return cp
}

// StartMission allocates a new mission, per spec.md §4.11: duration scales
// inversely with the agent's speed relative to the reference speed of 50,
// and neither the agent nor any support character may already be on a
// mission or within cooldown of their last one.
func (r *Registry) StartMission(spec StartSpec) (ids.MissionId, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants := append([]ids.CharacterId{spec.AgentCharacterID}, spec.SupportCharacterIDs...)
	for _, p := range participants {
		if _, busy := r.onMission[p]; busy {
			return 0, errors.ErrOnMission
		}
		if spec.Tick < r.cooldownUntil[p] {
			return 0, errors.ErrOnCooldown
		}
	}

	base := baseDurationAtSpeed50[spec.Type]
	speed := spec.AgentSpeed
	if speed < 10 {
		speed = 10
	}
	duration := uint64(base * (50.0 / speed))
	if duration < 1 {
		duration = 1
	}

	id := ids.MissionId(r.arena.Next())
	m := &Mission{
		ID:                 id,
		Type:               spec.Type,
		AgentCharacterID:   spec.AgentCharacterID,
		SupportCharacterIDs: append([]ids.CharacterId(nil), spec.SupportCharacterIDs...),
		TargetRegionID:     spec.TargetRegionID,
		TargetFamilyID:     spec.TargetFamilyID,
		StartTick:          spec.Tick,
		DurationTicks:      duration,
		State:              StateActive,
	}
	r.byID[id] = m
	for _, p := range participants {
		r.onMission[p] = id
	}
	return id, nil
}

// Get returns a copy of the mission.
func (r *Registry) Get(id ids.MissionId) (Mission, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return Mission{}, false
	}
	return cloneMission(m), true
}

// IsOnCooldown reports whether characterID is still within its post-mission
// cooldown window at tick.
func (r *Registry) IsOnCooldown(characterID ids.CharacterId, tick uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tick < r.cooldownUntil[characterID]
}

const (
	detectionBaseFloor = 0.01
	detectionBaseCap   = 0.8
	sentinelContributionK = 0.1
	intelligenceReductionDivisor = 1000.0
)

func clampDetection(v float64) float64 {
	if v < detectionBaseFloor {
		return detectionBaseFloor
	}
	if v > detectionBaseCap {
		return detectionBaseCap
	}
	return v
}

// CalculateDetectionChance implements spec.md §4.11's detection formula:
// a size-scaled base, reduced slightly by the spy's intelligence, plus a
// per-sentinel contribution with logarithmic diminishing returns so each
// additional sentinel adds strictly less than the one before it.
func CalculateDetectionChance(spySize, spyIntelligence float64, sentinelSizes []float64) float64 {
	base := 0.05 * (spySize / 40.0)
	base = clampDetection(base)
	base -= spyIntelligence / intelligenceReductionDivisor
	if base < 0 {
		base = 0
	}

	safeSpySize := spySize
	if safeSpySize < 1 {
		safeSpySize = 1
	}
	for i, sentinelSize := range sentinelSizes {
		contribution := sentinelContributionK * (sentinelSize / safeSpySize)
		contribution /= math.Log2(float64(i) + 2) // i=0 -> log2(2)=1, strictly grows after
		base += contribution
	}
	return clampDetection(base)
}

// AttemptDetection rolls the mission's detection chance against rng and, on
// success, marks the mission Detected and returns its updated record.
func (r *Registry) AttemptDetection(rng *rand.Rand, missionID ids.MissionId, spySize, spyIntelligence float64, sentinelSizes []float64, tick uint64) (Mission, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[missionID]
	if !ok {
		return Mission{}, false, errors.ErrMissionNotFound
	}
	if m.State != StateActive {
		return cloneMission(m), false, nil
	}

	chance := CalculateDetectionChance(spySize, spyIntelligence, sentinelSizes)
	if rng.Float64() < chance {
		m.State = StateDetected
		t := tick
		m.DetectedAtTick = &t
		return cloneMission(m), true, nil
	}
	return cloneMission(m), false, nil
}
