package espionage

import (
	"math/rand"
	"testing"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/intel"
)

func TestStartMission_DurationScalesInverselyWithSpeed(t *testing.T) {
	reg := NewRegistry()
	id, err := reg.StartMission(StartSpec{
		Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: 1, Tick: 0,
	})
	if err != nil {
		t.Fatalf("StartMission: %v", err)
	}
	m, _ := reg.Get(id)
	if m.DurationTicks != 5 {
		t.Errorf("expected duration 5 at reference speed 50, got %d", m.DurationTicks)
	}

	reg2 := NewRegistry()
	id2, err := reg2.StartMission(StartSpec{
		Type: MissionSpy, AgentCharacterID: 2, AgentSpeed: 100, TargetRegionID: 1, Tick: 0,
	})
	if err != nil {
		t.Fatalf("StartMission: %v", err)
	}
	m2, _ := reg2.Get(id2)
	if m2.DurationTicks >= m.DurationTicks {
		t.Errorf("expected a faster agent to finish sooner: speed50=%d speed100=%d", m.DurationTicks, m2.DurationTicks)
	}
}

func TestStartMission_RefusesWhileAlreadyOnMission(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.StartMission(StartSpec{Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: 1, Tick: 0}); err != nil {
		t.Fatalf("first StartMission: %v", err)
	}
	if _, err := reg.StartMission(StartSpec{Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: 2, Tick: 1}); err == nil {
		t.Fatal("expected second mission for the same agent to be refused")
	}
}

func TestStartMission_RefusesDuringCooldown(t *testing.T) {
	reg := NewRegistry()
	id, _ := reg.StartMission(StartSpec{Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: 1, Tick: 0})
	m, _ := reg.Get(id)

	rng := rand.New(rand.NewSource(1))
	reg.TickMissions(rng, m.StartTick+m.DurationTicks, nil, nil, func(Mission) ResolutionInputs { return ResolutionInputs{} })

	resolvedTick := m.StartTick + m.DurationTicks
	if !reg.IsOnCooldown(1, resolvedTick+1) {
		t.Fatal("expected agent to be on cooldown immediately after resolution")
	}
	if _, err := reg.StartMission(StartSpec{Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: 1, Tick: resolvedTick + 1}); err == nil {
		t.Fatal("expected a mission attempt during cooldown to be refused")
	}
	if reg.IsOnCooldown(1, resolvedTick+cooldownTicks+1) {
		t.Fatal("expected cooldown to have elapsed by then")
	}
}

func TestCalculateDetectionChance_MoreSentinelsIncreaseButDiminish(t *testing.T) {
	chanceOne := CalculateDetectionChance(40, 20, []float64{40})
	chanceTwo := CalculateDetectionChance(40, 20, []float64{40, 40})
	chanceThree := CalculateDetectionChance(40, 20, []float64{40, 40, 40})

	if !(chanceTwo > chanceOne && chanceThree > chanceTwo) {
		t.Fatalf("expected monotonically increasing detection chance: %v, %v, %v", chanceOne, chanceTwo, chanceThree)
	}
	deltaOne := chanceTwo - chanceOne
	deltaTwo := chanceThree - chanceTwo
	if deltaTwo >= deltaOne {
		t.Errorf("expected diminishing returns: delta1=%v delta2=%v", deltaOne, deltaTwo)
	}
}

func TestCalculateDetectionChance_StaysWithinBounds(t *testing.T) {
	sentinels := make([]float64, 50)
	for i := range sentinels {
		sentinels[i] = 100
	}
	chance := CalculateDetectionChance(100, 0, sentinels)
	if chance < detectionBaseFloor || chance > detectionBaseCap {
		t.Errorf("expected chance within [%v,%v], got %v", detectionBaseFloor, detectionBaseCap, chance)
	}
}

func TestTickMissions_UndetectedSpyRecordsExploration(t *testing.T) {
	reg := NewRegistry()
	intelReg := intel.NewRegistry()
	agentFamily := ids.FamilyTreeId(7)
	targetRegion := ids.RegionId(3)

	id, _ := reg.StartMission(StartSpec{Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: targetRegion, Tick: 0})
	m, _ := reg.Get(id)

	rng := rand.New(rand.NewSource(2))
	resolved := reg.TickMissions(rng, m.StartTick+m.DurationTicks, intelReg, nil, func(Mission) ResolutionInputs {
		return ResolutionInputs{AgentFamilyID: agentFamily, Observation: intel.Observation{PopEstimate: 12}}
	})

	if len(resolved) != 1 {
		t.Fatalf("expected exactly one resolved mission, got %d", len(resolved))
	}
	if resolved[0].State != StateResolved {
		t.Errorf("expected resolved state, got %v", resolved[0].State)
	}
	rec, ok := intelReg.Get(agentFamily, targetRegion)
	if !ok {
		t.Fatal("expected intel record to be recorded for the agent's family")
	}
	if rec.PopEstimate != 12 {
		t.Errorf("expected popEstimate 12, got %d", rec.PopEstimate)
	}
}

func TestTickMissions_DetectedMissionSkipsEffects(t *testing.T) {
	reg := NewRegistry()
	intelReg := intel.NewRegistry()
	agentFamily := ids.FamilyTreeId(7)
	targetRegion := ids.RegionId(3)

	id, _ := reg.StartMission(StartSpec{Type: MissionSpy, AgentCharacterID: 1, AgentSpeed: 50, TargetRegionID: targetRegion, Tick: 0})
	rng := rand.New(rand.NewSource(3))
	detected := false
	for i := 0; i < 20 && !detected; i++ {
		_, d, err := reg.AttemptDetection(rng, id, 0, 0, []float64{1000, 1000, 1000, 1000, 1000}, 1)
		if err != nil {
			t.Fatalf("AttemptDetection: %v", err)
		}
		detected = d
	}
	if !detected {
		t.Fatal("expected near-certain detection with huge sentinels and a tiny spy within 20 attempts")
	}

	m, _ := reg.Get(id)
	reg.TickMissions(rng, m.StartTick+m.DurationTicks, intelReg, nil, func(Mission) ResolutionInputs {
		return ResolutionInputs{AgentFamilyID: agentFamily}
	})

	if _, ok := intelReg.Get(agentFamily, targetRegion); ok {
		t.Fatal("expected a detected mission to never record exploration intel")
	}
}

func TestGenerateDetectionReport_MonotonicInObservationSkill(t *testing.T) {
	low := GenerateDetectionReport(0)
	high := GenerateDetectionReport(0.99)
	lowIdx, highIdx := -1, -1
	for i, lvl := range identificationOrder {
		if lvl == low.Level {
			lowIdx = i
		}
		if lvl == high.Level {
			highIdx = i
		}
	}
	if highIdx < lowIdx {
		t.Errorf("expected higher observation skill to identify at least as precisely: low=%v high=%v", low.Level, high.Level)
	}
}
