package trust

import (
	"testing"

	"github.com/meerski/arakh/internal/ids"
)

func TestRecordCooperation_RaisesBothDirectionsAndCaps(t *testing.T) {
	l := NewLedger()
	a, b := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	for i := 0; i < 100; i++ {
		l.RecordCooperation(a, b, uint64(i))
	}
	if l.GetTrust(a, b) != trustCap {
		t.Errorf("expected trust capped at %v, got %v", trustCap, l.GetTrust(a, b))
	}
	if l.GetTrust(b, a) != trustCap {
		t.Errorf("expected reciprocal trust capped at %v, got %v", trustCap, l.GetTrust(b, a))
	}
}

func TestRecordBetrayal_OnlyVictimToPerpetratorDrops(t *testing.T) {
	l := NewLedger()
	perp, victim := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	l.RecordBetrayal(perp, victim, 10)

	if l.GetTrust(victim, perp) != betrayalPenalty {
		t.Errorf("expected victim->perpetrator trust %v, got %v", betrayalPenalty, l.GetTrust(victim, perp))
	}
	if l.GetTrust(perp, victim) != 0 {
		t.Errorf("expected perpetrator->victim trust untouched, got %v", l.GetTrust(perp, victim))
	}
}

func TestRecordBetrayal_FloorsAtMinusOne(t *testing.T) {
	l := NewLedger()
	perp, victim := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	for i := 0; i < 20; i++ {
		l.RecordBetrayal(perp, victim, uint64(i))
	}
	if l.GetTrust(victim, perp) != trustFloor {
		t.Errorf("expected trust floored at %v, got %v", trustFloor, l.GetTrust(victim, perp))
	}
}

func TestSpreadBetrayalReputation_SetsDirectlyExcludingPerpetrator(t *testing.T) {
	l := NewLedger()
	perp := ids.FamilyTreeId(1)
	witnesses := []ids.FamilyTreeId{2, 3, perp}

	l.SpreadBetrayalReputation(perp, witnesses, 5)
	if l.GetTrust(ids.FamilyTreeId(2), perp) != reputationSpreadValue {
		t.Errorf("expected witness 2 trust %v, got %v", reputationSpreadValue, l.GetTrust(2, perp))
	}
	if l.GetTrust(ids.FamilyTreeId(3), perp) != reputationSpreadValue {
		t.Errorf("expected witness 3 trust %v, got %v", reputationSpreadValue, l.GetTrust(3, perp))
	}
	if l.GetTrust(perp, perp) != 0 {
		t.Error("expected perpetrator excluded from its own reputation spread")
	}
}

func TestTickTrustDecay_MovesTowardZeroAndDropsNearNeutral(t *testing.T) {
	l := NewLedger()
	a, b := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	l.RecordCooperation(a, b, 0)
	for i := 0; i < 2000; i++ {
		l.TickTrustDecay(uint64(i))
	}
	if l.GetTrust(a, b) != 0 {
		t.Errorf("expected trust to decay to (near) zero and drop out, got %v", l.GetTrust(a, b))
	}
}

func TestEvaluateIntelSharingWillingness_KnownBetrayerRefused(t *testing.T) {
	l := NewLedger()
	source, target := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	l.RecordBetrayal(target, ids.FamilyTreeId(3), 1)

	w := l.EvaluateIntelSharingWillingness(source, target, 1.0)
	if w.Willing {
		t.Error("expected a known betrayer to be refused regardless of utility")
	}
}

func TestEvaluateIntelSharingWillingness_UnknownTargetNeedsHighUtility(t *testing.T) {
	l := NewLedger()
	source, target := ids.FamilyTreeId(1), ids.FamilyTreeId(2)

	if w := l.EvaluateIntelSharingWillingness(source, target, 0.5); w.Willing {
		t.Error("expected unknown target with low utility to be refused")
	}
	if w := l.EvaluateIntelSharingWillingness(source, target, 0.9); !w.Willing {
		t.Error("expected unknown target with high utility to be accepted")
	}
}

func TestEvaluateIntelSharingWillingness_TrustedAllyIsWilling(t *testing.T) {
	l := NewLedger()
	source, target := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	// 16 cooperations at +0.02 each lift trust to 0.32, past the 0.3 threshold.
	for i := 0; i < 16; i++ {
		l.RecordCooperation(source, target, uint64(i))
	}

	w := l.EvaluateIntelSharingWillingness(source, target, 0.0)
	if !w.Willing || w.RiskAssessment != "trusted ally" {
		t.Errorf("expected trusted ally to be willing, got %+v", w)
	}
}
