// Package trust tracks directed trust between family trees: cooperation and
// betrayal history, reputation spread, decay toward neutral, and intel
// accuracy scoring used to decide whether one family will share with
// another.
package trust

import (
	"sync"

	"github.com/meerski/arakh/internal/ids"
)

type pairKey struct {
	Observer ids.FamilyTreeId
	Subject  ids.FamilyTreeId
}

// accuracyState is a rolling mean over at most maxAccuracySamples samples.
type accuracyState struct {
	samples []float64
}

const maxAccuracySamples = 20

func (a *accuracyState) record(wasAccurate bool) {
	v := 0.0
	if wasAccurate {
		v = 1.0
	}
	a.samples = append(a.samples, v)
	if len(a.samples) > maxAccuracySamples {
		a.samples = a.samples[len(a.samples)-maxAccuracySamples:]
	}
}

func (a *accuracyState) mean() float64 {
	if len(a.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range a.samples {
		sum += s
	}
	return sum / float64(len(a.samples))
}

// Ledger is the directed trust registry. Owned exclusively by the engine.
type Ledger struct {
	mu            sync.RWMutex
	trust         map[pairKey]float64
	betrayalCount map[ids.FamilyTreeId]int
	accuracy      map[pairKey]*accuracyState
	intelShared   map[pairKey]int
}

// NewLedger returns an empty trust ledger.
func NewLedger() *Ledger {
	return &Ledger{
		trust:         make(map[pairKey]float64),
		betrayalCount: make(map[ids.FamilyTreeId]int),
		accuracy:      make(map[pairKey]*accuracyState),
		intelShared:   make(map[pairKey]int),
	}
}

const trustCap = 1.0
const trustFloor = -1.0

func clampTrust(v float64) float64 {
	if v > trustCap {
		return trustCap
	}
	if v < trustFloor {
		return trustFloor
	}
	return v
}

// GetTrust returns the trust observer directs at subject, defaulting to 0
// for an unknown pair.
func (l *Ledger) GetTrust(observer, subject ids.FamilyTreeId) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trust[pairKey{observer, subject}]
}

const cooperationGain = 0.02

// RecordCooperation raises trust in both directions between a and b.
func (l *Ledger) RecordCooperation(a, b ids.FamilyTreeId, tick uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trust[pairKey{a, b}] = clampTrust(l.trust[pairKey{a, b}] + cooperationGain)
	l.trust[pairKey{b, a}] = clampTrust(l.trust[pairKey{b, a}] + cooperationGain)
}

const betrayalPenalty = -0.3

// RecordBetrayal drops the victim's trust in perpetrator by a heavy amount
// and increments perpetrator's betrayal count.
func (l *Ledger) RecordBetrayal(perpetrator, victim ids.FamilyTreeId, tick uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := pairKey{victim, perpetrator}
	l.trust[key] = clampTrust(l.trust[key] + betrayalPenalty)
	l.betrayalCount[perpetrator]++
}

const reputationSpreadValue = -0.15

// SpreadBetrayalReputation directly sets (witness -> perpetrator) trust for
// every witness other than perpetrator itself.
func (l *Ledger) SpreadBetrayalReputation(perpetrator ids.FamilyTreeId, witnessFamilies []ids.FamilyTreeId, tick uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, witness := range witnessFamilies {
		if witness == perpetrator {
			continue
		}
		l.trust[pairKey{witness, perpetrator}] = reputationSpreadValue
	}
}

const trustDecayFraction = 0.01
const trustDecayDropThreshold = 0.001

// TickTrustDecay moves every directed trust value toward 0 by a small fixed
// fraction, dropping records that land within the threshold of neutral.
func (l *Ledger) TickTrustDecay(tick uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.trust {
		v -= v * trustDecayFraction
		if v > -trustDecayDropThreshold && v < trustDecayDropThreshold {
			delete(l.trust, k)
			continue
		}
		l.trust[k] = v
	}
}

// RecordIntelAccuracy updates observer's rolling assessment of subject's
// intel accuracy and bumps the shared-intel counter between them.
func (l *Ledger) RecordIntelAccuracy(observer, subject ids.FamilyTreeId, wasAccurate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := pairKey{observer, subject}
	state, ok := l.accuracy[key]
	if !ok {
		state = &accuracyState{}
		l.accuracy[key] = state
	}
	state.record(wasAccurate)
	l.intelShared[key]++
}

// IntelAccuracyScore returns observer's rolling-mean accuracy score for
// subject, 0 if no samples exist yet.
func (l *Ledger) IntelAccuracyScore(observer, subject ids.FamilyTreeId) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	state, ok := l.accuracy[pairKey{observer, subject}]
	if !ok {
		return 0
	}
	return state.mean()
}

// Willingness is the result of evaluating whether source will share intel
// with target.
type Willingness struct {
	Willing        bool
	RiskAssessment string
}

const trustedAllyThreshold = 0.3
const unknownTargetUtilityFloor = 0.7

// EvaluateIntelSharingWillingness decides whether source shares intel with
// target for the given utility of the exchange, per spec.md §4.10: known
// betrayers are refused outright, unknown targets require high utility, and
// sufficiently trusted targets are always willing.
func (l *Ledger) EvaluateIntelSharingWillingness(source, target ids.FamilyTreeId, utility float64) Willingness {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.betrayalCount[target] > 0 {
		return Willingness{Willing: false, RiskAssessment: "known betrayer"}
	}

	trustLevel := l.trust[pairKey{source, target}]
	_, hasAccuracy := l.accuracy[pairKey{source, target}]
	isUnknown := trustLevel == 0 && !hasAccuracy

	if trustLevel > trustedAllyThreshold {
		return Willingness{Willing: true, RiskAssessment: "trusted ally"}
	}
	if isUnknown {
		if utility < unknownTargetUtilityFloor {
			return Willingness{Willing: false, RiskAssessment: "unknown party, insufficient utility"}
		}
		return Willingness{Willing: true, RiskAssessment: "unknown party, utility justifies risk"}
	}
	return Willingness{Willing: false, RiskAssessment: "insufficient trust"}
}
