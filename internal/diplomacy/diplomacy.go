// Package diplomacy evaluates pact proposals between family trees and
// holds the pact registry, including breakage with reputation propagation.
package diplomacy

import (
	"math/rand"
	"sync"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/trust"
)

// Terms is the flexible shape of one side of a proposal: a free-text
// description plus a numeric value the acceptance probability can weigh.
type Terms struct {
	Description string
	Value       float64
}

// Pact is an agreement between two family trees.
type Pact struct {
	ID           ids.PactId
	FamilyA      ids.FamilyTreeId
	FamilyB      ids.FamilyTreeId
	Offer        Terms
	Demand       Terms
	CreatedAtTick uint64
	Broken       bool
	BrokenBy     *ids.FamilyTreeId
	BrokenAtTick  uint64
}

// Proposal is the result of evaluating a pact offer.
type Proposal struct {
	Accepted  bool
	Narrative string
	Pact      *Pact
}

// Registry owns every pact.
type Registry struct {
	mu    sync.RWMutex
	arena ids.Arena
	byID  map[ids.PactId]*Pact
}

// NewRegistry returns an empty pact registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ids.PactId]*Pact)}
}

func clonePact(p *Pact) Pact {
	cp := *p
	if p.BrokenBy != nil {
		v := *p.BrokenBy
		cp.BrokenBy = &v
	}
	return cp
}

// Add stores pact and returns its id.
func (r *Registry) Add(pact Pact) ids.PactId {
	r.mu.Lock()
	defer r.mu.Unlock()
	pact.ID = ids.PactId(r.arena.Next())
	stored := pact
	r.byID[pact.ID] = &stored
	return pact.ID
}

// Get returns a copy of the pact.
func (r *Registry) Get(id ids.PactId) (Pact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return Pact{}, false
	}
	return clonePact(p), true
}

// GetForFamily returns every unbroken pact involving familyID. Pacts are
// tracked at family-tree granularity (matching internal/trust and
// internal/intel's family-level scope) rather than per-character, so this
// generalizes spec.md §4.12's getForCharacter to the unit this engine
// actually negotiates on behalf of.
func (r *Registry) GetForFamily(familyID ids.FamilyTreeId) []Pact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Pact
	for _, p := range r.byID {
		if p.Broken {
			continue
		}
		if p.FamilyA == familyID || p.FamilyB == familyID {
			out = append(out, clonePact(p))
		}
	}
	return out
}

// BreakPact marks a pact broken by breaker against victim, and propagates
// the betrayal through trustLedger: the victim's trust in breaker drops
// heavily, and the betrayal reputation spreads to witnesses.
func (r *Registry) BreakPact(id ids.PactId, breaker, victim ids.FamilyTreeId, witnesses []ids.FamilyTreeId, trustLedger *trust.Ledger, tick uint64) error {
	r.mu.Lock()
	p, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return errors.ErrPactNotFound
	}
	p.Broken = true
	p.BrokenBy = &breaker
	p.BrokenAtTick = tick
	r.mu.Unlock()

	if trustLedger != nil {
		trustLedger.RecordBetrayal(breaker, victim, tick)
		trustLedger.SpreadBetrayalReputation(breaker, witnesses, tick)
	}
	return nil
}

const (
	baseAcceptanceProbability = 0.5
	trustWeight               = 0.3
	crossSpeciesPenalty       = 0.4
	minAcceptanceProbability  = 0.05
	maxAcceptanceProbability  = 0.95
)

func clampProbability(v float64) float64 {
	if v < minAcceptanceProbability {
		return minAcceptanceProbability
	}
	if v > maxAcceptanceProbability {
		return maxAcceptanceProbability
	}
	return v
}

// EvaluateProposal decides whether familyB accepts a pact proposed by
// familyA, per spec.md §4.12: acceptance probability decreases with an
// existing enemy (negative trust) relationship, increases with prior
// (positive) trust, and drops further for cross-species pairs. On
// acceptance, a Pact is created and returned.
func EvaluateProposal(rng *rand.Rand, trustLedger *trust.Ledger, familyA, familyB ids.FamilyTreeId, offer, demand Terms, crossSpecies bool, tick uint64) Proposal {
	prob := baseAcceptanceProbability
	if trustLedger != nil {
		prob += trustLedger.GetTrust(familyB, familyA) * trustWeight
	}
	if crossSpecies {
		prob *= 1 - crossSpeciesPenalty
	}
	prob = clampProbability(prob)

	if rng.Float64() >= prob {
		return Proposal{Accepted: false, Narrative: "the proposal was declined"}
	}

	pact := &Pact{
		FamilyA:       familyA,
		FamilyB:       familyB,
		Offer:         offer,
		Demand:        demand,
		CreatedAtTick: tick,
	}
	return Proposal{Accepted: true, Narrative: "the proposal was accepted", Pact: pact}
}
