package diplomacy

import (
	"math/rand"
	"testing"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/trust"
)

func TestEvaluateProposal_PriorTrustRaisesAcceptance(t *testing.T) {
	ledger := trust.NewLedger()
	a, b := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	for i := 0; i < 20; i++ {
		ledger.RecordCooperation(a, b, uint64(i))
	}

	accepted := 0
	const trials = 200
	for i := 0; i < trials; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		p := EvaluateProposal(rng, ledger, a, b, Terms{Description: "territory"}, Terms{Description: "peace"}, false, 0)
		if p.Accepted {
			accepted++
		}
	}

	neutralLedger := trust.NewLedger()
	neutralAccepted := 0
	for i := 0; i < trials; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		p := EvaluateProposal(rng, neutralLedger, a, b, Terms{Description: "territory"}, Terms{Description: "peace"}, false, 0)
		if p.Accepted {
			neutralAccepted++
		}
	}

	if accepted <= neutralAccepted {
		t.Errorf("expected prior trust to raise acceptance rate: trusted=%d neutral=%d", accepted, neutralAccepted)
	}
}

func TestEvaluateProposal_EnemyTrustLowersAcceptance(t *testing.T) {
	ledger := trust.NewLedger()
	a, b := ids.FamilyTreeId(1), ids.FamilyTreeId(2)
	for i := 0; i < 3; i++ {
		ledger.RecordBetrayal(a, b, uint64(i))
	}

	neutralLedger := trust.NewLedger()

	accepted, neutralAccepted := 0, 0
	const trials = 200
	for i := 0; i < trials; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		if EvaluateProposal(rng, ledger, a, b, Terms{}, Terms{}, false, 0).Accepted {
			accepted++
		}
		rng2 := rand.New(rand.NewSource(int64(i)))
		if EvaluateProposal(rng2, neutralLedger, a, b, Terms{}, Terms{}, false, 0).Accepted {
			neutralAccepted++
		}
	}

	if accepted >= neutralAccepted {
		t.Errorf("expected enemy trust to lower acceptance rate: enemy=%d neutral=%d", accepted, neutralAccepted)
	}
}

func TestEvaluateProposal_CrossSpeciesLowersAcceptance(t *testing.T) {
	ledger := trust.NewLedger()
	a, b := ids.FamilyTreeId(1), ids.FamilyTreeId(2)

	sameSpecies, crossSpecies := 0, 0
	const trials = 200
	for i := 0; i < trials; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		if EvaluateProposal(rng, ledger, a, b, Terms{}, Terms{}, false, 0).Accepted {
			sameSpecies++
		}
		rng2 := rand.New(rand.NewSource(int64(i)))
		if EvaluateProposal(rng2, ledger, a, b, Terms{}, Terms{}, true, 0).Accepted {
			crossSpecies++
		}
	}

	if crossSpecies >= sameSpecies {
		t.Errorf("expected cross-species pairs to accept less often: cross=%d same=%d", crossSpecies, sameSpecies)
	}
}

func TestRegistry_AddGetAndGetForFamily(t *testing.T) {
	reg := NewRegistry()
	a, b, c := ids.FamilyTreeId(1), ids.FamilyTreeId(2), ids.FamilyTreeId(3)

	id := reg.Add(Pact{FamilyA: a, FamilyB: b, CreatedAtTick: 5})
	reg.Add(Pact{FamilyA: b, FamilyB: c, CreatedAtTick: 6})

	got, ok := reg.Get(id)
	if !ok {
		t.Fatal("expected pact to be found")
	}
	if got.CreatedAtTick != 5 {
		t.Errorf("expected CreatedAtTick 5, got %d", got.CreatedAtTick)
	}

	forB := reg.GetForFamily(b)
	if len(forB) != 2 {
		t.Errorf("expected family b to be party to 2 pacts, got %d", len(forB))
	}
	forA := reg.GetForFamily(a)
	if len(forA) != 1 {
		t.Errorf("expected family a to be party to 1 pact, got %d", len(forA))
	}
}

func TestBreakPact_ExcludesFromGetForFamilyAndRecordsBetrayal(t *testing.T) {
	reg := NewRegistry()
	ledger := trust.NewLedger()
	a, b, witness := ids.FamilyTreeId(1), ids.FamilyTreeId(2), ids.FamilyTreeId(3)

	id := reg.Add(Pact{FamilyA: a, FamilyB: b, CreatedAtTick: 1})

	if err := reg.BreakPact(id, a, b, []ids.FamilyTreeId{witness, a}, ledger, 10); err != nil {
		t.Fatalf("BreakPact: %v", err)
	}

	p, _ := reg.Get(id)
	if !p.Broken {
		t.Error("expected pact to be marked broken")
	}
	if p.BrokenBy == nil || *p.BrokenBy != a {
		t.Error("expected BrokenBy to be set to the breaker")
	}

	if len(reg.GetForFamily(a)) != 0 {
		t.Error("expected broken pact to be excluded from GetForFamily")
	}

	if trust := ledger.GetTrust(b, a); trust >= 0 {
		t.Errorf("expected victim's trust in breaker to have dropped, got %v", trust)
	}
	if trust := ledger.GetTrust(witness, a); trust >= 0 {
		t.Errorf("expected witness reputation to have been set negative, got %v", trust)
	}
}

func TestBreakPact_UnknownIDReturnsError(t *testing.T) {
	reg := NewRegistry()
	if err := reg.BreakPact(999, 1, 2, nil, nil, 0); err == nil {
		t.Fatal("expected an error for an unknown pact id")
	}
}
