package species

import "testing"

func testDescriptor(name string) Descriptor {
	return Descriptor{
		Name:             name,
		Tier:             TierNotable,
		Intelligence:     40,
		Size:             50,
		Strength:         40,
		Speed:            40,
		LifespanTicks:    8640,
		MaturityTicks:    864,
		GestationTicks:   86,
		ReproductionRate: 1,
		Diet:             DietOmnivore,
		Habitat:          []Layer{LayerSurface},
	}
}

func TestRegister_ReturnsUniqueIDsAndRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	id1, err := r.Register(testDescriptor("wolf"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	id2, err := r.Register(testDescriptor("deer"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id1 == id2 {
		t.Error("expected distinct ids for distinct species")
	}
	if _, err := r.Register(testDescriptor("wolf")); err == nil {
		t.Error("expected error registering duplicate species name")
	}
}

func TestUpdatePopulation_StatusMonotonicallyDeclines(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register(testDescriptor("quoll"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.UpdatePopulation(id, 300); err != nil {
		t.Fatalf("UpdatePopulation: %v", err)
	}
	sp, _ := r.Get(id)
	if sp.Status != StatusStable {
		t.Fatalf("status = %v, want stable", sp.Status)
	}

	if err := r.UpdatePopulation(id, -290); err != nil {
		t.Fatalf("UpdatePopulation: %v", err)
	}
	sp, _ = r.Get(id)
	if sp.Status != StatusCriticallyEndangered {
		t.Fatalf("status = %v, want critically_endangered at population %d", sp.Status, sp.TotalPopulation)
	}

	if err := r.UpdatePopulation(id, -sp.TotalPopulation); err != nil {
		t.Fatalf("UpdatePopulation: %v", err)
	}
	sp, _ = r.Get(id)
	if sp.Status != StatusExtinct {
		t.Fatalf("status = %v, want extinct at population 0", sp.Status)
	}

	// Extinction is final: a later positive delta must not resurrect status.
	if err := r.UpdatePopulation(id, 500); err != nil {
		t.Fatalf("UpdatePopulation: %v", err)
	}
	sp, _ = r.Get(id)
	if sp.Status != StatusExtinct {
		t.Fatalf("status = %v, want extinct to remain final", sp.Status)
	}
}

func TestGetAll_ReturnsCopiesNotAliases(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register(testDescriptor("fox"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	all := r.GetAll()
	if len(all) != 1 {
		t.Fatalf("len(GetAll()) = %d, want 1", len(all))
	}
	all[0].TotalPopulation = 99999
	sp, _ := r.Get(id)
	if sp.TotalPopulation == 99999 {
		t.Error("GetAll returned a live alias instead of a copy")
	}
}
