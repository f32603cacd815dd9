package taxonomy

import "testing"

func f64(v float64) *float64 { return &v }

func buildPrimateLineage(t *testing.T, r *Registry) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}
	must(r.Register(RankClass, "Mammalia", "", Traits{Intelligence: f64(30), Size: f64(50)}))
	must(r.Register(RankOrder, "Primates", "Mammalia", Traits{Intelligence: f64(60)}))
	must(r.Register(RankFamily, "Hominidae", "Primates", Traits{Intelligence: f64(70)}))
	must(r.Register(RankGenus, "Homo", "Hominidae", Traits{Intelligence: f64(80)}))
	must(r.Register(RankSpecies, "sapiens", "Homo", Traits{}))
}

func TestResolveTraits_MostSpecificWins(t *testing.T) {
	r := NewRegistry()
	buildPrimateLineage(t, r)

	traits, err := r.ResolveTraits(Path{Class: "Mammalia", Order: "Primates", Family: "Hominidae", Genus: "Homo", Species: "sapiens"})
	if err != nil {
		t.Fatalf("ResolveTraits: %v", err)
	}
	if got := *traits.Intelligence; got != 80 {
		t.Errorf("intelligence = %v, want 80", got)
	}
	if got := *traits.Size; got != 50 {
		t.Errorf("size = %v, want 50 (inherited from class, never overridden)", got)
	}
}

func TestResolveTraits_OrderIndependentOfUnrelatedBranches(t *testing.T) {
	r := NewRegistry()
	buildPrimateLineage(t, r)

	// Register an unrelated branch after the fact; it must not perturb the
	// already-registered Homo/sapiens resolution.
	if err := r.Register(RankOrder, "Carnivora", "Mammalia", Traits{Intelligence: f64(40)}); err != nil {
		t.Fatalf("register Carnivora: %v", err)
	}
	if err := r.Register(RankFamily, "Felidae", "Carnivora", Traits{Speed: f64(90)}); err != nil {
		t.Fatalf("register Felidae: %v", err)
	}

	traits, err := r.ResolveTraits(Path{Class: "Mammalia", Order: "Primates", Family: "Hominidae", Genus: "Homo", Species: "sapiens"})
	if err != nil {
		t.Fatalf("ResolveTraits: %v", err)
	}
	if got := *traits.Intelligence; got != 80 {
		t.Errorf("intelligence perturbed by unrelated branch: got %v, want 80", got)
	}
}

func TestRegister_UnknownParentIsError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(RankOrder, "Primates", "Mammalia", Traits{}); err == nil {
		t.Fatal("expected error registering against unknown parent")
	}
}

func TestRegister_ClassMustNotHaveParent(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(RankClass, "Mammalia", "SomeParent", Traits{}); err == nil {
		t.Fatal("expected error registering class with a parent")
	}
}

func TestResolveTraits_DefaultsFillGaps(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(RankClass, "Insecta", "", Traits{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	traits, err := r.ResolveTraits(Path{Class: "Insecta"})
	if err != nil {
		t.Fatalf("ResolveTraits: %v", err)
	}
	if traits.Intelligence == nil {
		t.Fatal("expected class-level default to fill absent intelligence")
	}
}

func TestResolveTraits_PerceptionDeepMerge(t *testing.T) {
	r := NewRegistry()
	visual := f64(5)
	hearing := f64(70)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	must(r.Register(RankClass, "Mammalia", "", Traits{Perception: &Perception{VisualRange: visual}}))
	must(r.Register(RankOrder, "Chiroptera", "Mammalia", Traits{Perception: &Perception{HearingRange: hearing}}))

	traits, err := r.ResolveTraits(Path{Class: "Mammalia", Order: "Chiroptera"})
	if err != nil {
		t.Fatalf("ResolveTraits: %v", err)
	}
	if traits.Perception.VisualRange == nil || *traits.Perception.VisualRange != 5 {
		t.Error("expected class-level visual range to survive the deep merge")
	}
	if traits.Perception.HearingRange == nil || *traits.Perception.HearingRange != 70 {
		t.Error("expected order-level hearing range to be present after deep merge")
	}
}
