package legacy

import (
	"math/rand"
	"testing"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/species"
)

func testSpecies() species.Species {
	return species.Species{ID: 1, Size: 50, Speed: 50, Strength: 50, Intelligence: 50, MaturityTicks: 10}
}

func TestProcessCharacterDeath_PicksHealthiestDescendantTieBrokenByFame(t *testing.T) {
	dead := character.Character{ID: 1, IsAlive: false}
	tree := character.FamilyTree{ID: 1}
	descendants := []character.Character{
		{ID: 2, IsAlive: true, Health: 0.4, Fame: 10},
		{ID: 3, IsAlive: true, Health: 0.4, Fame: 20},
		{ID: 4, IsAlive: false, Health: 0.9},
	}

	result := ProcessCharacterDeath(dead, tree, descendants)
	if !result.LegacyTransferred {
		t.Fatal("expected legacy to be transferred")
	}
	if result.Heir == nil || *result.Heir != 3 {
		t.Errorf("expected heir 3 (tied health, higher fame), got %v", result.Heir)
	}
}

func TestProcessCharacterDeath_NoSurvivorsSignalsRespawn(t *testing.T) {
	dead := character.Character{ID: 1}
	tree := character.FamilyTree{ID: 1}
	descendants := []character.Character{{ID: 2, IsAlive: false}}

	result := ProcessCharacterDeath(dead, tree, descendants)
	if !result.Respawn {
		t.Error("expected respawn to be signaled when no descendant survives")
	}
	if result.LegacyTransferred {
		t.Error("did not expect legacy transfer without a surviving heir")
	}
}

func TestInheritLegacy_TransfersInventoryKnowledgeFameAndRelationships(t *testing.T) {
	reg := character.NewRegistry()
	rng := rand.New(rand.NewSource(1))
	sp := testSpecies()

	parentID := reg.Create(rng, sp, character.CreateSpec{SpeciesID: 1, RegionID: 1, FamilyTreeID: 1, Tick: 0})
	childID := reg.Create(rng, sp, character.CreateSpec{SpeciesID: 1, RegionID: 1, FamilyTreeID: 1, Tick: 1, ParentIDs: []ids.CharacterId{parentID}})

	reg.Update(parentID, func(c *character.Character) {
		c.Inventory = []string{"flint", "berries"}
		c.Knowledge = []character.Knowledge{
			{Subject: "river ford", Source: character.SourceExperience},
			{Subject: "old rumor", Source: character.SourceRumor},
		}
		c.Fame = 10
		c.Relationships = []character.Relationship{
			{TargetID: 99, Type: "ally", Strength: 0.8},
			{TargetID: 100, Type: "rival", Strength: -0.6},
			{TargetID: 101, Type: "acquaintance", Strength: 0.2},
		}
	})

	if err := InheritLegacy(reg, parentID, childID); err != nil {
		t.Fatalf("InheritLegacy: %v", err)
	}

	child, _ := reg.Get(childID)
	if len(child.Inventory) != 2 {
		t.Errorf("expected 2 inherited inventory items, got %d", len(child.Inventory))
	}
	if len(child.Knowledge) != 1 || child.Knowledge[0].Source != character.SourceInherited {
		t.Errorf("expected exactly 1 inherited knowledge entry relabeled, got %+v", child.Knowledge)
	}
	if child.Fame != 3 {
		t.Errorf("expected child fame 0.3*10=3, got %v", child.Fame)
	}
	if len(child.Relationships) != 2 {
		t.Errorf("expected 2 inherited relationships (|strength|>=0.5), got %d", len(child.Relationships))
	}
	for _, rel := range child.Relationships {
		if rel.TargetID == 99 && rel.Strength != 0.4 {
			t.Errorf("expected ally relationship strength halved to 0.4, got %v", rel.Strength)
		}
		if rel.TargetID == 100 && rel.Strength != -0.3 {
			t.Errorf("expected rival relationship strength halved to -0.3, got %v", rel.Strength)
		}
	}

	parent, _ := reg.Get(parentID)
	if len(parent.Inventory) != 0 {
		t.Error("expected parent inventory to be cleared after transfer")
	}
}

func TestEvaluatePromotions_GenesisElderAlwaysMain(t *testing.T) {
	mgr := NewMainCharacterManager(NewCardRegistry())
	alive := []character.Character{
		{ID: 1, IsGenesisElder: true, Fame: 0},
	}
	promotions := mgr.EvaluatePromotions(alive)
	if len(promotions) != 1 || promotions[0].NewClass != character.ClassMain {
		t.Errorf("expected genesis elder to always be promoted to main, got %+v", promotions)
	}
}

func TestEvaluatePromotions_TopTwentyByFamePromoted(t *testing.T) {
	mgr := NewMainCharacterManager(NewCardRegistry())
	var alive []character.Character
	for i := 0; i < 30; i++ {
		alive = append(alive, character.Character{ID: ids.CharacterId(i + 1), Fame: float64(30 - i)})
	}
	promotions := mgr.EvaluatePromotions(alive)

	mainCount := 0
	for _, p := range promotions {
		if p.NewClass == character.ClassMain {
			mainCount++
		}
	}
	if mainCount != mainClassSlots {
		t.Errorf("expected exactly %d promoted to main, got %d", mainClassSlots, mainCount)
	}
	if promotions[0].CharacterID != 1 || promotions[0].NewClass != character.ClassMain {
		t.Errorf("expected the highest-fame character to be promoted to main, got %+v", promotions[0])
	}
}

func TestMainCharacterManager_RecordDeathIssuesCardOnlyForMainClass(t *testing.T) {
	cards := NewCardRegistry()
	mgr := NewMainCharacterManager(cards)

	regularDeath := character.Character{ID: 1, Class: character.ClassRegular}
	if card := mgr.RecordDeath(regularDeath, 5); card != nil {
		t.Error("expected no memorial card for a regular-class death")
	}

	mainDeath := character.Character{ID: 2, Class: character.ClassMain, Fame: 42}
	card := mgr.RecordDeath(mainDeath, 5)
	if card == nil {
		t.Fatal("expected a memorial card for a main-class death")
	}
	if card.Fame != 42 {
		t.Errorf("expected card fame 42, got %v", card.Fame)
	}
	if len(cards.List()) != 1 {
		t.Errorf("expected card to be stored in the registry, got %d", len(cards.List()))
	}
}
