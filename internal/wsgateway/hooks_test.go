package wsgateway

import (
	"context"
	"testing"

	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/session"
)

func TestBuildHooks_BroadcastRoutesByLevel(t *testing.T) {
	mgr := session.NewManager(nil)
	_, publicOutbox, _ := mgr.RegisterSession(context.Background(), ids.NewOwnerId())

	personalOwner := ids.NewOwnerId()
	_, personalOutbox, _ := mgr.RegisterSession(context.Background(), personalOwner)

	familySess, familyOutbox, _ := mgr.RegisterSession(context.Background(), ids.NewOwnerId())
	family := ids.FamilyTreeId(9)
	if err := mgr.Subscribe(familySess.ID, family); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	hooks := BuildHooks(mgr)
	hooks.Broadcast([]engine.Event{
		{Level: engine.LevelPublic, Type: "public_event"},
		{Level: engine.LevelPersonal, Type: "personal_event", OwnerID: &personalOwner},
		{Level: engine.LevelFamily, Type: "family_event", FamilyTreeID: &family},
	})

	select {
	case <-publicOutbox:
	default:
		t.Error("expected every session to receive the public event")
	}
	select {
	case <-personalOutbox:
	default:
		t.Error("expected the targeted owner to receive the personal event")
	}
	select {
	case <-familyOutbox:
	default:
		t.Error("expected the subscribed session to receive the family event")
	}
}
