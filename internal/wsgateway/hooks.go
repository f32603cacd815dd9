package wsgateway

import (
	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/perception"
	"github.com/meerski/arakh/internal/session"
)

// BuildHooks wires an engine.Hooks struct to a session manager, giving the
// tick scheduler's perception-broadcast and event-fanout steps a real
// transport instead of the no-op defaults. This is the seam
// spec.md §4.14 leaves between "the engine decides what to send" and
// "transport delivers it" (§1's explicit out-of-scope boundary).
func BuildHooks(mgr *session.Manager) engine.Hooks {
	return engine.Hooks{
		PerceptionBroadcast: func(ownerID ids.OwnerId, ctx perception.ActionContext) {
			mgr.Send(ownerID, "perception", ctx)
		},
		Broadcast: func(events []engine.Event) {
			for _, ev := range events {
				switch ev.Level {
				case engine.LevelFamily:
					if ev.FamilyTreeID != nil {
						mgr.SendToFamily(*ev.FamilyTreeID, ev.Type, ev.Payload)
					}
				case engine.LevelPersonal:
					if ev.OwnerID != nil {
						mgr.Send(*ev.OwnerID, ev.Type, ev.Payload)
					}
				default:
					mgr.Broadcast(ev.Type, ev.Payload)
				}
			}
		},
	}
}
