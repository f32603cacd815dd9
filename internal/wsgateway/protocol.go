// Package wsgateway is the gorilla/websocket transport for spec.md §4.15's
// session interface: it upgrades HTTP connections, authenticates the
// bearer token via internal/session, and pumps internal/session.Outbound
// messages out while decoding inbound subscribe/action frames. Grounded on
// the teacher's cmd/game-server/websocket package (Hub/Client/protocol),
// generalized from a MUD command channel to this engine's owner-action
// inbox and family subscriptions.
package wsgateway

import (
	"encoding/json"

	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/perception"
)

// Inbound message types a connected owner may send.
const (
	FrameSubscribe = "subscribe"
	FrameAction    = "action"
)

// ClientFrame is one inbound message, generalizing the teacher's
// ClientMessage envelope (type + deferred-decode payload).
type ClientFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SubscribeFrame asks the gateway to route family-level events to this
// session.
type SubscribeFrame struct {
	FamilyTreeID ids.FamilyTreeId `json:"familyTreeId"`
}

// ActionFrame submits an agent action for a controlled character, queued
// onto the engine's inbox at the next tick's step 5.
type ActionFrame struct {
	CharacterID  ids.CharacterId       `json:"characterId"`
	Type         perception.ActionType `json:"type"`
	TargetID     ids.CharacterId       `json:"targetId,omitempty"`
	ResourceType string                `json:"resourceType,omitempty"`
	ToRegionID   ids.RegionId          `json:"toRegionId,omitempty"`
}

func (f ActionFrame) toAction() perception.Action {
	return perception.Action{
		Type:         f.Type,
		TargetID:     f.TargetID,
		ResourceType: f.ResourceType,
		ToRegionID:   f.ToRegionID,
	}
}

// ErrorFrame reports a malformed or refused inbound message, grounded on
// the teacher's ErrorData.
type ErrorFrame struct {
	Message string `json:"message"`
}
