// Package ids defines the opaque identifier types shared across every
// registry in the engine. Per-entity ids are dense arena indices minted by
// their owning registry; OwnerId and SessionId identify external actors and
// are UUIDs instead.
package ids

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SpeciesId identifies a resolved species in the species registry.
type SpeciesId uint64

// RegionId identifies a region in the world's region arena.
type RegionId uint64

// CharacterId identifies a character in the character arena.
type CharacterId uint64

// FamilyTreeId identifies a lineage in the family tree registry.
type FamilyTreeId uint64

// ColonyId identifies a colony grouping within a region. The type is
// declared only: no subsystem mints or consumes a ColonyId.
type ColonyId uint64

// CardId identifies a memorial card in the card registry.
type CardId uint64

// MissionId identifies an espionage mission.
type MissionId uint64

// PactId identifies a diplomacy pact.
type PactId uint64

// OwnerId identifies an external account that may own family trees and
// issue actions through a session. Not a dense index: owners exist outside
// any single world's arenas.
type OwnerId uuid.UUID

// SessionId identifies one connected owner session.
type SessionId uuid.UUID

// NewOwnerId mints a fresh random owner identifier.
func NewOwnerId() OwnerId {
	return OwnerId(uuid.New())
}

// NewSessionId mints a fresh random session identifier.
func NewSessionId() SessionId {
	return SessionId(uuid.New())
}

func (o OwnerId) String() string   { return uuid.UUID(o).String() }
func (s SessionId) String() string { return uuid.UUID(s).String() }

// MarshalJSON renders an OwnerId as its canonical UUID string, so snapshot
// documents and JWT claims carry it as text rather than a raw byte array.
func (o OwnerId) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// UnmarshalJSON parses an OwnerId from its canonical UUID string.
func (o *OwnerId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*o = OwnerId(parsed)
	return nil
}

// MarshalJSON renders a SessionId as its canonical UUID string.
func (s SessionId) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON parses a SessionId from its canonical UUID string.
func (s *SessionId) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := uuid.Parse(str)
	if err != nil {
		return err
	}
	*s = SessionId(parsed)
	return nil
}

// Arena is a minimal dense-index allocator shared by every registry that
// mints uint64 ids: the zero value is never a valid id, so callers can use
// 0 as "unset".
type Arena struct {
	next uint64
}

// Next returns the next id in the arena, starting at 1.
func (a *Arena) Next() uint64 {
	a.next++
	return a.next
}

// Bump advances the arena's cursor so that future Next calls never
// collide with an id already known to the caller. Used when restoring a
// registry from a snapshot document, where entities carry ids minted by
// a previous arena rather than this process's.
func (a *Arena) Bump(id uint64) {
	if id > a.next {
		a.next = id
	}
}
