package engine

import "github.com/meerski/arakh/internal/ids"

// EventLevel controls who an event fans out to, per spec.md §4.14 step 9.
type EventLevel string

const (
	// LevelPublic events go to every connected owner.
	LevelPublic EventLevel = "public"
	// LevelFamily events go only to the owner of the named family tree
	// (intel/mission outcomes).
	LevelFamily EventLevel = "family"
	// LevelPersonal events go only to the named owner.
	LevelPersonal EventLevel = "personal"
)

// Event is one tick-generated occurrence queued for fanout.
type Event struct {
	Tick         uint64
	Level        EventLevel
	Type         string
	FamilyTreeID *ids.FamilyTreeId
	OwnerID      *ids.OwnerId
	Payload      interface{}
}

func publicEvent(tick uint64, eventType string, payload interface{}) Event {
	return Event{Tick: tick, Level: LevelPublic, Type: eventType, Payload: payload}
}

func familyEvent(tick uint64, eventType string, familyID ids.FamilyTreeId, payload interface{}) Event {
	return Event{Tick: tick, Level: LevelFamily, Type: eventType, FamilyTreeID: &familyID, Payload: payload}
}
