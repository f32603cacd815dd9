// Package session tracks connected observers and their family-tree
// subscriptions per spec.md §4.15: registerSession, send, broadcast. It is
// the concrete transport boundary the engine's Hooks push through; wire
// protocol and HTTP handshake live in internal/wsgateway.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meerski/arakh/internal/ids"
)

// ErrSessionNotFound is returned when an operation targets an unknown
// session ID.
var ErrSessionNotFound = errors.New("session: not found")

// Session is one connected owner's transport-facing state.
type Session struct {
	ID            ids.SessionId
	OwnerID       ids.OwnerId
	Subscriptions map[ids.FamilyTreeId]struct{}
	CreatedAt     time.Time
	LastSeen      time.Time
}

// Outbound is one message queued for delivery to a session's transport
// worker, grounded on the teacher's ServerMessage envelope.
type Outbound struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// outbox is a session's buffered channel of pending deliveries. Matches the
// teacher's Client.Send channel: bounded, non-blocking, slow consumers drop
// rather than stall the tick loop.
const outboxBuffer = 256

// Manager owns every live session and its subscription set. Each session's
// metadata is also mirrored into Redis as JSON under "session:<id>" when it
// registers (later Subscribe calls are not re-mirrored), so a horizontally
// scaled transport tier could in principle read it;
// this module runs transport in-process, so Redis here plays the same role
// the teacher's SessionManager gives it for session metadata, not as a
// strict requirement for single-process correctness.
type Manager struct {
	mu       sync.RWMutex
	sessions map[ids.SessionId]*Session
	outboxes map[ids.SessionId]chan Outbound
	byOwner  map[ids.OwnerId]map[ids.SessionId]struct{}

	redis *redis.Client
	ttl   time.Duration
}

// NewManager returns a session manager. redisClient may be nil, in which
// case session mirroring is skipped (useful for tests and single-box
// deployments without Redis configured).
func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{
		sessions: make(map[ids.SessionId]*Session),
		outboxes: make(map[ids.SessionId]chan Outbound),
		byOwner:  make(map[ids.OwnerId]map[ids.SessionId]struct{}),
		redis:    redisClient,
		ttl:      24 * time.Hour,
	}
}

// RegisterSession creates a session for an already-authenticated owner
// (token verification happens one layer up, in internal/wsgateway's
// handshake, via this package's TokenManager) and returns its outbox.
func (m *Manager) RegisterSession(ctx context.Context, ownerID ids.OwnerId) (*Session, <-chan Outbound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := ids.NewSessionId()
	now := time.Now().UTC()
	sess := &Session{
		ID:            id,
		OwnerID:       ownerID,
		Subscriptions: make(map[ids.FamilyTreeId]struct{}),
		CreatedAt:     now,
		LastSeen:      now,
	}
	outbox := make(chan Outbound, outboxBuffer)

	m.sessions[id] = sess
	m.outboxes[id] = outbox
	if m.byOwner[ownerID] == nil {
		m.byOwner[ownerID] = make(map[ids.SessionId]struct{})
	}
	m.byOwner[ownerID][id] = struct{}{}

	if m.redis != nil {
		m.mirrorToRedis(ctx, sess)
	}
	return sess, outbox, nil
}

// Unregister drops a session and closes its outbox.
func (m *Manager) Unregister(id ids.SessionId) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return
	}
	if outbox, ok := m.outboxes[id]; ok {
		close(outbox)
		delete(m.outboxes, id)
	}
	delete(m.sessions, id)
	if owned, ok := m.byOwner[sess.OwnerID]; ok {
		delete(owned, id)
		if len(owned) == 0 {
			delete(m.byOwner, sess.OwnerID)
		}
	}
}

// Subscribe adds a family tree to a session's subscription set, per
// spec.md §4.15 ("owners may subscribe to their families").
func (m *Manager) Subscribe(id ids.SessionId, familyID ids.FamilyTreeId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Subscriptions[familyID] = struct{}{}
	return nil
}

// Send delivers a message to every session owned by ownerID. Non-blocking:
// a full outbox is treated the same way the teacher's Client.SendMessage
// treats a slow consumer, the message is dropped rather than stalling the
// caller (the engine's fanout step must never block on transport).
func (m *Manager) Send(ownerID ids.OwnerId, msgType string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for sessID := range m.byOwner[ownerID] {
		outbox, ok := m.outboxes[sessID]
		if !ok {
			continue
		}
		select {
		case outbox <- Outbound{Type: msgType, Data: data}:
		default:
		}
	}
}

// SendToFamily delivers a message only to sessions subscribed to familyID,
// the routing rule spec.md §4.14 step 9 assigns to intel/mission events.
func (m *Manager) SendToFamily(familyID ids.FamilyTreeId, msgType string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		if _, subscribed := sess.Subscriptions[familyID]; !subscribed {
			continue
		}
		outbox, ok := m.outboxes[sess.ID]
		if !ok {
			continue
		}
		select {
		case outbox <- Outbound{Type: msgType, Data: data}:
		default:
		}
	}
}

// Broadcast delivers a message to every connected session, per spec.md
// §4.14 step 9's "events whose level is not personal go to all connected
// owners".
func (m *Manager) Broadcast(msgType string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, outbox := range m.outboxes {
		select {
		case outbox <- Outbound{Type: msgType, Data: data}:
		default:
		}
	}
}

// Touch refreshes a session's LastSeen timestamp, mirroring the teacher's
// SessionManager.GetSession access-tracking.
func (m *Manager) Touch(id ids.SessionId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		sess.LastSeen = time.Now().UTC()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) mirrorToRedis(ctx context.Context, sess *Session) {
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	key := "session:" + sess.ID.String()
	m.redis.Set(ctx, key, data, m.ttl)
}
