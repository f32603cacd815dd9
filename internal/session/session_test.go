package session

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/meerski/arakh/internal/ids"
)

func TestRegisterSessionAndSend_DeliversToOutbox(t *testing.T) {
	mgr := NewManager(nil)
	owner := ids.NewOwnerId()

	sess, outbox, err := mgr.RegisterSession(context.Background(), owner)
	if err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}
	if mgr.Count() != 1 {
		t.Fatalf("expected 1 live session, got %d", mgr.Count())
	}

	mgr.Send(owner, "greeting", map[string]string{"hello": "world"})

	select {
	case msg := <-outbox:
		if msg.Type != "greeting" {
			t.Errorf("expected type greeting, got %s", msg.Type)
		}
	default:
		t.Fatal("expected a message in the outbox")
	}

	mgr.Unregister(sess.ID)
	if mgr.Count() != 0 {
		t.Errorf("expected 0 live sessions after unregister, got %d", mgr.Count())
	}
}

func TestSendToFamily_OnlyReachesSubscribedSessions(t *testing.T) {
	mgr := NewManager(nil)
	ownerA := ids.NewOwnerId()
	ownerB := ids.NewOwnerId()

	sessA, outboxA, _ := mgr.RegisterSession(context.Background(), ownerA)
	_, outboxB, _ := mgr.RegisterSession(context.Background(), ownerB)

	family := ids.FamilyTreeId(1)
	if err := mgr.Subscribe(sessA.ID, family); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	mgr.SendToFamily(family, "intel_update", "secret")

	select {
	case <-outboxA:
	default:
		t.Error("expected subscribed session A to receive the family message")
	}
	select {
	case <-outboxB:
		t.Error("unsubscribed session B should not receive the family message")
	default:
	}
}

func TestBroadcast_ReachesEverySession(t *testing.T) {
	mgr := NewManager(nil)
	_, outbox1, _ := mgr.RegisterSession(context.Background(), ids.NewOwnerId())
	_, outbox2, _ := mgr.RegisterSession(context.Background(), ids.NewOwnerId())

	mgr.Broadcast("world_event", "dawn")

	for i, outbox := range []<-chan Outbound{outbox1, outbox2} {
		select {
		case <-outbox:
		default:
			t.Errorf("expected session %d to receive the broadcast", i)
		}
	}
}

func TestRegisterSession_MirrorsSessionToRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mgr := NewManager(client)
	owner := ids.NewOwnerId()

	sess, _, err := mgr.RegisterSession(context.Background(), owner)
	if err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}

	key := "session:" + sess.ID.String()
	raw, err := mr.Get(key)
	if err != nil {
		t.Fatalf("expected session mirrored to redis under %q: %v", key, err)
	}
	if !strings.Contains(raw, owner.String()) {
		t.Errorf("expected mirrored session to reference owner %s, got %s", owner, raw)
	}

	ttl := mr.TTL(key)
	if ttl <= 0 {
		t.Errorf("expected mirrored session to carry a TTL, got %v", ttl)
	}
}

func TestTokenManager_IssueAndValidateRoundTrips(t *testing.T) {
	tm := NewTokenManager([]byte("a-sufficiently-long-signing-key-for-hs256"))
	owner := ids.NewOwnerId()

	token, err := tm.IssueToken(owner)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	got, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if got != owner {
		t.Errorf("expected owner %v, got %v", owner, got)
	}
}

func TestTokenManager_RejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager([]byte("a-sufficiently-long-signing-key-for-hs256"))
	token, err := tm.IssueToken(ids.NewOwnerId())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tampered := token + "x"
	if _, err := tm.ValidateToken(tampered); err == nil {
		t.Error("expected a tampered token to fail validation")
	}
}
