package ids

import (
	"encoding/json"
	"testing"
)

func TestOwnerId_JSONRoundTrips(t *testing.T) {
	owner := NewOwnerId()

	data, err := json.Marshal(owner)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got OwnerId
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != owner {
		t.Errorf("expected %v, got %v", owner, got)
	}
}

func TestSessionId_JSONRoundTrips(t *testing.T) {
	sess := NewSessionId()

	data, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got SessionId
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != sess {
		t.Errorf("expected %v, got %v", sess, got)
	}
}

func TestArena_NextNeverReturnsZero(t *testing.T) {
	var a Arena
	if id := a.Next(); id == 0 {
		t.Fatal("expected the first minted id to be non-zero")
	}
	first := a.Next()
	second := a.Next()
	if first == second {
		t.Fatal("expected successive Next calls to return distinct ids")
	}
}
