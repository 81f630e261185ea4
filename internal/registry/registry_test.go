package registry

import (
	"errors"
	"sync"
	"testing"
)

// fakePeer records sent frames in place of a live websocket connection.
type fakePeer struct {
	mu     sync.Mutex
	sent   []interface{}
	closed bool
	fail   bool
}

func (p *fakePeer) Send(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("connection closing")
	}
	p.sent = append(p.sent, v)
	return nil
}

func (p *fakePeer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func TestRegister_Lookup(t *testing.T) {
	reg := New()
	peer := &fakePeer{}

	sess, prev := reg.Register("U1", "Alice", "admin", peer)
	if prev != nil {
		t.Fatalf("Expected no prior session, got %+v", prev)
	}
	if sess.Identity != "U1" || sess.DisplayName != "Alice" || sess.Role != "admin" {
		t.Errorf("Unexpected session fields: %+v", sess)
	}
	if sess.ConnID == "" {
		t.Error("Expected a connection id to be assigned")
	}

	got := reg.Lookup("U1")
	if got != sess {
		t.Errorf("Lookup returned %+v, want the registered session", got)
	}
	if reg.Lookup("U2") != nil {
		t.Error("Lookup of unknown identity should return nil")
	}
}

func TestRegister_LastWriterWins(t *testing.T) {
	reg := New()
	first := &fakePeer{}
	second := &fakePeer{}

	old, _ := reg.Register("U1", "Alice", "admin", first)
	sess, prev := reg.Register("U1", "Alice", "admin", second)

	if prev != old {
		t.Fatalf("Expected the first session to be superseded, got %+v", prev)
	}
	if reg.Lookup("U1") != sess {
		t.Error("Lookup should return the newest session")
	}
	if reg.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", reg.Count())
	}

	// The superseded peer no longer owns a session, so its close event
	// must be a no-op.
	if removed := reg.UnregisterPeer(first); removed != nil {
		t.Errorf("Unregistering the superseded peer should be a no-op, removed %+v", removed)
	}
	if reg.Lookup("U1") != sess {
		t.Error("Newest session must survive the old peer's close event")
	}
}

func TestUnregisterPeer_Idempotent(t *testing.T) {
	reg := New()
	peer := &fakePeer{}
	sess, _ := reg.Register("U1", "Alice", "admin", peer)

	if removed := reg.UnregisterPeer(peer); removed != sess {
		t.Fatalf("Expected first unregister to return the session, got %+v", removed)
	}
	if removed := reg.UnregisterPeer(peer); removed != nil {
		t.Errorf("Second unregister should be a no-op, got %+v", removed)
	}
	if reg.Lookup("U1") != nil {
		t.Error("Session should be gone after unregister")
	}
}

func TestAll_SnapshotIsolation(t *testing.T) {
	reg := New()
	p1 := &fakePeer{}
	reg.Register("U1", "Alice", "admin", p1)
	reg.Register("U2", "Bob", "staff", &fakePeer{})

	snapshot := reg.All()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(snapshot))
	}

	// Mutating the registry after the snapshot must not affect it.
	reg.UnregisterPeer(p1)
	if len(snapshot) != 2 {
		t.Errorf("Snapshot changed after mutation: %d entries", len(snapshot))
	}
	if reg.Count() != 1 {
		t.Errorf("Expected 1 live session, got %d", reg.Count())
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			peer := &fakePeer{}
			id := string(rune('A' + n%10))
			reg.Register(id, "user "+id, "worker", peer)
			reg.Lookup(id)
			reg.All()
			reg.UnregisterPeer(peer)
		}(i)
	}
	wg.Wait()
}
