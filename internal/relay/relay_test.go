package relay

import (
	"errors"
	"sync"
	"testing"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/protocol"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
)

type fakePeer struct {
	mu   sync.Mutex
	sent []interface{}
	fail bool
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

func (p *fakePeer) Close() error { return nil }

func TestForward_RecipientOnline(t *testing.T) {
	reg := registry.New()
	r := New(reg)
	peer := &fakePeer{}
	reg.Register("U2", "Bob", "staff", peer)

	r.Forward("U1", "U2", protocol.KindTypingStart)

	peer.mu.Lock()
	defer peer.mu.Unlock()
	if len(peer.sent) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(peer.sent))
	}
	sig, ok := peer.sent[0].(protocol.TypingSignal)
	if !ok || sig.Type != "typing_start" || sig.FromAdminID != "U1" {
		t.Errorf("Unexpected frame: %+v", peer.sent[0])
	}
}

func TestForward_OfflineRecipientDropsSilently(t *testing.T) {
	reg := registry.New()
	r := New(reg)

	// No recipient registered: nothing to assert beyond not panicking,
	// which is the whole contract of the fire-and-forget path.
	r.Forward("U1", "GONE", protocol.KindTypingStop)
}

func TestForward_SendErrorDropsSilently(t *testing.T) {
	reg := registry.New()
	r := New(reg)
	reg.Register("U2", "Bob", "staff", &fakePeer{fail: true})

	r.Forward("U1", "U2", protocol.KindTypingStart)
}
