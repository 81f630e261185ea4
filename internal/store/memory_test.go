package store

import (
	"context"
	"testing"
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

func appendMessage(t *testing.T, s *MemoryStore, from, to, content string) int64 {
	t.Helper()
	id, err := s.Append(context.Background(), &model.Message{
		FromID:    from,
		ToID:      to,
		Content:   content,
		Kind:      model.KindText,
		Status:    model.StatusSent,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	return id
}

func TestMemoryStore_MonotonicIDs(t *testing.T) {
	s := NewMemoryStore(1)
	a := appendMessage(t, s, "U1", "U2", "one")
	b := appendMessage(t, s, "U1", "U2", "two")
	if b <= a {
		t.Errorf("IDs must increase: got %d then %d", a, b)
	}
}

func TestMemoryStore_MarkReadOwnership(t *testing.T) {
	s := NewMemoryStore(1)
	mine := appendMessage(t, s, "U1", "U2", "for U2")
	other := appendMessage(t, s, "U3", "U2", "different sender")
	outbound := appendMessage(t, s, "U2", "U1", "sent by the reader")

	matched, err := s.MarkRead(context.Background(), "U2", "U1", []int64{mine, other, outbound, 404})
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if len(matched) != 1 || matched[0] != mine {
		t.Errorf("Expected only %d to match, got %v", mine, matched)
	}

	m, _ := s.Get(mine)
	if m.Status != model.StatusRead || m.ReadAt == nil {
		t.Errorf("Matched message not read: %+v", m)
	}
	for _, id := range []int64{other, outbound} {
		m, _ := s.Get(id)
		if m.Status == model.StatusRead {
			t.Errorf("Message %d must not be readable by U2 against peer U1", id)
		}
	}
}

func TestMemoryStore_StatusMonotone(t *testing.T) {
	s := NewMemoryStore(1)
	id := appendMessage(t, s, "U1", "U2", "hi")

	s.MarkDelivered(context.Background(), id)
	s.MarkRead(context.Background(), "U2", "U1", []int64{id})

	// Forward transitions after read are ignored.
	s.MarkDelivered(context.Background(), id)
	matched, _ := s.MarkRead(context.Background(), "U2", "U1", []int64{id})
	if matched != nil {
		t.Errorf("Re-reading a read message should match nothing, got %v", matched)
	}

	m, _ := s.Get(id)
	if m.Status != model.StatusRead {
		t.Errorf("Status regressed to %q", m.Status)
	}
}

func TestMemoryStore_History(t *testing.T) {
	s := NewMemoryStore(1)
	appendMessage(t, s, "U1", "U2", "first")
	appendMessage(t, s, "U2", "U1", "second")
	appendMessage(t, s, "U1", "U3", "unrelated")

	history, err := s.History(context.Background(), "U1", "U2", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	if history[0].Content != "first" || history[1].Content != "second" {
		t.Errorf("History out of order: %+v", history)
	}
}

func TestMemoryStore_HistoryKeepsNewestWindow(t *testing.T) {
	s := NewMemoryStore(1)
	appendMessage(t, s, "U1", "U2", "first")
	appendMessage(t, s, "U2", "U1", "second")
	appendMessage(t, s, "U1", "U2", "third")

	// When the conversation exceeds the cap, the window holds the most
	// recent messages, oldest first, the same as the MySQL store.
	history, err := s.History(context.Background(), "U1", "U2", 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	if history[0].Content != "second" || history[1].Content != "third" {
		t.Errorf("Expected the newest window, got %+v", history)
	}
}

func TestMemoryStore_HistoryHighStartID(t *testing.T) {
	// A fallback-seeded store scans only its own id range.
	s := NewMemoryStore(1 << 40)
	id := appendMessage(t, s, "U1", "U2", "fallback record")
	if id < 1<<40 {
		t.Fatalf("Expected seeded id range, got %d", id)
	}

	history, err := s.History(context.Background(), "U1", "U2", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "fallback record" {
		t.Errorf("Unexpected history: %+v", history)
	}
}

func TestStaticVerifier(t *testing.T) {
	v := StaticVerifier{
		"U1": {DisplayName: "Alice", Role: "admin"},
	}

	name, role, ok, err := v.Verify(context.Background(), "U1")
	if err != nil || !ok || name != "Alice" || role != "admin" {
		t.Errorf("Unexpected result: %q %q %v %v", name, role, ok, err)
	}

	_, _, ok, _ = v.Verify(context.Background(), "UNKNOWN")
	if ok {
		t.Error("Unknown identity must not verify")
	}

	// The empty verifier accepts any non-blank identity.
	open := StaticVerifier{}
	_, role, ok, _ = open.Verify(context.Background(), "anyone")
	if !ok || role != "worker" {
		t.Errorf("Open verifier should accept with worker role, got %q %v", role, ok)
	}
	_, _, ok, _ = open.Verify(context.Background(), "   ")
	if ok {
		t.Error("Blank identity must not verify")
	}
}
