package store

import (
	"context"
	"sync"
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

// MemoryStore keeps message records in process memory. It backs tests
// and serves as the router's degradation fallback when the database
// rejects a write.
type MemoryStore struct {
	mu       sync.Mutex
	startID  int64
	nextID   int64
	messages map[int64]*model.Message
}

// NewMemoryStore creates an empty store. IDs start at startID so a
// fallback store can be seeded clear of the database's id range.
func NewMemoryStore(startID int64) *MemoryStore {
	if startID < 1 {
		startID = 1
	}
	return &MemoryStore{startID: startID, nextID: startID, messages: make(map[int64]*model.Message)}
}

// Append assigns the next id and stores a copy of m.
func (s *MemoryStore) Append(_ context.Context, m *model.Message) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID
	s.nextID++

	stored := *m
	s.messages[stored.ID] = &stored
	return stored.ID, nil
}

// MarkRead applies the ownership predicate and the forward-only status
// rule; ids that fail either are skipped without error.
func (s *MemoryStore) MarkRead(_ context.Context, readerID, peerID string, ids []int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var matched []int64
	for _, id := range ids {
		m, ok := s.messages[id]
		if !ok || m.FromID != peerID || m.ToID != readerID {
			continue
		}
		if !model.StatusAdvances(m.Status, model.StatusRead) {
			continue
		}
		m.Status = model.StatusRead
		m.ReadAt = &now
		matched = append(matched, id)
	}
	return matched, nil
}

// History returns the latest messages between a and b, oldest first,
// matching the MySQL store's newest-window semantics.
func (s *MemoryStore) History(_ context.Context, a, b string, limit int) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Message
	for id := s.nextID - 1; id >= s.startID && len(out) < limit; id-- {
		m, ok := s.messages[id]
		if !ok {
			continue
		}
		if (m.FromID == a && m.ToID == b) || (m.FromID == b && m.ToID == a) {
			out = append(out, *m)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Get returns a copy of the stored message, for tests.
func (s *MemoryStore) Get(id int64) (model.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return model.Message{}, false
	}
	return *m, true
}

// MarkDelivered advances a sent message to delivered. Messages already
// delivered or read are left alone.
func (s *MemoryStore) MarkDelivered(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.messages[id]; ok && model.StatusAdvances(m.Status, model.StatusDelivered) {
		m.Status = model.StatusDelivered
	}
	return nil
}
