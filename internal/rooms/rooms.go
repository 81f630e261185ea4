// Package rooms manages ephemeral named groups for video-meeting
// signaling and chat. Rooms exist exactly while they have members:
// created on first join, garbage-collected on last leave.
package rooms

import (
	"log"
	"sync"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/protocol"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
)

// Manager holds the room membership sets. Mutations come only from the
// connection dispatch path; the mutex covers racing connections.
type Manager struct {
	mu      sync.RWMutex
	members map[string]map[string]*registry.Session // roomID -> identity -> session
}

// New creates an empty manager.
func New() *Manager {
	return &Manager{members: make(map[string]map[string]*registry.Session)}
}

// Join adds sess to the room, creating it on first join, and returns
// the pre-join participant list so the joiner renders existing
// attendees without racing the user_joined broadcast. Joining twice is
// a no-op beyond re-sending the confirmation; existing members are
// notified only on a genuine join.
func (m *Manager) Join(roomID string, sess *registry.Session) []protocol.RoomParticipant {
	m.mu.Lock()
	room, ok := m.members[roomID]
	if !ok {
		room = make(map[string]*registry.Session)
		m.members[roomID] = room
	}
	_, already := room[sess.Identity]

	existing := make([]protocol.RoomParticipant, 0, len(room))
	var peers []*registry.Session
	for id, member := range room {
		if id == sess.Identity {
			continue
		}
		existing = append(existing, protocol.RoomParticipant{UserID: member.Identity, UserName: member.DisplayName})
		peers = append(peers, member)
	}

	room[sess.Identity] = sess
	m.mu.Unlock()

	if !already {
		frame := protocol.NewUserJoined(roomID, sess.Identity, sess.DisplayName)
		for _, peer := range peers {
			if err := peer.Send(frame); err != nil {
				log.Printf("[rooms] user_joined push to %s failed: %v", peer.Identity, err)
			}
		}
	}

	return existing
}

// Leave removes the member and reports whether it was present. Unknown
// rooms and members are a no-op, so duplicate leaves are harmless. An
// emptied room is deleted.
func (m *Manager) Leave(roomID, identity string) bool {
	m.mu.Lock()
	room, ok := m.members[roomID]
	if !ok {
		m.mu.Unlock()
		return false
	}
	if _, present := room[identity]; !present {
		m.mu.Unlock()
		return false
	}
	delete(room, identity)
	if len(room) == 0 {
		delete(m.members, roomID)
	}
	m.mu.Unlock()

	m.Broadcast(roomID, protocol.NewUserLeft(roomID, identity), "")
	return true
}

// LeaveAll removes identity from every room it joined and returns the
// affected room ids. Driven by the connection-close event so cleanup
// runs exactly once per disconnect.
func (m *Manager) LeaveAll(identity string) []string {
	m.mu.RLock()
	var joined []string
	for roomID, room := range m.members {
		if _, ok := room[identity]; ok {
			joined = append(joined, roomID)
		}
	}
	m.mu.RUnlock()

	for _, roomID := range joined {
		m.Leave(roomID, identity)
	}
	return joined
}

// Broadcast pushes frame to every member except excludeIdentity. A
// room with no members is a legal no-op: late signaling into a
// just-emptied room must not fail the caller. A member whose push
// errors is treated as an implicit future leave; its disconnect event
// performs the real cleanup.
func (m *Manager) Broadcast(roomID string, frame interface{}, excludeIdentity string) {
	m.mu.RLock()
	room := m.members[roomID]
	targets := make([]*registry.Session, 0, len(room))
	for id, member := range room {
		if id == excludeIdentity {
			continue
		}
		targets = append(targets, member)
	}
	m.mu.RUnlock()

	for _, member := range targets {
		if err := member.Send(frame); err != nil {
			log.Printf("[rooms] push to %s in %s failed: %v", member.Identity, roomID, err)
		}
	}
}

// Participants returns the current roster of a room.
func (m *Manager) Participants(roomID string) []protocol.RoomParticipant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room := m.members[roomID]
	out := make([]protocol.RoomParticipant, 0, len(room))
	for _, member := range room {
		out = append(out, protocol.RoomParticipant{UserID: member.Identity, UserName: member.DisplayName})
	}
	return out
}

// MemberCount returns the number of members in a room, zero for rooms
// that do not exist.
func (m *Manager) MemberCount(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.members[roomID])
}
