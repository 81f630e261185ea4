// Package presence derives the online roster from the connection
// registry and announces join/leave transitions to peers.
package presence

import (
	"log"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/protocol"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
)

// Tracker broadcasts presence events. It never writes to the registry.
type Tracker struct {
	reg *registry.Registry
}

// New creates a tracker over reg.
func New(reg *registry.Registry) *Tracker {
	return &Tracker{reg: reg}
}

// Snapshot returns the current roster so a newly joined client can
// render existing peers without waiting for future join events.
func (t *Tracker) Snapshot() []model.RosterEntry {
	sessions := t.reg.All()
	roster := make([]model.RosterEntry, 0, len(sessions))
	for _, s := range sessions {
		roster = append(roster, model.RosterEntry{
			Identity:    s.Identity,
			DisplayName: s.DisplayName,
			Role:        s.Role,
			Status:      "online",
		})
	}
	return roster
}

// AnnounceJoin broadcasts user_online to every other live session.
// Must run after the registry write. Best-effort: a failed push to one
// peer never aborts delivery to the rest.
func (t *Tracker) AnnounceJoin(sess *registry.Session) {
	frame := protocol.NewUserOnline(model.RosterEntry{
		Identity:    sess.Identity,
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
		Status:      "online",
	})

	for _, peer := range t.reg.All() {
		if peer.Identity == sess.Identity {
			continue
		}
		if err := peer.Send(frame); err != nil {
			log.Printf("[presence] user_online push to %s failed: %v", peer.Identity, err)
		}
	}
}

// AnnounceLeave broadcasts user_offline. Tolerates identities that are
// no longer (or were never) in the roster, so double-disconnects are
// harmless.
func (t *Tracker) AnnounceLeave(identity, displayName string) {
	frame := protocol.NewUserOffline(identity, displayName)

	for _, peer := range t.reg.All() {
		if peer.Identity == identity {
			continue
		}
		if err := peer.Send(frame); err != nil {
			log.Printf("[presence] user_offline push to %s failed: %v", peer.Identity, err)
		}
	}
}
