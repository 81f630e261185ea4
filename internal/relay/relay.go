// Package relay forwards transient signals (typing indicators) between
// sessions. By design this is the only fire-and-forget path in the
// system: nothing is persisted, offline recipients drop the signal
// silently, and senders are never told about a miss.
package relay

import (
	"github.com/newtonsmarsher1/uailimited-sub001/internal/protocol"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
)

// Relay forwards ephemeral signals through the registry.
type Relay struct {
	reg *registry.Registry
}

// New creates a relay over reg.
func New(reg *registry.Registry) *Relay {
	return &Relay{reg: reg}
}

// Forward pushes a typing signal to the recipient if online.
func (r *Relay) Forward(fromID, toID string, kind protocol.Kind) {
	recipient := r.reg.Lookup(toID)
	if recipient == nil {
		return
	}
	// Send errors are dropped too: a closing connection loses the
	// indicator, which is the contract.
	_ = recipient.Send(protocol.NewTypingSignal(kind, fromID))
}
