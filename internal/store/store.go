// Package store holds the persistence collaborators of the messaging
// core: the message record store and the identity verifier. The core
// talks to both through narrow interfaces so it carries no schema
// coupling.
package store

import (
	"context"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

// MessageStore appends and mutates message records. IDs are assigned at
// append time and increase monotonically per deployment.
type MessageStore interface {
	// Append persists m in its current status and returns the assigned id.
	Append(ctx context.Context, m *model.Message) (int64, error)

	// MarkDelivered advances a sent message to delivered once it has been
	// pushed to its recipient. Forward-only; later statuses are untouched.
	MarkDelivered(ctx context.Context, id int64) error

	// MarkRead transitions the named messages to read where the sender is
	// peerID, the recipient is readerID, and the message is not already
	// read. Returns the ids that actually matched; non-matching ids are
	// silently skipped.
	MarkRead(ctx context.Context, readerID, peerID string, ids []int64) ([]int64, error)

	// History returns the most recent messages exchanged between a and b
	// (either direction), oldest first.
	History(ctx context.Context, a, b string, limit int) ([]model.Message, error)
}

// IdentityVerifier checks an identity against the platform's user
// records. ok is false when the identity is unknown; err is reserved
// for lookup failures.
type IdentityVerifier interface {
	Verify(ctx context.Context, identity string) (displayName, role string, ok bool, err error)
}
