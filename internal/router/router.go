// Package router delivers direct and broadcast chat messages and tracks
// their delivery state (sent -> delivered -> read).
package router

import (
	"context"
	"log"
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/protocol"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/store"
)

// persistTimeout bounds every store call so a slow database cannot
// wedge delivery to already-connected peers.
const persistTimeout = 3 * time.Second

// fallbackStartID keeps fallback ids clear of any plausible database
// id range so clients never see a collision.
const fallbackStartID = 1 << 40

// Router routes chat messages between live sessions. Message records
// belong to the store and are only ever passed by value.
type Router struct {
	reg      *registry.Registry
	store    store.MessageStore
	fallback *store.MemoryStore
}

// New creates a router over reg persisting to st.
func New(reg *registry.Registry, st store.MessageStore) *Router {
	return &Router{
		reg:      reg,
		store:    st,
		fallback: store.NewMemoryStore(fallbackStartID),
	}
}

// persist appends m, falling back to the in-memory store when the
// primary write fails. Presence and routing keep working either way.
func (r *Router) persist(ctx context.Context, m *model.Message) {
	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	if _, err := r.store.Append(pctx, m); err != nil {
		log.Printf("[router] persistence failed, continuing in-memory: %v", err)
		r.fallback.Append(ctx, m)
	}
}

// SendDirect persists a one-to-one message and pushes it to the
// recipient when online. The sender always gets an acknowledgment:
// message_delivered when the push succeeded, message_sent when the
// recipient is offline. Offline deferral is expected, never an error.
func (r *Router) SendDirect(ctx context.Context, fromID, toID, body string) model.Message {
	msg := model.Message{
		FromID:    fromID,
		ToID:      toID,
		Content:   body,
		Kind:      model.KindText,
		Status:    model.StatusSent,
		CreatedAt: time.Now(),
	}
	r.persist(ctx, &msg)

	recipient := r.reg.Lookup(toID)
	if recipient != nil {
		if err := recipient.Send(protocol.NewNewMessage(withStatus(msg, model.StatusDelivered))); err != nil {
			log.Printf("[router] push to %s failed, message %d stays sent: %v", toID, msg.ID, err)
		} else {
			msg.Status = model.StatusDelivered
			r.markDelivered(ctx, msg.ID)
		}
	}

	if sender := r.reg.Lookup(fromID); sender != nil {
		if err := sender.Send(protocol.NewSendAck(msg)); err != nil {
			log.Printf("[router] ack to %s failed: %v", fromID, err)
		}
	}

	return msg
}

// SendBroadcast persists a one-to-all message and pushes it to every
// online session except the sender. Broadcast has no single recipient
// acknowledgment, so it is marked delivered unconditionally.
func (r *Router) SendBroadcast(ctx context.Context, fromID, body string) model.Message {
	msg := model.Message{
		FromID:    fromID,
		ToID:      model.BroadcastRecipient,
		Content:   body,
		Kind:      model.KindText,
		Status:    model.StatusSent,
		CreatedAt: time.Now(),
	}
	r.persist(ctx, &msg)

	frame := protocol.NewGroupMessage(msg)
	for _, sess := range r.reg.All() {
		if sess.Identity == fromID {
			continue
		}
		if err := sess.Send(frame); err != nil {
			log.Printf("[router] group push to %s failed: %v", sess.Identity, err)
		}
	}

	msg.Status = model.StatusDelivered
	r.markDelivered(ctx, msg.ID)

	if sender := r.reg.Lookup(fromID); sender != nil {
		if err := sender.Send(protocol.NewSendAck(msg)); err != nil {
			log.Printf("[router] ack to %s failed: %v", fromID, err)
		}
	}

	return msg
}

// MarkRead bulk-transitions the reader's messages from peerID to read.
// Ids that fail the ownership predicate are skipped silently, so a
// reader can never settle someone else's messages. The original sender
// is notified when online.
func (r *Router) MarkRead(ctx context.Context, readerID string, ids []int64, peerID string) []int64 {
	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	matched, err := r.store.MarkRead(pctx, readerID, peerID, ids)
	if err != nil {
		log.Printf("[router] mark read for %s failed: %v", readerID, err)
	}
	fbMatched, _ := r.fallback.MarkRead(ctx, readerID, peerID, ids)
	matched = append(matched, fbMatched...)

	if len(matched) == 0 {
		return nil
	}

	if sender := r.reg.Lookup(peerID); sender != nil {
		if err := sender.Send(protocol.NewMessagesRead(matched, readerID)); err != nil {
			log.Printf("[router] messages_read push to %s failed: %v", peerID, err)
		}
	}

	return matched
}

func (r *Router) markDelivered(ctx context.Context, id int64) {
	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	if id >= fallbackStartID {
		r.fallback.MarkDelivered(ctx, id)
		return
	}
	if err := r.store.MarkDelivered(pctx, id); err != nil {
		log.Printf("[router] mark delivered %d failed: %v", id, err)
	}
}

func withStatus(m model.Message, status string) model.Message {
	m.Status = status
	return m
}
