package handler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/protocol"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
)

const verifyTimeout = 3 * time.Second

// connState is the per-connection dispatch state: the peer handle plus,
// after a successful login, the registered session.
type connState struct {
	handler *Handler
	peer    *wsPeer
	addr    string
	session *registry.Session
}

func (c *connState) sendError(reason string) {
	if err := c.peer.Send(protocol.NewError(reason)); err != nil {
		log.Printf("[WebSocket] error frame to %s failed: %v", c.addr, err)
	}
}

// dispatch decodes one frame and routes it by kind. Per-connection
// failures stay on this connection: a malformed frame or a failed
// action yields an error frame here and nothing else.
func (c *connState) dispatch(raw []byte) {
	in, err := protocol.Decode(raw)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownKind) {
			c.sendError("unknown message type")
		} else {
			c.sendError("invalid message format")
		}
		return
	}

	switch in.Type {
	case protocol.KindAdminLogin:
		c.handleLogin(in, true)
	case protocol.KindAnonymousLogin:
		c.handleLogin(in, false)
	case protocol.KindGetOnlineAdmins:
		c.handleGetOnlineAdmins()
	case protocol.KindSendMessage:
		c.handleSendMessage(in)
	case protocol.KindSendGroupMessage:
		c.handleSendGroupMessage(in)
	case protocol.KindMarkAsRead:
		c.handleMarkAsRead(in)
	case protocol.KindTypingStart, protocol.KindTypingStop:
		c.handleTyping(in)
	case protocol.KindJoinVideoMeeting:
		c.handleJoinMeeting(in)
	case protocol.KindLeaveVideoMeeting:
		c.handleLeaveMeeting(in)
	case protocol.KindSendChatMessage:
		c.handleRoomChat(in)
	}
}

// requireSession guards every operational frame: nothing mutates state
// before a successful login.
func (c *connState) requireSession() bool {
	if c.session == nil {
		c.sendError("not authenticated")
		return false
	}
	return true
}

// sendLoginFrames pushes the login confirmation and the roster
// snapshot so the client renders peers that joined before it did.
func (c *connState) sendLoginFrames(sess *registry.Session) {
	if err := c.peer.Send(protocol.NewLoginSuccess(sess.Identity, sess.DisplayName, sess.Role)); err != nil {
		log.Printf("[WebSocket] login_success to %s failed: %v", sess.Identity, err)
	}
	if err := c.peer.Send(protocol.NewOnlineAdmins(c.handler.Presence.Snapshot())); err != nil {
		log.Printf("[WebSocket] online_admins to %s failed: %v", sess.Identity, err)
	}
}

func (c *connState) handleLogin(in protocol.Inbound, verified bool) {
	if in.AdminID == "" {
		c.sendError("adminId is required")
		return
	}

	// A duplicate login for the identity this connection already holds
	// is idempotent: re-send the confirmation, touch nothing.
	if c.session != nil && c.session.Identity == in.AdminID {
		c.sendLoginFrames(c.session)
		return
	}

	name := in.Name
	role := "user"
	if verified {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()

		vName, vRole, ok, err := c.handler.Verifier.Verify(ctx, in.AdminID)
		if err != nil {
			log.Printf("[WebSocket] identity check for %s failed: %v", in.AdminID, err)
			c.sendError("authentication failed")
			return
		}
		if !ok {
			c.sendError("authentication failed")
			return
		}
		if vName != "" {
			name = vName
		}
		role = vRole
	}
	if name == "" {
		name = in.AdminID
	}

	// A connection switching identities releases the one it holds
	// first, so no roster entry or room membership outlives its peer.
	if c.session != nil {
		if old := c.handler.Registry.UnregisterPeer(c.peer); old != nil {
			c.handler.Rooms.LeaveAll(old.Identity)
			c.handler.Presence.AnnounceLeave(old.Identity, old.DisplayName)
		}
		c.session = nil
	}

	sess, prev := c.handler.Registry.Register(in.AdminID, name, role, c.peer)
	c.session = sess
	if prev != nil && prev.Peer() != c.peer {
		// Reconnect from a new tab: the superseded session leaves its
		// rooms and its connection is closed here; that connection's own
		// close event then finds no session and stays quiet.
		c.handler.Rooms.LeaveAll(prev.Identity)
		prev.Close()
	}

	c.sendLoginFrames(sess)

	c.handler.Presence.AnnounceJoin(sess)
	log.Printf("[WebSocket] %s logged in as %s. Total clients: %d", sess.Identity, sess.Role, c.handler.Registry.Count())
}

func (c *connState) handleGetOnlineAdmins() {
	if !c.requireSession() {
		return
	}
	if err := c.peer.Send(protocol.NewOnlineAdmins(c.handler.Presence.Snapshot())); err != nil {
		log.Printf("[WebSocket] online_admins to %s failed: %v", c.session.Identity, err)
	}
}

func (c *connState) handleSendMessage(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if in.ToAdminID == "" || in.Content == "" {
		c.sendError("toAdminId and content are required")
		return
	}
	c.handler.Router.SendDirect(context.Background(), c.session.Identity, in.ToAdminID, in.Content)
}

func (c *connState) handleSendGroupMessage(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if in.Content == "" {
		c.sendError("content is required")
		return
	}
	c.handler.Router.SendBroadcast(context.Background(), c.session.Identity, in.Content)
}

func (c *connState) handleMarkAsRead(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if len(in.MessageIDs) == 0 || in.FromAdminID == "" {
		c.sendError("messageIds and fromAdminId are required")
		return
	}
	c.handler.Router.MarkRead(context.Background(), c.session.Identity, in.MessageIDs, in.FromAdminID)
}

func (c *connState) handleTyping(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if in.ToAdminID == "" {
		// Even the fire-and-forget path rejects a frame with no target.
		c.sendError("toAdminId is required")
		return
	}
	c.handler.Relay.Forward(c.session.Identity, in.ToAdminID, in.Type)
}

func (c *connState) handleJoinMeeting(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if in.MeetingID == "" {
		c.sendError("meetingId is required")
		return
	}

	existing := c.handler.Rooms.Join(in.MeetingID, c.session)
	if err := c.peer.Send(protocol.NewVideoMeetingJoined(in.MeetingID, existing)); err != nil {
		log.Printf("[WebSocket] video_meeting_joined to %s failed: %v", c.session.Identity, err)
	}

	// Full roster broadcast keeps every attendee's participant list in
	// step after the join.
	roster := c.handler.Rooms.Participants(in.MeetingID)
	c.handler.Rooms.Broadcast(in.MeetingID, protocol.NewVideoMeetingUsers(in.MeetingID, roster), "")
}

func (c *connState) handleLeaveMeeting(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if in.MeetingID == "" {
		c.sendError("meetingId is required")
		return
	}
	c.handler.Rooms.Leave(in.MeetingID, c.session.Identity)
}

func (c *connState) handleRoomChat(in protocol.Inbound) {
	if !c.requireSession() {
		return
	}
	if in.MeetingID == "" || in.Message == "" {
		c.sendError("meetingId and message are required")
		return
	}
	frame := protocol.NewChatMessage(in.MeetingID, c.session.Identity, c.session.DisplayName, in.Message)
	c.handler.Rooms.Broadcast(in.MeetingID, frame, c.session.Identity)
}
