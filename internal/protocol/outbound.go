package protocol

import (
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

// LoginSuccess confirms a registration.
type LoginSuccess struct {
	Type    string `json:"type"`
	AdminID string `json:"adminId"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

func NewLoginSuccess(adminID, name, role string) LoginSuccess {
	return LoginSuccess{Type: "login_success", AdminID: adminID, Name: name, Role: role}
}

// OnlineAdmins carries the current roster.
type OnlineAdmins struct {
	Type   string              `json:"type"`
	Admins []model.RosterEntry `json:"admins"`
}

func NewOnlineAdmins(roster []model.RosterEntry) OnlineAdmins {
	return OnlineAdmins{Type: "online_admins", Admins: roster}
}

// Presence announces a join or leave transition to peers.
type Presence struct {
	Type    string `json:"type"`
	AdminID string `json:"adminId"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
}

func NewUserOnline(e model.RosterEntry) Presence {
	return Presence{Type: "user_online", AdminID: e.Identity, Name: e.DisplayName, Role: e.Role}
}

func NewUserOffline(adminID, name string) Presence {
	return Presence{Type: "user_offline", AdminID: adminID, Name: name}
}

// NewMessage is pushed to the recipient of a direct send.
type NewMessage struct {
	Type        string    `json:"type"`
	MessageID   int64     `json:"messageId"`
	FromAdminID string    `json:"fromAdminId"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewNewMessage(m model.Message) NewMessage {
	return NewMessage{
		Type:        "new_message",
		MessageID:   m.ID,
		FromAdminID: m.FromID,
		Content:     m.Content,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

// SendAck confirms a direct send back to the sender. Status delivered
// maps to message_delivered, status sent to message_sent.
type SendAck struct {
	Type      string `json:"type"`
	MessageID int64  `json:"messageId"`
	ToAdminID string `json:"toAdminId"`
	Status    string `json:"status"`
}

func NewSendAck(m model.Message) SendAck {
	kind := "message_sent"
	if m.Status == model.StatusDelivered {
		kind = "message_delivered"
	}
	return SendAck{Type: kind, MessageID: m.ID, ToAdminID: m.ToID, Status: m.Status}
}

// GroupMessage is pushed to every online peer of a broadcast sender.
type GroupMessage struct {
	Type        string    `json:"type"`
	MessageID   int64     `json:"messageId"`
	FromAdminID string    `json:"fromAdminId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewGroupMessage(m model.Message) GroupMessage {
	return GroupMessage{
		Type:        "group_message",
		MessageID:   m.ID,
		FromAdminID: m.FromID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

// MessagesRead notifies the original sender which of its messages the
// reader acknowledged.
type MessagesRead struct {
	Type       string  `json:"type"`
	MessageIDs []int64 `json:"messageIds"`
	ReaderID   string  `json:"readerId"`
}

func NewMessagesRead(ids []int64, readerID string) MessagesRead {
	return MessagesRead{Type: "messages_read", MessageIDs: ids, ReaderID: readerID}
}

// TypingSignal is the fire-and-forget typing indicator.
type TypingSignal struct {
	Type        string `json:"type"`
	FromAdminID string `json:"fromAdminId"`
}

func NewTypingSignal(kind Kind, fromAdminID string) TypingSignal {
	return TypingSignal{Type: string(kind), FromAdminID: fromAdminID}
}

// RoomParticipant is one member in a video-meeting roster.
type RoomParticipant struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// VideoMeetingJoined confirms a room join to the joiner and carries the
// pre-join participant list so existing attendees render without racing
// the user_joined broadcast.
type VideoMeetingJoined struct {
	Type      string            `json:"type"`
	MeetingID string            `json:"meetingId"`
	Users     []RoomParticipant `json:"users"`
}

func NewVideoMeetingJoined(meetingID string, users []RoomParticipant) VideoMeetingJoined {
	return VideoMeetingJoined{Type: "video_meeting_joined", MeetingID: meetingID, Users: users}
}

// VideoMeetingUsers is the full roster broadcast for a room.
type VideoMeetingUsers struct {
	Type      string            `json:"type"`
	MeetingID string            `json:"meetingId"`
	Users     []RoomParticipant `json:"users"`
}

func NewVideoMeetingUsers(meetingID string, users []RoomParticipant) VideoMeetingUsers {
	return VideoMeetingUsers{Type: "video_meeting_users", MeetingID: meetingID, Users: users}
}

// RoomMembership announces a user joining or leaving a meeting.
type RoomMembership struct {
	Type      string `json:"type"`
	MeetingID string `json:"meetingId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName,omitempty"`
}

func NewUserJoined(meetingID, userID, userName string) RoomMembership {
	return RoomMembership{Type: "user_joined", MeetingID: meetingID, UserID: userID, UserName: userName}
}

func NewUserLeft(meetingID, userID string) RoomMembership {
	return RoomMembership{Type: "user_left", MeetingID: meetingID, UserID: userID}
}

// ChatMessage is room-scoped chat/signaling text.
type ChatMessage struct {
	Type       string    `json:"type"`
	MeetingID  string    `json:"meetingId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

func NewChatMessage(meetingID, senderID, senderName, message string) ChatMessage {
	return ChatMessage{
		Type:       "chat_message",
		MeetingID:  meetingID,
		SenderID:   senderID,
		SenderName: senderName,
		Message:    message,
		SentAt:     time.Now(),
	}
}

// ErrorFrame carries a human-readable failure reason to the offending
// connection only.
type ErrorFrame struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func NewError(reason string) ErrorFrame {
	return ErrorFrame{Type: "error", Reason: reason}
}
