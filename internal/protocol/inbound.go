// Package protocol defines the JSON frames exchanged with admin-portal
// clients over the websocket: a closed set of inbound kinds and the
// outbound frames that mirror them.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies an inbound frame.
type Kind string

// Inbound frame kinds. The set is closed: anything else is rejected at
// decode time so dispatch switches stay exhaustive.
const (
	KindAdminLogin        Kind = "admin_login"
	KindAnonymousLogin    Kind = "anonymous_login"
	KindGetOnlineAdmins   Kind = "get_online_admins"
	KindSendMessage       Kind = "send_message"
	KindSendGroupMessage  Kind = "send_group_message"
	KindMarkAsRead        Kind = "mark_as_read"
	KindTypingStart       Kind = "typing_start"
	KindTypingStop        Kind = "typing_stop"
	KindJoinVideoMeeting  Kind = "join_video_meeting"
	KindLeaveVideoMeeting Kind = "leave_video_meeting"
	KindSendChatMessage   Kind = "send_chat_message"
)

var knownKinds = map[Kind]bool{
	KindAdminLogin:        true,
	KindAnonymousLogin:    true,
	KindGetOnlineAdmins:   true,
	KindSendMessage:       true,
	KindSendGroupMessage:  true,
	KindMarkAsRead:        true,
	KindTypingStart:       true,
	KindTypingStop:        true,
	KindJoinVideoMeeting:  true,
	KindLeaveVideoMeeting: true,
	KindSendChatMessage:   true,
}

// ErrMalformedFrame is returned for payloads that do not parse as a
// JSON frame object.
var ErrMalformedFrame = errors.New("malformed frame")

// ErrUnknownKind is returned for parseable frames whose type is not in
// the inbound vocabulary.
var ErrUnknownKind = errors.New("unknown message type")

// Inbound is the decoded union of every inbound frame. Only the fields
// belonging to Type are meaningful.
type Inbound struct {
	Type Kind `json:"type"`

	// admin_login / anonymous_login
	AdminID string `json:"adminId"`
	Name    string `json:"name"`

	// send_message / send_group_message
	ToAdminID string `json:"toAdminId"`
	Content   string `json:"content"`

	// mark_as_read
	MessageIDs  []int64 `json:"messageIds"`
	FromAdminID string  `json:"fromAdminId"`

	// video meetings
	MeetingID string `json:"meetingId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Message   string `json:"message"`
}

// Decode parses a raw frame and validates its kind.
func Decode(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if !knownKinds[in.Type] {
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownKind, in.Type)
	}
	return in, nil
}
