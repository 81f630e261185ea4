package model

import "time"

// Message status lifecycle. Transitions only move forward:
// sent -> delivered -> read.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// Message kinds.
const (
	KindText   = "text"
	KindSystem = "system"
)

// BroadcastRecipient is the ToID sentinel for one-to-all messages.
const BroadcastRecipient = "all"

var statusRank = map[string]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// StatusAdvances reports whether moving from -> next is a forward
// transition. A message already read never regresses.
func StatusAdvances(from, next string) bool {
	a, okA := statusRank[from]
	b, okB := statusRank[next]
	return okA && okB && b > a
}

// Message represents one persisted chat message
type Message struct {
	ID        int64      `json:"id"`
	FromID    string     `json:"fromAdminId"`
	ToID      string     `json:"toAdminId"`
	Content   string     `json:"content"`
	Kind      string     `json:"kind"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// RosterEntry is the presence projection of a live Session,
// recomputed from the registry on demand
type RosterEntry struct {
	Identity    string `json:"adminId"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}
