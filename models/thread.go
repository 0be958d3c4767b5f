package models

// Thread is a conversation (group or direct) identified by a stable UUID.
// The same fixed field set doubles as the wire-level thread summary; the
// full local attribute set never crosses the wire.
type Thread struct {
	ID             string   `json:"id"`
	Distribution   string   `json:"distribution"`
	LastMessage    string   `json:"lastMessage"`
	Left           bool     `json:"left"`
	PendingMembers []string `json:"pendingMembers,omitempty"`
	Pinned         bool     `json:"pinned"`
	Position       int      `json:"position"`
	Sender         string   `json:"sender"`
	Started        int64    `json:"started"`   // epoch milliseconds
	Timestamp      int64    `json:"timestamp"` // last activity, epoch milliseconds
	Type           string   `json:"type"`
	UnreadCount    int      `json:"unreadCount"`
}
