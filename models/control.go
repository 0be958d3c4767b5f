package models

// Control exchange discriminators carried in the envelope's `control` field.
const (
	ControlSyncRequest  = "syncRequest"
	ControlSyncResponse = "syncResponse"
)

// SyncType selects the sync variant a request asks its peers to fulfill.
type SyncType string

const (
	SyncTypeContentHistory SyncType = "contentHistory"
	SyncTypeDeviceInfo     SyncType = "deviceInfo"
)

// KnownThread is one entry of the requester's thread manifest: the thread id
// plus the latest activity timestamp (epoch milliseconds) the requester holds.
type KnownThread struct {
	ID           string `json:"id"`
	LastActivity int64  `json:"lastActivity"`
}

// SyncRequest is the payload of a `syncRequest` control exchange. Devices is
// priority-ordered; responders stagger their start by their own index in it.
// The Known* manifests are only present for contentHistory requests and act
// as an exclusion list for the responders.
type SyncRequest struct {
	Type    SyncType `json:"type"`
	Devices []string `json:"devices"`
	TTL     int64    `json:"ttl"` // milliseconds

	KnownThreads  []KnownThread `json:"knownThreads,omitempty"`
	KnownMessages []string      `json:"knownMessages,omitempty"`
	KnownContacts []string      `json:"knownContacts,omitempty"`
}

// SyncResponse is the payload of a `syncResponse` control exchange, addressed
// back to the device that issued the request. Any subset of the content
// fields may be present; DeviceInfo is only set for deviceInfo sessions.
type SyncResponse struct {
	Device string `json:"device"`

	Threads  []Thread        `json:"threads,omitempty"`
	Messages []MessageRecord `json:"messages,omitempty"`
	Contacts []string        `json:"contacts,omitempty"`

	DeviceInfo *DeviceInfo `json:"deviceInfo,omitempty"`
}

// Envelope is the unit the control-exchange transport moves between devices.
// ThreadID doubles as the session (correlation) id binding a request to all
// of its responses. Attachment binary payloads ride out of band here instead
// of being inlined in the response body; receivers re-attach them by index.
type Envelope struct {
	ThreadID     string   `json:"id"`
	Control      string   `json:"control"`
	SenderDevice string   `json:"senderDevice"`
	Sent         int64    `json:"sent"` // epoch milliseconds
	Devices      []string `json:"devices,omitempty"`

	Request  *SyncRequest  `json:"request,omitempty"`
	Response *SyncResponse `json:"response,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`
}
