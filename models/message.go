package models

import "fmt"

// Attachment is a binary payload attached to a message, stored inline
// locally but always shipped out of band during sync.
type Attachment struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	Size int64  `json:"size,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// AttachmentRef is the wire-level stand-in for an attachment: the metadata
// without the data, plus the index of the payload in the envelope's
// out-of-band attachment array.
type AttachmentRef struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Size  int64  `json:"size,omitempty"`
}

// Message is a single message owned by a thread. Message ids are
// content-addressed and stable across devices.
type Message struct {
	ID             string       `json:"id"`
	ThreadID       string       `json:"threadId"`
	Type           string       `json:"type"`
	Sender         string       `json:"sender"`
	SenderDevice   string       `json:"senderDevice"`
	Sent           int64        `json:"sent"`     // epoch milliseconds
	Received       int64        `json:"received"` // epoch milliseconds
	Expiration     int64        `json:"expiration,omitempty"`
	Plain          string       `json:"plain,omitempty"`
	HTML           string       `json:"html,omitempty"`
	Members        []string     `json:"members,omitempty"`
	Monitors       []string     `json:"monitors,omitempty"`
	PendingMembers []string     `json:"pendingMembers,omitempty"`
	UserAgent      string       `json:"userAgent,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// MessageRecord is the wire-level projection of a Message: the same field
// subset with attachment payloads replaced by indexed references.
type MessageRecord struct {
	ID             string          `json:"id"`
	ThreadID       string          `json:"threadId"`
	Type           string          `json:"type"`
	Sender         string          `json:"sender"`
	SenderDevice   string          `json:"senderDevice"`
	Sent           int64           `json:"sent"`
	Received       int64           `json:"received"`
	Expiration     int64           `json:"expiration,omitempty"`
	Plain          string          `json:"plain,omitempty"`
	HTML           string          `json:"html,omitempty"`
	Members        []string        `json:"members,omitempty"`
	Monitors       []string        `json:"monitors,omitempty"`
	PendingMembers []string        `json:"pendingMembers,omitempty"`
	UserAgent      string          `json:"userAgent,omitempty"`
	Attachments    []AttachmentRef `json:"attachments,omitempty"`
}

// NewMessageRecord projects m onto its wire form, appending each attachment
// payload to side and replacing it with an AttachmentRef pointing at its
// position there. The side array is shared by every record in one response.
func NewMessageRecord(m Message, side *[]Attachment) MessageRecord {
	rec := MessageRecord{
		ID:             m.ID,
		ThreadID:       m.ThreadID,
		Type:           m.Type,
		Sender:         m.Sender,
		SenderDevice:   m.SenderDevice,
		Sent:           m.Sent,
		Received:       m.Received,
		Expiration:     m.Expiration,
		Plain:          m.Plain,
		HTML:           m.HTML,
		Members:        m.Members,
		Monitors:       m.Monitors,
		PendingMembers: m.PendingMembers,
		UserAgent:      m.UserAgent,
	}
	for _, a := range m.Attachments {
		*side = append(*side, a)
		rec.Attachments = append(rec.Attachments, AttachmentRef{
			Index: len(*side) - 1,
			Name:  a.Name,
			Type:  a.Type,
			Size:  a.Size,
		})
	}
	return rec
}

// Restore rebuilds the full Message from a wire record by re-attaching the
// out-of-band payloads referenced by index. Returns an error if a reference
// points outside the side array.
func (r MessageRecord) Restore(side []Attachment) (Message, error) {
	m := Message{
		ID:             r.ID,
		ThreadID:       r.ThreadID,
		Type:           r.Type,
		Sender:         r.Sender,
		SenderDevice:   r.SenderDevice,
		Sent:           r.Sent,
		Received:       r.Received,
		Expiration:     r.Expiration,
		Plain:          r.Plain,
		HTML:           r.HTML,
		Members:        r.Members,
		Monitors:       r.Monitors,
		PendingMembers: r.PendingMembers,
		UserAgent:      r.UserAgent,
	}
	for _, ref := range r.Attachments {
		if ref.Index < 0 || ref.Index >= len(side) {
			return Message{}, fmt.Errorf("attachment index %d out of range for message %s", ref.Index, r.ID)
		}
		m.Attachments = append(m.Attachments, Attachment{
			Name: ref.Name,
			Type: ref.Type,
			Size: ref.Size,
			Data: side[ref.Index].Data,
		})
	}
	return m, nil
}
