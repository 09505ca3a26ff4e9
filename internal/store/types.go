package store

import (
	"database/sql"
	"strings"
	"time"
)

// Channel is the transport a handle or message went through.
type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelIMessage Channel = "iMessage"
)

// String returns the channel name as shown in listings. Unset channels
// (e.g. the unknown contact) read as "Unknown".
func (c Channel) String() string {
	if c == "" {
		return "Unknown"
	}
	return string(c)
}

// CSSName returns the lowercased channel name used in bubble classes.
func (c Channel) CSSName() string {
	if c == "" {
		return "unknown"
	}
	return strings.ToLower(string(c))
}

// Direction tells whether the exporting user sent or received a message.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// Contact is a handle row: one address on one channel.
type Contact struct {
	ID          int64
	Address     string
	Channel     Channel
	DisplayName sql.NullString
}

// UnknownContact stands in for messages whose handle row is missing.
// SQLite never issues ROWID 0, so its id cannot collide with a loaded handle.
var UnknownContact = Contact{
	ID:          0,
	Address:     "0",
	DisplayName: sql.NullString{String: "Unknown", Valid: true},
}

// Key returns the public identity a conversation is grouped by.
func (c Contact) Key() ConversationKey {
	return ConversationKey{Address: c.Address, Channel: c.Channel}
}

// ConversationKey groups messages by (address, channel) rather than handle id,
// since one public identity may own several handle rows.
type ConversationKey struct {
	Address string
	Channel Channel
}

// Message is a normalized message row.
type Message struct {
	ID          int64
	Body        sql.NullString
	Contact     Contact
	Account     sql.NullString // raw account column, e.g. "e:alice@example.com"
	SelfAddress sql.NullString
	Timestamp   time.Time
	DateRaw     int64
	Channel     Channel
	Subject     sql.NullString
	Direction   Direction
	IsRead      bool
	IsDelivered bool
	IsAudio     bool
}

// Outgoing reports whether the exporting user sent the message.
func (m *Message) Outgoing() bool {
	return m.Direction == Outgoing
}

// Attachment is the primary attachment linked to a message. Either field may
// be NULL in the store.
type Attachment struct {
	Path sql.NullString
	MIME sql.NullString
}
