package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// AttachmentIndex resolves a message's primary attachment on demand and
// memoizes the answer per message id. Most messages have none, so nothing is
// fetched up front.
type AttachmentIndex struct {
	db *DB

	mu    sync.Mutex
	cache map[int64]attachmentEntry
}

type attachmentEntry struct {
	att Attachment
	ok  bool
}

// NewAttachmentIndex creates an index backed by db.
func NewAttachmentIndex(db *DB) *AttachmentIndex {
	return &AttachmentIndex{db: db, cache: make(map[int64]attachmentEntry)}
}

// Attachment returns the attachment linked to messageID. ok is false when the
// message has none. When the join holds several rows for one message only
// the first one is used.
func (x *AttachmentIndex) Attachment(messageID int64) (att Attachment, ok bool, err error) {
	x.mu.Lock()
	e, hit := x.cache[messageID]
	x.mu.Unlock()
	if hit {
		return e.att, e.ok, nil
	}

	att, ok, err = x.db.queryAttachment(messageID)
	if err != nil {
		return Attachment{}, false, err
	}

	x.mu.Lock()
	x.cache[messageID] = attachmentEntry{att: att, ok: ok}
	x.mu.Unlock()
	return att, ok, nil
}

func (db *DB) queryAttachment(messageID int64) (Attachment, bool, error) {
	var a Attachment
	err := db.QueryRow(`
		SELECT filename, mime_type FROM attachment
		WHERE ROWID = (
			SELECT attachment_id FROM message_attachment_join
			WHERE message_id = ?
			LIMIT 1
		)`, messageID).Scan(&a.Path, &a.MIME)
	if errors.Is(err, sql.ErrNoRows) {
		return Attachment{}, false, nil
	}
	if err != nil {
		return Attachment{}, false, fmt.Errorf("query attachment for message %d: %w", messageID, err)
	}
	return a, true, nil
}

// Archive is the fully loaded, immutable model of one store.
type Archive struct {
	Contacts    *Directory
	Messages    []Message
	Attachments *AttachmentIndex
}

// Load reads handles then messages. Attachments stay lazy.
func (db *DB) Load() (*Archive, error) {
	dir, err := db.LoadContacts()
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	msgs, err := db.LoadMessages(dir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return &Archive{
		Contacts:    dir,
		Messages:    msgs,
		Attachments: NewAttachmentIndex(db),
	}, nil
}

// Conversation returns the messages exchanged with c, in store order.
// Matching is by (address, channel), not handle id.
func (a *Archive) Conversation(c Contact) []*Message {
	key := c.Key()
	var out []*Message
	for i := range a.Messages {
		if a.Messages[i].Contact.Key() == key {
			out = append(out, &a.Messages[i])
		}
	}
	return out
}

// Conversations partitions all messages by conversation key in one pass.
// Each slice points into a.Messages and keeps store order.
func (a *Archive) Conversations() map[ConversationKey][]*Message {
	out := make(map[ConversationKey][]*Message)
	for i := range a.Messages {
		k := a.Messages[i].Contact.Key()
		out[k] = append(out[k], &a.Messages[i])
	}
	return out
}
