package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// MessageRow is one raw row of the message table.
type MessageRow struct {
	ID          int64
	Text        sql.NullString
	HandleID    sql.NullInt64
	Subject     sql.NullString
	Service     sql.NullString
	Account     sql.NullString
	Date        int64
	IsDelivered int64
	IsFromMe    int64
	IsRead      int64
	IsAudio     int64
}

// ParseAccount strips the protocol tag ("e:", "p:", "email:") from an account
// value. An absent account yields an absent address. An account without a
// ':' delimiter is malformed and also yields an absent address; ok reports
// whether the value was well formed.
func ParseAccount(account sql.NullString) (addr sql.NullString, ok bool) {
	if !account.Valid {
		return sql.NullString{}, true
	}
	_, rest, found := strings.Cut(account.String, ":")
	if !found {
		return sql.NullString{}, false
	}
	return sql.NullString{String: rest, Valid: true}, true
}

// NormalizeMessage turns a raw row into a Message, resolving the contact
// through dir and decoding the timestamp.
func NormalizeMessage(r MessageRow, dir *Directory) Message {
	self, _ := ParseAccount(r.Account)
	contact := UnknownContact
	if r.HandleID.Valid {
		contact = dir.Lookup(r.HandleID.Int64)
	}
	dirn := Incoming
	if r.IsFromMe != 0 {
		dirn = Outgoing
	}
	return Message{
		ID:          r.ID,
		Body:        r.Text,
		Contact:     contact,
		Account:     r.Account,
		SelfAddress: self,
		Timestamp:   DecodeTimestamp(r.Date),
		DateRaw:     r.Date,
		Channel:     Channel(r.Service.String),
		Subject:     r.Subject,
		Direction:   dirn,
		IsRead:      r.IsRead != 0,
		IsDelivered: r.IsDelivered != 0,
		IsAudio:     r.IsAudio != 0,
	}
}

// LoadMessages reads every message in the store's native row order.
// No re-sorting is applied: ROWID order is assumed chronological.
func (db *DB) LoadMessages(dir *Directory) ([]Message, error) {
	rows, err := db.Query(`
		SELECT ROWID, text, handle_id, subject, service, account, COALESCE("date", 0),
			COALESCE(is_delivered, 0), COALESCE(is_from_me, 0), COALESCE(is_read, 0),
			COALESCE(is_audio_message, 0)
		FROM message`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var r MessageRow
		if err := rows.Scan(&r.ID, &r.Text, &r.HandleID, &r.Subject, &r.Service, &r.Account, &r.Date,
			&r.IsDelivered, &r.IsFromMe, &r.IsRead, &r.IsAudio); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, NormalizeMessage(r, dir))
	}
	return msgs, rows.Err()
}
