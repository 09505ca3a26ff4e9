package store

import (
	"database/sql"
	"fmt"
)

// SeedHandle is a handle row to insert. ID 0 lets SQLite assign the ROWID.
type SeedHandle struct {
	ID          int64
	Address     string
	Service     string
	DisplayName sql.NullString
}

// SeedMessage is a message row to insert.
type SeedMessage struct {
	ID        int64
	Text      sql.NullString
	HandleID  int64
	Subject   sql.NullString
	Service   string
	Account   sql.NullString
	Date      int64
	FromMe    bool
	Read      bool
	Delivered bool
	Audio     bool
}

// SeedAttachment links an attachment row to a message.
type SeedAttachment struct {
	MessageID int64
	Path      sql.NullString
	MIME      sql.NullString
}

// SeedData is a batch of rows written by Seed.
type SeedData struct {
	Handles     []SeedHandle
	Messages    []SeedMessage
	Attachments []SeedAttachment
}

// Seed inserts rows into a migrated, writable store in a single transaction.
func (db *DB) Seed(data SeedData) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, h := range data.Handles {
		if _, err := tx.Exec(`
			INSERT INTO handle (ROWID, id, service, uncanonicalized_id)
			VALUES (NULLIF(?, 0), ?, ?, ?)`,
			h.ID, h.Address, h.Service, h.DisplayName); err != nil {
			return fmt.Errorf("insert handle %q: %w", h.Address, err)
		}
	}

	for i, m := range data.Messages {
		if _, err := tx.Exec(`
			INSERT INTO message (ROWID, guid, text, handle_id, subject, service, account, date,
				is_delivered, is_from_me, is_read, is_audio_message)
			VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, fmt.Sprintf("seed-message-%d", i), m.Text, m.HandleID, m.Subject, m.Service, m.Account, m.Date,
			m.Delivered, m.FromMe, m.Read, m.Audio); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	for i, a := range data.Attachments {
		res, err := tx.Exec(`
			INSERT INTO attachment (guid, filename, mime_type) VALUES (?, ?, ?)`,
			fmt.Sprintf("seed-attachment-%d", i), a.Path, a.MIME)
		if err != nil {
			return fmt.Errorf("insert attachment %d: %w", i, err)
		}
		attID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("attachment %d id: %w", i, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO message_attachment_join (message_id, attachment_id) VALUES (?, ?)`,
			a.MessageID, attID); err != nil {
			return fmt.Errorf("link attachment %d to message %d: %w", i, a.MessageID, err)
		}
	}

	return tx.Commit()
}
