package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrReservedContactID is returned when a handle row uses the id reserved for UnknownContact.
var ErrReservedContactID = errors.New("handle uses reserved id 0")

// Directory indexes every handle by ROWID and remembers load order.
// It is immutable once loaded.
type Directory struct {
	byID  map[int64]Contact
	order []int64
}

// ContactRow is one raw row of the handle table.
type ContactRow struct {
	ID          int64
	Address     string
	Channel     sql.NullString
	DisplayName sql.NullString
}

// NewDirectory builds a directory from rows. Rows are not deduplicated by
// address: the handle id is authoritative.
func NewDirectory(rows []ContactRow) (*Directory, error) {
	d := &Directory{byID: make(map[int64]Contact, len(rows))}
	for _, r := range rows {
		if r.ID == UnknownContact.ID {
			return nil, fmt.Errorf("handle %q: %w", r.Address, ErrReservedContactID)
		}
		if _, dup := d.byID[r.ID]; !dup {
			d.order = append(d.order, r.ID)
		}
		d.byID[r.ID] = Contact{
			ID:          r.ID,
			Address:     r.Address,
			Channel:     Channel(r.Channel.String),
			DisplayName: r.DisplayName,
		}
	}
	return d, nil
}

// Lookup returns the contact with the given id, or UnknownContact.
func (d *Directory) Lookup(id int64) Contact {
	if c, ok := d.byID[id]; ok {
		return c
	}
	return UnknownContact
}

// Contacts returns all contacts in load order.
func (d *Directory) Contacts() []Contact {
	out := make([]Contact, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Len returns the number of loaded contacts.
func (d *Directory) Len() int {
	return len(d.order)
}

// LoadContacts reads the handle table in native row order.
func (db *DB) LoadContacts() (*Directory, error) {
	rows, err := db.Query(`SELECT ROWID, id, service, uncanonicalized_id FROM handle`)
	if err != nil {
		return nil, fmt.Errorf("query handles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var raw []ContactRow
	for rows.Next() {
		var r ContactRow
		if err := rows.Scan(&r.ID, &r.Address, &r.Channel, &r.DisplayName); err != nil {
			return nil, fmt.Errorf("scan handle: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewDirectory(raw)
}
